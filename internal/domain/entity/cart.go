package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del carrito. Un cliente tiene a lo sumo un carrito ACTIVE a la vez.
const (
	CartStatusActive    = "ACTIVE"
	CartStatusConverted = "CONVERTED" // convertido en pedido
	CartStatusCancelled = "CANCELLED"
)

// Cart carrito de compras de un cliente. Se crea de forma perezosa al agregar
// la primera línea y se vacía al convertirse en pedido.
type Cart struct {
	ID         string
	CustomerID string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartLine línea de carrito. Congela precio unitario y factor de conversión de
// la presentación al momento de agregarla, para que el histórico no cambie si
// la presentación se edita después.
type CartLine struct {
	ID               string
	CartID           string
	PresentationID   string
	ProductID        string
	SaleQty          int64 // cantidad en unidades de venta
	UnitsPerSaleUnit int64 // factor de conversión congelado
	UnitPrice        decimal.Decimal
	CreatedAt        time.Time
}

// BaseQty devuelve la cantidad en unidades base (multiplicación pura, nunca se re-deriva).
func (l *CartLine) BaseQty() int64 {
	return l.SaleQty * l.UnitsPerSaleUnit
}
