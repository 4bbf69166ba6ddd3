package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la venta. Inmutable una vez registrada.
const (
	SaleStatusRegistered = "REGISTERED"
	SaleStatusVoid       = "VOID"
)

// Sale venta registrada. OrderID no nil cuando la venta proviene de un pedido
// pendiente (consume su reserva); nil en venta directa (consume stock libre).
type Sale struct {
	ID           string
	OrderID      *string
	CustomerID   string
	LocationID   string
	Status       string
	PaymentTerms string
	Subtotal     decimal.Decimal
	GrandTotal   decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string
}

// SaleLine línea de venta con snapshot de precio y conversión.
type SaleLine struct {
	ID               string
	SaleID           string
	PresentationID   string
	ProductID        string
	SaleQty          int64
	UnitsPerSaleUnit int64
	BaseQty          int64
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal
}
