package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentation empaque vendible de un producto (SKU de venta): lleva el factor
// de conversión a unidades base y el precio. Las líneas de documentos congelan
// UnitsPerSaleUnit al momento de la operación, por lo que editar el factor aquí
// no altera detalles históricos.
type Presentation struct {
	ID               string
	ProductID        string
	Name             string // ej. "Caja x24"
	UnitsPerSaleUnit int64
	Price            decimal.Decimal
	Barcode          string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
