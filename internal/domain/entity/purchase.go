package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase compra a proveedor. Recibir la compra suma stock disponible sin
// precondición (entrada arbitraria positiva).
type Purchase struct {
	ID         string
	SupplierID string
	LocationID string
	Date       time.Time
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	CreatedAt  time.Time
	CreatedBy  string
}

// PurchaseLine línea de compra con costo unitario.
type PurchaseLine struct {
	ID               string
	PurchaseID       string
	PresentationID   string
	ProductID        string
	SaleQty          int64
	UnitsPerSaleUnit int64
	BaseQty          int64
	UnitCost         decimal.Decimal
	LineTotal        decimal.Decimal
}
