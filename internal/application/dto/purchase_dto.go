package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea para POST /api/purchases.
type PurchaseLineRequest struct {
	PresentationID string          `json:"sku_id"`
	Qty            int64           `json:"qty"` // en unidades de venta
	UnitCost       decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	LocationID string                `json:"location_id"`
	Date       *time.Time            `json:"date,omitempty"`
	Notes      string                `json:"notes,omitempty"`
	Lines      []PurchaseLineRequest `json:"lines"`
}

// PurchaseLineResponse línea de compra.
type PurchaseLineResponse struct {
	ID               string          `json:"id"`
	PresentationID   string          `json:"presentation_id"`
	ProductID        string          `json:"product_id"`
	Qty              int64           `json:"qty"`
	UnitsPerSaleUnit int64           `json:"units_per_sale_unit"`
	BaseQty          int64           `json:"base_qty"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// PurchaseResponse compra con totales recalculados en servidor.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	LocationID string                 `json:"location_id"`
	Date       time.Time              `json:"date"`
	Subtotal   decimal.Decimal        `json:"subtotal"`
	Total      decimal.Decimal        `json:"total"`
	Lines      []PurchaseLineResponse `json:"lines,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
