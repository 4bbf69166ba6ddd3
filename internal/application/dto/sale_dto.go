package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales. Dos modos excluyentes:
// con OrderID (venta desde pedido pendiente) o con LocationID+Lines (venta directa).
type CreateSaleRequest struct {
	OrderID      string             `json:"order_id,omitempty"`
	PaymentTerms string             `json:"payment_terms,omitempty"`
	CustomerID   string             `json:"customer_id,omitempty"`
	LocationID   string             `json:"location_id,omitempty"`
	Lines        []OrderLineRequest `json:"lines,omitempty"`
}

// SaleLineResponse línea de venta.
type SaleLineResponse struct {
	ID               string          `json:"id"`
	PresentationID   string          `json:"presentation_id"`
	ProductID        string          `json:"product_id"`
	Qty              int64           `json:"qty"`
	UnitsPerSaleUnit int64           `json:"units_per_sale_unit"`
	BaseQty          int64           `json:"base_qty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID           string             `json:"id"`
	OrderID      *string            `json:"order_id,omitempty"`
	CustomerID   string             `json:"customer_id"`
	LocationID   string             `json:"location_id"`
	Status       string             `json:"status"`
	PaymentTerms string             `json:"payment_terms,omitempty"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	GrandTotal   decimal.Decimal    `json:"grand_total"`
	Lines        []SaleLineResponse `json:"lines,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
