package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateConsignmentRequest body para POST /api/consignments.
type CreateConsignmentRequest struct {
	CustomerID string             `json:"customer_id"`
	LocationID string             `json:"location_id"`
	Notes      string             `json:"notes,omitempty"`
	Lines      []OrderLineRequest `json:"lines"`
}

// ConsignmentLineResponse línea de consignación.
type ConsignmentLineResponse struct {
	ID               string          `json:"id"`
	PresentationID   string          `json:"presentation_id"`
	ProductID        string          `json:"product_id"`
	Qty              int64           `json:"qty"`
	UnitsPerSaleUnit int64           `json:"units_per_sale_unit"`
	BaseQty          int64           `json:"base_qty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

// ConsignmentResponse consignación con sus líneas.
type ConsignmentResponse struct {
	ID         string                    `json:"id"`
	CustomerID string                    `json:"customer_id"`
	LocationID string                    `json:"location_id"`
	Status     string                    `json:"status"`
	Notes      string                    `json:"notes,omitempty"`
	Lines      []ConsignmentLineResponse `json:"lines,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}
