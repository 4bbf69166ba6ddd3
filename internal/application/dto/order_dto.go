package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea para POST /api/orders.
type OrderLineRequest struct {
	PresentationID string           `json:"sku_id"`
	Qty            int64            `json:"qty"` // en unidades de venta
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateOrderRequest body para POST /api/orders (pedido directo, sin carrito).
type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id"`
	LocationID      string             `json:"location_id"`
	DeliveryType    string             `json:"delivery_type"`
	Address         string             `json:"address,omitempty"`
	InvoiceRequired bool               `json:"invoice_required"`
	InvoiceNIT      string             `json:"invoice_nit,omitempty"`
	ShippingFee     *decimal.Decimal   `json:"shipping_fee,omitempty"`
	Discount        *decimal.Decimal   `json:"discount,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Lines           []OrderLineRequest `json:"lines"`
}

// OrderLineResponse línea de pedido.
type OrderLineResponse struct {
	ID               string          `json:"id"`
	PresentationID   string          `json:"presentation_id"`
	ProductID        string          `json:"product_id"`
	Qty              int64           `json:"qty"`
	UnitsPerSaleUnit int64           `json:"units_per_sale_unit"`
	BaseQty          int64           `json:"base_qty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customer_id"`
	LocationID      string              `json:"location_id"`
	Status          string              `json:"status"`
	DeliveryType    string              `json:"delivery_type"`
	Address         string              `json:"address,omitempty"`
	InvoiceRequired bool                `json:"invoice_required"`
	InvoiceNIT      string              `json:"invoice_nit,omitempty"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	Discount        decimal.Decimal     `json:"discount"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	GrandTotal      decimal.Decimal     `json:"grand_total"`
	Notes           string              `json:"notes,omitempty"`
	Lines           []OrderLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
