package dto

import "github.com/shopspring/decimal"

// AddCartLineRequest body para POST /api/cart/items.
type AddCartLineRequest struct {
	PresentationID string `json:"presentation_id"`
	Qty            int64  `json:"qty"` // en unidades de venta
}

// UpdateCartLineRequest body para PATCH /api/cart/items/{id}.
type UpdateCartLineRequest struct {
	Qty int64 `json:"qty"`
}

// ConfirmCartRequest body para POST /api/cart/confirm.
type ConfirmCartRequest struct {
	LocationID      string           `json:"location_id"`
	DeliveryType    string           `json:"delivery_type,omitempty"`
	Address         string           `json:"address,omitempty"`
	InvoiceRequired bool             `json:"invoice_required,omitempty"`
	InvoiceNIT      string           `json:"invoice_nit,omitempty"`
	ShippingFee     *decimal.Decimal `json:"shipping_fee,omitempty"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// ConfirmCartResponse respuesta de la conversión carrito -> pedido.
type ConfirmCartResponse struct {
	OrderID    string          `json:"order_id"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// CartLineResponse línea de carrito.
type CartLineResponse struct {
	ID               string          `json:"id"`
	PresentationID   string          `json:"presentation_id"`
	ProductID        string          `json:"product_id"`
	Qty              int64           `json:"qty"`
	UnitsPerSaleUnit int64           `json:"units_per_sale_unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// CartResponse carrito activo con sus líneas.
type CartResponse struct {
	ID       string             `json:"id"`
	Status   string             `json:"status"`
	Lines    []CartLineResponse `json:"lines"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}
