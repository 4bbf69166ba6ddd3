package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BaseUnit    string `json:"base_unit,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/{id}.
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BaseUnit    string `json:"base_unit,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BaseUnit    string    `json:"base_unit"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePresentationRequest body para POST /api/products/{id}/presentations.
type CreatePresentationRequest struct {
	Name             string          `json:"name"`
	UnitsPerSaleUnit int64           `json:"units_per_sale_unit"`
	Price            decimal.Decimal `json:"price"`
	Barcode          string          `json:"barcode,omitempty"`
}

// PresentationResponse presentación (SKU de venta).
type PresentationResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	UnitsPerSaleUnit int64           `json:"units_per_sale_unit"`
	Price            decimal.Decimal `json:"price"`
	Barcode          string          `json:"barcode,omitempty"`
	Active           bool            `json:"active"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// LocationResponse bodega o sucursal.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
