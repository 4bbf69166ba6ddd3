package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusCompleted = "COMPLETED"
)

// Tipos de entrega.
const (
	DeliveryTypePickup   = "PICKUP"
	DeliveryTypeDelivery = "DELIVERY" // a domicilio; requiere dirección
)

// Order (pedido) reserva stock al crearse y lo libera al cancelarse o lo
// consume al convertirse en venta. Las líneas son inmutables una vez creadas;
// después solo cambian el estado del pedido y el Balance.
type Order struct {
	ID              string
	CustomerID      string
	LocationID      string
	Status          string
	DeliveryType    string
	Address         string
	InvoiceRequired bool
	InvoiceNIT      string
	ShippingFee     decimal.Decimal
	Discount        decimal.Decimal
	Subtotal        decimal.Decimal
	GrandTotal      decimal.Decimal
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderLine línea de pedido con snapshot de precio y conversión. BaseQty es la
// cantidad en unidades base que se reservó contra el Balance al crear el pedido.
type OrderLine struct {
	ID               string
	OrderID          string
	PresentationID   string
	ProductID        string
	SaleQty          int64
	UnitsPerSaleUnit int64
	BaseQty          int64
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal
}
