package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la consignación.
const (
	ConsignmentStatusOpen      = "OPEN"
	ConsignmentStatusClosed    = "CLOSED"
	ConsignmentStatusCancelled = "CANCELLED"
)

// Consignment mercancía entregada en consignación. El despacho descuenta
// Available de inmediato (sin paso de reserva: la mercancía sale físicamente).
// Cerrar solo cambia el estado; cancelar retorna la mercancía al disponible.
type Consignment struct {
	ID         string
	CustomerID string
	LocationID string
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ConsignmentLine línea de consignación con snapshot de precio y conversión.
type ConsignmentLine struct {
	ID               string
	ConsignmentID    string
	PresentationID   string
	ProductID        string
	SaleQty          int64
	UnitsPerSaleUnit int64
	BaseQty          int64
	UnitPrice        decimal.Decimal
}
