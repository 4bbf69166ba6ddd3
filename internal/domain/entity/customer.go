package entity

import "time"

// Customer cliente de la tienda. Los campos de facturación sirven de default
// al crear pedidos que requieren factura.
type Customer struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Address    string
	InvoiceNIT string // NIT/CC por defecto para facturación
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
