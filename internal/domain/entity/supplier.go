package entity

import "time"

// Supplier proveedor de compras.
type Supplier struct {
	ID        string
	Name      string
	NIT       string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
