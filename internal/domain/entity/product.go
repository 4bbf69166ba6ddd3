package entity

import "time"

// Product representa un producto del catálogo. El stock se controla en
// unidades base por ubicación (ver Balance); las presentaciones definen los
// empaques vendibles y su factor de conversión.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	NameNorm    string // nombre normalizado (minúsculas, sin tildes) para búsqueda
	Description string
	BaseUnit    string // unidad base de control (ej. "unidad", "lata")
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
