package entity

import "time"

// Balance representa el saldo de stock de un producto en una ubicación.
// Available es la cantidad físicamente libre para vender y Reserved la cantidad
// apartada por pedidos pendientes; ambas en unidades base. El total en bodega
// es Available + Reserved.
type Balance struct {
	ProductID  string
	LocationID string
	Available  int64
	Reserved   int64
	UpdatedAt  time.Time
}

// Free devuelve el stock libre: disponible menos lo ya reservado por pedidos
// pendientes. Es la única fórmula usada para validar nuevas reservas, ventas
// directas y despachos de consignación.
func (b *Balance) Free() int64 {
	return b.Available - b.Reserved
}
