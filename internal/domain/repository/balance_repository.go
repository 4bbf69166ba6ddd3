package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// BalanceRepository define el puerto para consultar/actualizar saldos de stock
// por producto+ubicación. Las mutaciones ocurren siempre dentro de una
// transacción, sobre la fila bloqueada con GetForUpdate.
type BalanceRepository interface {
	Get(productID, locationID string) (*entity.Balance, error)
	// GetForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
	// Serializa operaciones concurrentes sobre el mismo (producto, ubicación).
	GetForUpdate(productID, locationID string) (*entity.Balance, error)
	Update(balance *entity.Balance) error
	List(locationID string, limit, offset int) ([]*entity.Balance, error)
}
