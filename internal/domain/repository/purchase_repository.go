package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	List(limit, offset int) ([]*entity.Purchase, error)

	AddLine(line *entity.PurchaseLine) error
	ListLines(purchaseID string) ([]*entity.PurchaseLine, error)
}
