package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	// Search busca por nombre normalizado (minúsculas, sin tildes).
	Search(nameNorm string, limit, offset int) ([]*entity.Product, error)
}
