package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// PresentationRepository define el puerto de persistencia para presentaciones (SKUs de venta).
type PresentationRepository interface {
	Create(presentation *entity.Presentation) error
	GetByID(id string) (*entity.Presentation, error)
	Update(presentation *entity.Presentation) error
	ListByProduct(productID string) ([]*entity.Presentation, error)
}
