package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	// GetByOrderID devuelve la venta creada desde un pedido, o nil. Respalda la
	// restricción de una sola venta por pedido.
	GetByOrderID(orderID string) (*entity.Sale, error)
	List(limit, offset int) ([]*entity.Sale, error)

	AddLine(line *entity.SaleLine) error
	ListLines(saleID string) ([]*entity.SaleLine, error)
}
