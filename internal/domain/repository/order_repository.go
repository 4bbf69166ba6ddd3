package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
// Las líneas son inmutables: solo se insertan al crear el pedido.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido (SELECT FOR UPDATE) antes de cancelar o vender.
	GetForUpdate(id string) (*entity.Order, error)
	UpdateStatus(id, status string) error
	List(status string, limit, offset int) ([]*entity.Order, error)

	AddLine(line *entity.OrderLine) error
	ListLines(orderID string) ([]*entity.OrderLine, error)
}
