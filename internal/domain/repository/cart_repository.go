package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// CartRepository define el puerto de persistencia para carritos y sus líneas.
type CartRepository interface {
	Create(cart *entity.Cart) error
	GetByID(id string) (*entity.Cart, error)
	// GetActiveByCustomer devuelve el carrito ACTIVE del cliente, o nil si no tiene.
	GetActiveByCustomer(customerID string) (*entity.Cart, error)
	// GetActiveForUpdate bloquea la fila del carrito ACTIVE del cliente (SELECT FOR UPDATE).
	GetActiveForUpdate(customerID string) (*entity.Cart, error)
	UpdateStatus(id, status string) error

	AddLine(line *entity.CartLine) error
	UpdateLineQty(lineID string, saleQty int64) error
	RemoveLine(lineID string) error
	GetLine(lineID string) (*entity.CartLine, error)
	ListLines(cartID string) ([]*entity.CartLine, error)
	DeleteLines(cartID string) error
}
