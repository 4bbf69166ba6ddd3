package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrEmptyCart          = errors.New("el carrito está vacío")

	// Fallos de precondición de stock, distinguibles con errors.Is.
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrReservationShortfall   = errors.New("reserva insuficiente")
	ErrPhysicalStockShortfall = errors.New("stock físico insuficiente")

	// Operación contra una entidad que no está en el estado requerido.
	ErrInvalidTransition = errors.New("transición de estado inválida")
)

// StockError fallo de precondición de stock con el detalle numérico que la API
// devuelve al cliente: producto ofensor, cantidad pedida y cantidad disponible.
// Kind es uno de los centinelas de stock; Unwrap permite errors.Is contra él.
type StockError struct {
	Kind      error
	ProductID string
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s para producto %s: disponible %d, solicitado %d",
		e.Kind.Error(), e.ProductID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return e.Kind }

// NewInsufficientStock construye el fallo de stock libre insuficiente (reservas y ventas directas).
func NewInsufficientStock(productID string, requested, available int64) error {
	return &StockError{Kind: ErrInsufficientStock, ProductID: productID, Requested: requested, Available: available}
}

// NewReservationShortfall construye el fallo de reserva insuficiente (venta desde pedido).
func NewReservationShortfall(productID string, requested, reserved int64) error {
	return &StockError{Kind: ErrReservationShortfall, ProductID: productID, Requested: requested, Available: reserved}
}

// NewPhysicalStockShortfall construye el fallo de stock físico insuficiente (venta desde pedido).
func NewPhysicalStockShortfall(productID string, requested, available int64) error {
	return &StockError{Kind: ErrPhysicalStockShortfall, ProductID: productID, Requested: requested, Available: available}
}

// TransitionError detalla una transición de estado rechazada.
type TransitionError struct {
	Entity   string // "order", "cart", "consignment"
	ID       string
	Status   string // estado actual
	Expected string // estado requerido
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición de estado inválida: %s %s está %s, se requiere %s",
		e.Entity, e.ID, e.Status, e.Expected)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewInvalidTransition construye el rechazo de transición de estado.
func NewInvalidTransition(entity, id, status, expected string) error {
	return &TransitionError{Entity: entity, ID: id, Status: status, Expected: expected}
}
