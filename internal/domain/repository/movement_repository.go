package repository

import (
	"time"

	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de
// inventario. Solo inserta y consulta: el registro es append-only.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// SumQuantities suma los deltas de un (producto, ubicación) para reconciliar contra Balance.
	SumQuantities(productID, locationID string) (int64, error)
	// SumFromOrderSales suma (con signo, siempre <= 0) los movimientos SALE de
	// ventas originadas en un pedido. Las ventas desde pedido descuentan stock
	// dos veces (en la reserva y en el consumo) pero registran un solo
	// movimiento; la reconciliación necesita esta suma para cuadrar.
	SumFromOrderSales(productID, locationID string) (int64, error)
}
