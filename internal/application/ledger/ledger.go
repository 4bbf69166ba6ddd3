// Package ledger implementa las primitivas transaccionales del libro de stock:
// reservar, liberar, consumir, recibir, despachar y ajustar saldos por
// (producto, ubicación), más el registro append-only de movimientos.
//
// Todas las primitivas asumen una transacción ambiente provista por el caller
// (vía TxRunner) y bloquean la fila de Balance con SELECT FOR UPDATE antes de
// mutarla, para serializar peticiones concurrentes sobre el mismo par. El
// stock libre para nuevas reservas, ventas directas y despachos es siempre
// Available - Reserved.
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
	"github.com/tu-usuario/comercio-pro/pkg/logger"
)

// Ledger primitivas del libro de stock. Sin estado entre llamadas: todo el
// estado compartido vive en la BD y se relee bajo lock en cada operación.
type Ledger struct {
	log *logger.Logger
}

// New construye el ledger.
func New(log *logger.Logger) *Ledger {
	return &Ledger{log: log.Component("ledger")}
}

// Reserve aparta baseQty unidades base para un pedido pendiente: mueve la
// cantidad del cubo disponible al reservado sin sacarla físicamente.
// Precondición: stock libre (Available - Reserved) >= baseQty.
// No escribe Movement: la mercancía no se movió, solo cambió su asignación.
func (l *Ledger) Reserve(balances repository.BalanceRepository, productID, locationID string, baseQty int64) error {
	if baseQty <= 0 {
		return domain.ErrInvalidInput
	}
	b, err := balances.GetForUpdate(productID, locationID)
	if err != nil {
		return err
	}
	if b.Free() < baseQty {
		reservationsTotal.WithLabelValues("rejected").Inc()
		return domain.NewInsufficientStock(productID, baseQty, b.Free())
	}
	b.Available -= baseQty
	b.Reserved += baseQty
	b.UpdatedAt = time.Now()
	if err := balances.Update(b); err != nil {
		return err
	}
	reservationsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Release revierte una reserva (cancelación de pedido): devuelve baseQty del
// cubo reservado al disponible. Recorta a cero en vez de fallar si Reserved
// quedara negativo; un recorte efectivo indica un doble-release aguas arriba
// y se registra como warning.
func (l *Ledger) Release(balances repository.BalanceRepository, productID, locationID string, baseQty int64) error {
	if baseQty <= 0 {
		return domain.ErrInvalidInput
	}
	b, err := balances.GetForUpdate(productID, locationID)
	if err != nil {
		return err
	}
	released := baseQty
	if released > b.Reserved {
		released = b.Reserved
		clampsTotal.Inc()
		l.log.Warn().
			Str("product_id", productID).
			Str("location_id", locationID).
			Int64("requested", baseQty).
			Int64("reserved", b.Reserved).
			Msg("release recortado a cero: posible doble liberación")
	}
	b.Reserved -= released
	b.Available += released
	b.UpdatedAt = time.Now()
	return balances.Update(b)
}

// Consume registra la salida física de una venta.
//
// Con fromReservation=true (venta desde pedido) exige Reserved >= baseQty y
// Available >= baseQty, con errores distintos para cada faltante, y descuenta
// ambos cubos. Con fromReservation=false (venta directa) exige stock libre y
// descuenta solo Available. En ambos casos escribe un Movement SALE negativo.
func (l *Ledger) Consume(
	balances repository.BalanceRepository,
	movements repository.MovementRepository,
	productID, locationID string,
	baseQty int64,
	fromReservation bool,
	ref entity.MovementRef,
	userID string,
) error {
	if baseQty <= 0 {
		return domain.ErrInvalidInput
	}
	b, err := balances.GetForUpdate(productID, locationID)
	if err != nil {
		return err
	}
	if fromReservation {
		if b.Reserved < baseQty {
			return domain.NewReservationShortfall(productID, baseQty, b.Reserved)
		}
		if b.Available < baseQty {
			return domain.NewPhysicalStockShortfall(productID, baseQty, b.Available)
		}
		b.Reserved -= baseQty
		b.Available -= baseQty
	} else {
		if b.Free() < baseQty {
			return domain.NewInsufficientStock(productID, baseQty, b.Free())
		}
		b.Available -= baseQty
	}
	b.UpdatedAt = time.Now()
	if err := balances.Update(b); err != nil {
		return err
	}
	return l.writeMovement(movements, &entity.Movement{
		ProductID:  productID,
		LocationID: locationID,
		Type:       entity.MovementTypeSALE,
		Quantity:   -baseQty,
		Ref:        ref,
		CreatedBy:  userID,
	})
}

// Receive registra la entrada de una compra: suma Available sin precondición
// (entrada positiva arbitraria) y escribe un Movement PURCHASE positivo.
func (l *Ledger) Receive(
	balances repository.BalanceRepository,
	movements repository.MovementRepository,
	productID, locationID string,
	baseQty int64,
	ref entity.MovementRef,
	userID string,
) error {
	if baseQty <= 0 {
		return domain.ErrInvalidInput
	}
	b, err := balances.GetForUpdate(productID, locationID)
	if err != nil {
		return err
	}
	b.Available += baseQty
	b.UpdatedAt = time.Now()
	if err := balances.Update(b); err != nil {
		return err
	}
	return l.writeMovement(movements, &entity.Movement{
		ProductID:  productID,
		LocationID: locationID,
		Type:       entity.MovementTypePURCHASE,
		Quantity:   baseQty,
		Ref:        ref,
		CreatedBy:  userID,
	})
}

// DispatchConsignment registra la salida de mercancía en consignación: no hay
// paso de reserva porque la mercancía sale físicamente de inmediato.
// Precondición: stock libre >= baseQty. Recorta a cero si Available quedara
// negativo, con warning. Escribe un Movement CONSIGNMENT_OUT negativo.
func (l *Ledger) DispatchConsignment(
	balances repository.BalanceRepository,
	movements repository.MovementRepository,
	productID, locationID string,
	baseQty int64,
	ref entity.MovementRef,
	userID string,
) error {
	if baseQty <= 0 {
		return domain.ErrInvalidInput
	}
	b, err := balances.GetForUpdate(productID, locationID)
	if err != nil {
		return err
	}
	if b.Free() < baseQty {
		return domain.NewInsufficientStock(productID, baseQty, b.Free())
	}
	b.Available -= baseQty
	if b.Available < 0 {
		clampsTotal.Inc()
		l.log.Warn().
			Str("product_id", productID).
			Str("location_id", locationID).
			Int64("requested", baseQty).
			Msg("dispatch recortado a cero")
		b.Available = 0
	}
	b.UpdatedAt = time.Now()
	if err := balances.Update(b); err != nil {
		return err
	}
	return l.writeMovement(movements, &entity.Movement{
		ProductID:  productID,
		LocationID: locationID,
		Type:       entity.MovementTypeCONSIGNMENTOUT,
		Quantity:   -baseQty,
		Ref:        ref,
		CreatedBy:  userID,
	})
}

// ReturnConsignment devuelve al disponible la mercancía de una consignación
// cancelada. Escribe un Movement CONSIGNMENT_RETURN positivo.
func (l *Ledger) ReturnConsignment(
	balances repository.BalanceRepository,
	movements repository.MovementRepository,
	productID, locationID string,
	baseQty int64,
	ref entity.MovementRef,
	userID string,
) error {
	if baseQty <= 0 {
		return domain.ErrInvalidInput
	}
	b, err := balances.GetForUpdate(productID, locationID)
	if err != nil {
		return err
	}
	b.Available += baseQty
	b.UpdatedAt = time.Now()
	if err := balances.Update(b); err != nil {
		return err
	}
	return l.writeMovement(movements, &entity.Movement{
		ProductID:  productID,
		LocationID: locationID,
		Type:       entity.MovementTypeCONSIGNMENTRETURN,
		Quantity:   baseQty,
		Ref:        ref,
		CreatedBy:  userID,
	})
}

// Adjust aplica una corrección manual con signo sobre Available, sin
// precondición de suficiencia (un admin puede llevar el stock a cualquier
// valor). Escribe un Movement ADJUSTMENT con el delta y la razón, y devuelve
// el saldo y el movimiento resultantes.
func (l *Ledger) Adjust(
	balances repository.BalanceRepository,
	movements repository.MovementRepository,
	productID, locationID string,
	deltaQty int64,
	reason, userID string,
) (*entity.Balance, *entity.Movement, error) {
	if deltaQty == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	b, err := balances.GetForUpdate(productID, locationID)
	if err != nil {
		return nil, nil, err
	}
	b.Available += deltaQty
	b.UpdatedAt = time.Now()
	if err := balances.Update(b); err != nil {
		return nil, nil, err
	}
	mov := &entity.Movement{
		ProductID:  productID,
		LocationID: locationID,
		Type:       entity.MovementTypeADJUSTMENT,
		Quantity:   deltaQty,
		Ref:        entity.AdjustmentRef(uuid.New().String()),
		Note:       reason,
		CreatedBy:  userID,
	}
	if err := l.writeMovement(movements, mov); err != nil {
		return nil, nil, err
	}
	return b, mov, nil
}

func (l *Ledger) writeMovement(movements repository.MovementRepository, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := movements.Create(m); err != nil {
		return err
	}
	movementsTotal.WithLabelValues(m.Type).Inc()
	return nil
}

// Requirement cantidad base requerida para un producto dentro de una operación multi-línea.
type Requirement struct {
	ProductID string
	BaseQty   int64
}

// AggregateRequirements agrega cantidades base por producto y devuelve los
// requisitos en orden ascendente de product ID. El orden fijo evita deadlocks
// entre dos transacciones que tocan los mismos productos en orden opuesto.
func AggregateRequirements(pairs []Requirement) []Requirement {
	byProduct := make(map[string]int64, len(pairs))
	for _, p := range pairs {
		byProduct[p.ProductID] += p.BaseQty
	}
	ids := make([]string, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Requirement, 0, len(ids))
	for _, id := range ids {
		out = append(out, Requirement{ProductID: id, BaseQty: byProduct[id]})
	}
	return out
}

// ValidateFree verifica, bajo lock, que cada requisito tenga stock libre
// suficiente antes de aplicar mutación alguna (primer paso del patrón
// validar-todo-luego-aplicar-todo). Los locks adquiridos se mantienen hasta el
// fin de la transacción ambiente.
func (l *Ledger) ValidateFree(balances repository.BalanceRepository, locationID string, reqs []Requirement) error {
	for _, r := range reqs {
		b, err := balances.GetForUpdate(r.ProductID, locationID)
		if err != nil {
			return err
		}
		if b.Free() < r.BaseQty {
			return domain.NewInsufficientStock(r.ProductID, r.BaseQty, b.Free())
		}
	}
	return nil
}
