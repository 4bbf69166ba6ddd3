// Package inventory implementa consultas de saldos/movimientos y el ajuste manual.
package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// InventoryUseCase consultas de inventario y la corrección manual de stock.
type InventoryUseCase struct {
	txRunner     ledger.TxRunner
	ledger       *ledger.Ledger
	balanceRepo  repository.BalanceRepository
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	txRunner ledger.TxRunner,
	l *ledger.Ledger,
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *InventoryUseCase {
	return &InventoryUseCase{
		txRunner:     txRunner,
		ledger:       l,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// Adjust aplica una corrección manual de stock (conteo físico, merma, rotura)
// y devuelve el saldo resultante junto al movimiento ADJUSTMENT generado.
func (uc *InventoryUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.ProductID == "" || in.LocationID == "" || in.DeltaQty == 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}

	var (
		balance  *entity.Balance
		movement *entity.Movement
	)
	err = uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		var err error
		balance, movement, err = uc.ledger.Adjust(tx.Balances, tx.Movements,
			in.ProductID, in.LocationID, in.DeltaQty, in.Reason, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustStockResponse{
		Balance:  toBalanceResponse(balance),
		Movement: toMovementResponse(movement),
	}, nil
}

// GetBalance devuelve el saldo de un producto en una ubicación. Si nunca hubo
// movimiento devuelve un saldo en cero en vez de 404.
func (uc *InventoryUseCase) GetBalance(productID, locationID string) (*dto.BalanceResponse, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.balanceRepo.Get(productID, locationID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = &entity.Balance{ProductID: productID, LocationID: locationID}
	}
	resp := toBalanceResponse(b)
	return &resp, nil
}

// ListBalances lista los saldos de una ubicación con paginación.
func (uc *InventoryUseCase) ListBalances(locationID string, limit, offset int) ([]dto.BalanceResponse, error) {
	balances, err := uc.balanceRepo.List(locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	return out, nil
}

// ListMovements lista movimientos con filtros opcionales de producto,
// ubicación y rango de fechas.
func (uc *InventoryUseCase) ListMovements(productID, locationID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	movements, err := uc.movementRepo.List(productID, locationID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// Reconcile compara la suma de movimientos de un (producto, ubicación) contra
// el saldo registrado. Dos asimetrías del libro entran en la cuenta:
//
//   - Reservar no genera movimiento pero descuenta Available, así que la
//     mercancía reservada (Reserved) sigue contando como stock en bodega.
//   - La venta desde pedido descuenta ambos cubos (la reserva ya había
//     descontado Available) pero registra un solo movimiento SALE, así que
//     cada unidad consumida desde reserva aparece una vez de menos en la suma.
//
// El saldo cuadra cuando SUM(movements) == Available + Reserved + consumido
// desde pedidos.
func (uc *InventoryUseCase) Reconcile(productID, locationID string) (*dto.ReconciliationResponse, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.balanceRepo.Get(productID, locationID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = &entity.Balance{ProductID: productID, LocationID: locationID}
	}
	sum, err := uc.movementRepo.SumQuantities(productID, locationID)
	if err != nil {
		return nil, err
	}
	fromOrders, err := uc.movementRepo.SumFromOrderSales(productID, locationID)
	if err != nil {
		return nil, err
	}
	consumed := -fromOrders // los movimientos SALE son negativos
	onHand := b.Available + b.Reserved
	expected := onHand + consumed
	return &dto.ReconciliationResponse{
		ProductID:          productID,
		LocationID:         locationID,
		MovementSum:        sum,
		OnHand:             onHand,
		ConsumedFromOrders: consumed,
		Discrepancy:        expected - sum,
		IsReconciled:       expected == sum,
	}, nil
}

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProductID:  b.ProductID,
		LocationID: b.LocationID,
		Available:  b.Available,
		Reserved:   b.Reserved,
		Free:       b.Free(),
		UpdatedAt:  b.UpdatedAt,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		ReferenceType: string(m.Ref.Type),
		ReferenceID:   m.Ref.ID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}
