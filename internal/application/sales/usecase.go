// Package sales implementa el registro de ventas: desde pedido pendiente
// (consumiendo su reserva) o directa (consumiendo stock libre).
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/application/orders"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// SaleUseCase registro de ventas. La venta es inmutable una vez creada; el
// precio unitario se copia de la línea del pedido (venta desde pedido) o de la
// presentación/request (venta directa).
type SaleUseCase struct {
	txRunner     ledger.TxRunner
	ledger       *ledger.Ledger
	saleRepo     repository.SaleRepository
	orderRepo    repository.OrderRepository
	presRepo     repository.PresentationRepository
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
	receipts     ReceiptGenerator
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner ledger.TxRunner,
	l *ledger.Ledger,
	saleRepo repository.SaleRepository,
	orderRepo repository.OrderRepository,
	presRepo repository.PresentationRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
	receipts ReceiptGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		ledger:       l,
		saleRepo:     saleRepo,
		orderRepo:    orderRepo,
		presRepo:     presRepo,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
		receipts:     receipts,
	}
}

// Create despacha al modo correcto según el body: order_id presente -> venta
// desde pedido; si no, venta directa con location_id + lines.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.OrderID != "" {
		return uc.CreateFromOrder(ctx, userID, in.OrderID, in.PaymentTerms)
	}
	return uc.CreateDirect(ctx, userID, in)
}

// CreateFromOrder convierte un pedido PENDING en venta dentro de una sola
// transacción: bloquea el pedido, rechaza si ya existe una venta para él,
// consume la reserva de cada línea (ambos cubos) y marca el pedido COMPLETED.
// El precio final de cada línea se copia del snapshot del pedido.
func (uc *SaleUseCase) CreateFromOrder(ctx context.Context, userID, orderID, paymentTerms string) (*dto.SaleResponse, error) {
	var (
		sale      *entity.Sale
		saleLines []*entity.SaleLine
	)
	err := uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		order, err := tx.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusPending {
			return domain.NewInvalidTransition("order", order.ID, order.Status, entity.OrderStatusPending)
		}
		existing, err := tx.Sales.GetByOrderID(orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrConflict
		}
		orderLines, err := tx.Orders.ListLines(order.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		oID := order.ID
		sale = &entity.Sale{
			ID:           uuid.New().String(),
			OrderID:      &oID,
			CustomerID:   order.CustomerID,
			LocationID:   order.LocationID,
			Status:       entity.SaleStatusRegistered,
			PaymentTerms: paymentTerms,
			Subtotal:     order.Subtotal,
			GrandTotal:   order.GrandTotal,
			CreatedAt:    now,
			CreatedBy:    userID,
		}

		reqs := make([]ledger.Requirement, 0, len(orderLines))
		for _, l := range orderLines {
			reqs = append(reqs, ledger.Requirement{ProductID: l.ProductID, BaseQty: l.BaseQty})
		}
		for _, r := range ledger.AggregateRequirements(reqs) {
			if err := uc.ledger.Consume(tx.Balances, tx.Movements,
				r.ProductID, order.LocationID, r.BaseQty, true,
				entity.SaleRef(sale.ID), userID); err != nil {
				return err
			}
		}

		if err := tx.Sales.Create(sale); err != nil {
			return err
		}
		saleLines = make([]*entity.SaleLine, 0, len(orderLines))
		for _, l := range orderLines {
			sl := &entity.SaleLine{
				ID:               uuid.New().String(),
				SaleID:           sale.ID,
				PresentationID:   l.PresentationID,
				ProductID:        l.ProductID,
				SaleQty:          l.SaleQty,
				UnitsPerSaleUnit: l.UnitsPerSaleUnit,
				BaseQty:          l.BaseQty,
				UnitPrice:        l.UnitPrice,
				LineTotal:        l.LineTotal,
			}
			if err := tx.Sales.AddLine(sl); err != nil {
				return err
			}
			saleLines = append(saleLines, sl)
		}
		if err := tx.Orders.UpdateStatus(order.ID, entity.OrderStatusCompleted); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, saleLines), nil
}

// CreateDirect registra una venta sin pedido previo: valida ubicación y
// presentaciones, y en una sola transacción valida stock libre para todos los
// productos y consume por producto (sin tocar reservas ajenas).
func (uc *SaleUseCase) CreateDirect(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.LocationID == "" || in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	resolved, err := orders.ResolveLines(uc.presRepo, in.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		CustomerID:   in.CustomerID,
		LocationID:   in.LocationID,
		Status:       entity.SaleStatusRegistered,
		PaymentTerms: in.PaymentTerms,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	subtotal := decimal.Zero
	saleLines := make([]*entity.SaleLine, 0, len(resolved))
	reqs := make([]ledger.Requirement, 0, len(resolved))
	for _, rl := range resolved {
		baseQty := rl.SaleQty * rl.Presentation.UnitsPerSaleUnit
		lineTotal := rl.UnitPrice.Mul(decimal.NewFromInt(rl.SaleQty))
		subtotal = subtotal.Add(lineTotal)
		reqs = append(reqs, ledger.Requirement{ProductID: rl.Presentation.ProductID, BaseQty: baseQty})
		saleLines = append(saleLines, &entity.SaleLine{
			ID:               uuid.New().String(),
			SaleID:           sale.ID,
			PresentationID:   rl.Presentation.ID,
			ProductID:        rl.Presentation.ProductID,
			SaleQty:          rl.SaleQty,
			UnitsPerSaleUnit: rl.Presentation.UnitsPerSaleUnit,
			BaseQty:          baseQty,
			UnitPrice:        rl.UnitPrice,
			LineTotal:        lineTotal,
		})
	}
	sale.Subtotal = subtotal
	sale.GrandTotal = subtotal
	aggregated := ledger.AggregateRequirements(reqs)

	err = uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		if err := uc.ledger.ValidateFree(tx.Balances, in.LocationID, aggregated); err != nil {
			return err
		}
		for _, r := range aggregated {
			if err := uc.ledger.Consume(tx.Balances, tx.Movements,
				r.ProductID, in.LocationID, r.BaseQty, false,
				entity.SaleRef(sale.ID), userID); err != nil {
				return err
			}
		}
		if err := tx.Sales.Create(sale); err != nil {
			return err
		}
		for _, sl := range saleLines {
			if err := tx.Sales.AddLine(sl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, saleLines), nil
}

// GetByID devuelve la venta con sus líneas.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.ListLines(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines), nil
}

// List lista ventas con paginación.
func (uc *SaleUseCase) List(limit, offset int) ([]*dto.SaleResponse, error) {
	sales, err := uc.saleRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s, nil))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale, lines []*entity.SaleLine) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:           s.ID,
		OrderID:      s.OrderID,
		CustomerID:   s.CustomerID,
		LocationID:   s.LocationID,
		Status:       s.Status,
		PaymentTerms: s.PaymentTerms,
		Subtotal:     s.Subtotal,
		GrandTotal:   s.GrandTotal,
		CreatedAt:    s.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:               l.ID,
			PresentationID:   l.PresentationID,
			ProductID:        l.ProductID,
			Qty:              l.SaleQty,
			UnitsPerSaleUnit: l.UnitsPerSaleUnit,
			BaseQty:          l.BaseQty,
			UnitPrice:        l.UnitPrice,
			LineTotal:        l.LineTotal,
		})
	}
	return resp
}
