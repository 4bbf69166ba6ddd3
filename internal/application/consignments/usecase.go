// Package consignments implementa el despacho y cierre de consignaciones.
package consignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/application/orders"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// ConsignmentUseCase despacho, cierre y cancelación de consignaciones.
// El despacho descuenta Available sin pasar por reserva: la mercancía sale
// físicamente de bodega. Cancelar una consignación OPEN la retorna completa.
type ConsignmentUseCase struct {
	txRunner        ledger.TxRunner
	ledger          *ledger.Ledger
	consignmentRepo repository.ConsignmentRepository
	presRepo        repository.PresentationRepository
	locationRepo    repository.LocationRepository
	customerRepo    repository.CustomerRepository
}

// NewConsignmentUseCase construye el caso de uso.
func NewConsignmentUseCase(
	txRunner ledger.TxRunner,
	l *ledger.Ledger,
	consignmentRepo repository.ConsignmentRepository,
	presRepo repository.PresentationRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
) *ConsignmentUseCase {
	return &ConsignmentUseCase{
		txRunner:        txRunner,
		ledger:          l,
		consignmentRepo: consignmentRepo,
		presRepo:        presRepo,
		locationRepo:    locationRepo,
		customerRepo:    customerRepo,
	}
}

// Create despacha una consignación nueva. Valida stock libre de todos los
// productos antes de descontar ninguno: o salen todas las líneas o ninguna.
func (uc *ConsignmentUseCase) Create(ctx context.Context, userID string, in dto.CreateConsignmentRequest) (*dto.ConsignmentResponse, error) {
	if in.CustomerID == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	resolved, err := orders.ResolveLines(uc.presRepo, in.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	consignment := &entity.Consignment{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		LocationID: in.LocationID,
		Status:     entity.ConsignmentStatusOpen,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	lines := make([]*entity.ConsignmentLine, 0, len(resolved))
	reqs := make([]ledger.Requirement, 0, len(resolved))
	for _, r := range resolved {
		baseQty := r.SaleQty * r.Presentation.UnitsPerSaleUnit
		reqs = append(reqs, ledger.Requirement{ProductID: r.Presentation.ProductID, BaseQty: baseQty})
		lines = append(lines, &entity.ConsignmentLine{
			ID:               uuid.New().String(),
			ConsignmentID:    consignment.ID,
			PresentationID:   r.Presentation.ID,
			ProductID:        r.Presentation.ProductID,
			SaleQty:          r.SaleQty,
			UnitsPerSaleUnit: r.Presentation.UnitsPerSaleUnit,
			BaseQty:          baseQty,
			UnitPrice:        r.UnitPrice,
		})
	}
	aggregated := ledger.AggregateRequirements(reqs)

	err = uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		if err := uc.ledger.ValidateFree(tx.Balances, in.LocationID, aggregated); err != nil {
			return err
		}
		if err := tx.Consignments.Create(consignment); err != nil {
			return err
		}
		for _, l := range lines {
			if err := tx.Consignments.AddLine(l); err != nil {
				return err
			}
		}
		for _, r := range aggregated {
			if err := uc.ledger.DispatchConsignment(tx.Balances, tx.Movements,
				r.ProductID, in.LocationID, r.BaseQty,
				entity.ConsignmentRef(consignment.ID), userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toConsignmentResponse(consignment, lines), nil
}

// Close cierra una consignación abierta. Cerrar no mueve stock: la mercancía
// ya salió al despachar y lo vendido/devuelto se registró por otras vías.
func (uc *ConsignmentUseCase) Close(ctx context.Context, id string) (*dto.ConsignmentResponse, error) {
	var consignment *entity.Consignment
	err := uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		var err error
		consignment, err = tx.Consignments.GetForUpdate(id)
		if err != nil {
			return err
		}
		if consignment == nil {
			return domain.ErrNotFound
		}
		if consignment.Status != entity.ConsignmentStatusOpen {
			return domain.NewInvalidTransition("consignación", id, consignment.Status, entity.ConsignmentStatusOpen)
		}
		consignment.Status = entity.ConsignmentStatusClosed
		consignment.UpdatedAt = time.Now()
		return tx.Consignments.UpdateStatus(id, entity.ConsignmentStatusClosed)
	})
	if err != nil {
		return nil, err
	}
	return toConsignmentResponse(consignment, nil), nil
}

// Cancel cancela una consignación abierta y retorna toda su mercancía al
// stock disponible de la ubicación de origen.
func (uc *ConsignmentUseCase) Cancel(ctx context.Context, userID, id string) (*dto.ConsignmentResponse, error) {
	var consignment *entity.Consignment
	err := uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		var err error
		consignment, err = tx.Consignments.GetForUpdate(id)
		if err != nil {
			return err
		}
		if consignment == nil {
			return domain.ErrNotFound
		}
		if consignment.Status != entity.ConsignmentStatusOpen {
			return domain.NewInvalidTransition("consignación", id, consignment.Status, entity.ConsignmentStatusOpen)
		}
		lines, err := tx.Consignments.ListLines(id)
		if err != nil {
			return err
		}
		reqs := make([]ledger.Requirement, 0, len(lines))
		for _, l := range lines {
			reqs = append(reqs, ledger.Requirement{ProductID: l.ProductID, BaseQty: l.BaseQty})
		}
		for _, r := range ledger.AggregateRequirements(reqs) {
			if err := uc.ledger.ReturnConsignment(tx.Balances, tx.Movements,
				r.ProductID, consignment.LocationID, r.BaseQty,
				entity.ConsignmentRef(consignment.ID), userID); err != nil {
				return err
			}
		}
		consignment.Status = entity.ConsignmentStatusCancelled
		consignment.UpdatedAt = time.Now()
		return tx.Consignments.UpdateStatus(id, entity.ConsignmentStatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	return toConsignmentResponse(consignment, nil), nil
}

// GetByID devuelve la consignación con sus líneas.
func (uc *ConsignmentUseCase) GetByID(id string) (*dto.ConsignmentResponse, error) {
	consignment, err := uc.consignmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if consignment == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.consignmentRepo.ListLines(id)
	if err != nil {
		return nil, err
	}
	return toConsignmentResponse(consignment, lines), nil
}

// List lista consignaciones, opcionalmente filtradas por estado.
func (uc *ConsignmentUseCase) List(status string, limit, offset int) ([]*dto.ConsignmentResponse, error) {
	consignments, err := uc.consignmentRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ConsignmentResponse, 0, len(consignments))
	for _, c := range consignments {
		out = append(out, toConsignmentResponse(c, nil))
	}
	return out, nil
}

func toConsignmentResponse(c *entity.Consignment, lines []*entity.ConsignmentLine) *dto.ConsignmentResponse {
	resp := &dto.ConsignmentResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		LocationID: c.LocationID,
		Status:     c.Status,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.ConsignmentLineResponse{
			ID:               l.ID,
			PresentationID:   l.PresentationID,
			ProductID:        l.ProductID,
			Qty:              l.SaleQty,
			UnitsPerSaleUnit: l.UnitsPerSaleUnit,
			BaseQty:          l.BaseQty,
			UnitPrice:        l.UnitPrice,
		})
	}
	return resp
}
