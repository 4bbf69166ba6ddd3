// Package purchases implementa la recepción de compras a proveedores.
package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// PurchaseUseCase recepción de compras: suma stock disponible por línea (sin
// precondición, solo entra mercancía) y recalcula subtotal/total en servidor
// a partir de los costos de línea.
type PurchaseUseCase struct {
	txRunner     ledger.TxRunner
	ledger       *ledger.Ledger
	purchaseRepo repository.PurchaseRepository
	presRepo     repository.PresentationRepository
	locationRepo repository.LocationRepository
	supplierRepo repository.SupplierRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner ledger.TxRunner,
	l *ledger.Ledger,
	purchaseRepo repository.PurchaseRepository,
	presRepo repository.PresentationRepository,
	locationRepo repository.LocationRepository,
	supplierRepo repository.SupplierRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		ledger:       l,
		purchaseRepo: purchaseRepo,
		presRepo:     presRepo,
		locationRepo: locationRepo,
		supplierRepo: supplierRepo,
	}
}

// Create registra la compra y recibe el stock de cada línea en una sola
// transacción. Los movimientos PURCHASE referencian la compra creada.
func (uc *PurchaseUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || in.LocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		LocationID: in.LocationID,
		Date:       date,
		Notes:      in.Notes,
		CreatedAt:  now,
		CreatedBy:  userID,
	}

	subtotal := decimal.Zero
	purchaseLines := make([]*entity.PurchaseLine, 0, len(in.Lines))
	reqs := make([]ledger.Requirement, 0, len(in.Lines))
	for _, lin := range in.Lines {
		if lin.PresentationID == "" || lin.Qty <= 0 || lin.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		pres, err := uc.presRepo.GetByID(lin.PresentationID)
		if err != nil {
			return nil, err
		}
		if pres == nil {
			return nil, domain.ErrNotFound
		}
		baseQty := lin.Qty * pres.UnitsPerSaleUnit
		lineTotal := lin.UnitCost.Mul(decimal.NewFromInt(lin.Qty))
		subtotal = subtotal.Add(lineTotal)
		reqs = append(reqs, ledger.Requirement{ProductID: pres.ProductID, BaseQty: baseQty})
		purchaseLines = append(purchaseLines, &entity.PurchaseLine{
			ID:               uuid.New().String(),
			PurchaseID:       purchase.ID,
			PresentationID:   pres.ID,
			ProductID:        pres.ProductID,
			SaleQty:          lin.Qty,
			UnitsPerSaleUnit: pres.UnitsPerSaleUnit,
			BaseQty:          baseQty,
			UnitCost:         lin.UnitCost,
			LineTotal:        lineTotal,
		})
	}
	purchase.Subtotal = subtotal
	purchase.Total = subtotal

	err = uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		if err := tx.Purchases.Create(purchase); err != nil {
			return err
		}
		for _, pl := range purchaseLines {
			if err := tx.Purchases.AddLine(pl); err != nil {
				return err
			}
		}
		for _, r := range ledger.AggregateRequirements(reqs) {
			if err := uc.ledger.Receive(tx.Balances, tx.Movements,
				r.ProductID, in.LocationID, r.BaseQty,
				entity.PurchaseRef(purchase.ID), userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, purchaseLines), nil
}

// GetByID devuelve la compra con sus líneas.
func (uc *PurchaseUseCase) GetByID(id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.purchaseRepo.ListLines(id)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, lines), nil
}

// List lista compras con paginación.
func (uc *PurchaseUseCase) List(limit, offset int) ([]*dto.PurchaseResponse, error) {
	purchases, err := uc.purchaseRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, toPurchaseResponse(p, nil))
	}
	return out, nil
}

func toPurchaseResponse(p *entity.Purchase, lines []*entity.PurchaseLine) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		LocationID: p.LocationID,
		Date:       p.Date,
		Subtotal:   p.Subtotal,
		Total:      p.Total,
		CreatedAt:  p.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ID:               l.ID,
			PresentationID:   l.PresentationID,
			ProductID:        l.ProductID,
			Qty:              l.SaleQty,
			UnitsPerSaleUnit: l.UnitsPerSaleUnit,
			BaseQty:          l.BaseQty,
			UnitCost:         l.UnitCost,
			LineTotal:        l.LineTotal,
		})
	}
	return resp
}
