// Package carts implementa el carrito de compras y su conversión a pedido.
package carts

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

// CartUseCase carrito activo por cliente: líneas + conversión a pedido.
// La conversión reserva stock de forma transaccional (dos pasadas:
// validar-todo y luego aplicar-todo, con orden determinista de productos).
type CartUseCase struct {
	txRunner     ledger.TxRunner
	ledger       *ledger.Ledger
	cartRepo     repository.CartRepository
	presRepo     repository.PresentationRepository
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(
	txRunner ledger.TxRunner,
	l *ledger.Ledger,
	cartRepo repository.CartRepository,
	presRepo repository.PresentationRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
) *CartUseCase {
	return &CartUseCase{
		txRunner:     txRunner,
		ledger:       l,
		cartRepo:     cartRepo,
		presRepo:     presRepo,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
	}
}

// AddLine agrega una línea al carrito ACTIVE del cliente, creándolo si no
// existe. Congela precio y factor de conversión de la presentación.
func (uc *CartUseCase) AddLine(customerID string, in dto.AddCartLineRequest) (*dto.CartResponse, error) {
	if in.PresentationID == "" || in.Qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	pres, err := uc.presRepo.GetByID(in.PresentationID)
	if err != nil {
		return nil, err
	}
	if pres == nil || !pres.Active {
		return nil, domain.ErrNotFound
	}
	cart, err := uc.cartRepo.GetActiveByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if cart == nil {
		cart = &entity.Cart{
			ID:         uuid.New().String(),
			CustomerID: customerID,
			Status:     entity.CartStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.cartRepo.Create(cart); err != nil {
			return nil, err
		}
	}
	line := &entity.CartLine{
		ID:               uuid.New().String(),
		CartID:           cart.ID,
		PresentationID:   pres.ID,
		ProductID:        pres.ProductID,
		SaleQty:          in.Qty,
		UnitsPerSaleUnit: pres.UnitsPerSaleUnit,
		UnitPrice:        pres.Price,
		CreatedAt:        now,
	}
	if err := uc.cartRepo.AddLine(line); err != nil {
		return nil, err
	}
	return uc.Get(customerID)
}

// UpdateLine cambia la cantidad de una línea del carrito del cliente.
func (uc *CartUseCase) UpdateLine(customerID, lineID string, qty int64) (*dto.CartResponse, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.lineBelongsToCustomer(customerID, lineID); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.UpdateLineQty(lineID, qty); err != nil {
		return nil, err
	}
	return uc.Get(customerID)
}

// RemoveLine elimina una línea del carrito del cliente.
func (uc *CartUseCase) RemoveLine(customerID, lineID string) (*dto.CartResponse, error) {
	if err := uc.lineBelongsToCustomer(customerID, lineID); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.RemoveLine(lineID); err != nil {
		return nil, err
	}
	return uc.Get(customerID)
}

// Get devuelve el carrito ACTIVE del cliente con sus líneas, o ErrNotFound.
func (uc *CartUseCase) Get(customerID string) (*dto.CartResponse, error) {
	cart, err := uc.cartRepo.GetActiveByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.cartRepo.ListLines(cart.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.CartResponse{ID: cart.ID, Status: cart.Status, Subtotal: decimal.Zero}
	for _, l := range lines {
		lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(l.SaleQty))
		out.Lines = append(out.Lines, dto.CartLineResponse{
			ID:               l.ID,
			PresentationID:   l.PresentationID,
			ProductID:        l.ProductID,
			Qty:              l.SaleQty,
			UnitsPerSaleUnit: l.UnitsPerSaleUnit,
			UnitPrice:        l.UnitPrice,
			LineTotal:        lineTotal,
		})
		out.Subtotal = out.Subtotal.Add(lineTotal)
	}
	return out, nil
}

// Confirm convierte el carrito ACTIVE en un pedido PENDING dentro de una sola
// transacción: bloquea el carrito, agrega cantidades base por producto, valida
// stock libre para todos los productos antes de mutar alguno, reserva por
// producto, crea el pedido con snapshots de línea, vacía el carrito y lo marca
// CONVERTED. Cualquier fallo deshace todas las reservas.
func (uc *CartUseCase) Confirm(ctx context.Context, customerID, userID string, in dto.ConfirmCartRequest) (*dto.ConfirmCartResponse, error) {
	if in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	// Defaulting de entrega/factura antes de tocar stock (plomería, no ledger).
	deliveryType, address, invoiceNIT, err := orders.DeliveryDefaults(
		in.DeliveryType, in.Address, in.InvoiceRequired, in.InvoiceNIT, customer)
	if err != nil {
		return nil, err
	}

	shippingFee := decimal.Zero
	if in.ShippingFee != nil {
		shippingFee = *in.ShippingFee
	}
	discount := decimal.Zero
	if in.Discount != nil {
		discount = *in.Discount
	}

	var out dto.ConfirmCartResponse
	err = uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		cart, err := tx.Carts.GetActiveForUpdate(customerID)
		if err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrNotFound
		}
		lines, err := tx.Carts.ListLines(cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		reqs := make([]ledger.Requirement, 0, len(lines))
		for _, l := range lines {
			reqs = append(reqs, ledger.Requirement{ProductID: l.ProductID, BaseQty: l.BaseQty()})
		}
		reqs = ledger.AggregateRequirements(reqs)

		// Pasada 1: validar todos los productos bajo lock antes de mutar alguno.
		if err := uc.ledger.ValidateFree(tx.Balances, in.LocationID, reqs); err != nil {
			return err
		}
		// Pasada 2: reservar por producto, en el mismo orden determinista.
		for _, r := range reqs {
			if err := uc.ledger.Reserve(tx.Balances, r.ProductID, in.LocationID, r.BaseQty); err != nil {
				return err
			}
		}

		now := time.Now()
		order := &entity.Order{
			ID:              uuid.New().String(),
			CustomerID:      customerID,
			LocationID:      in.LocationID,
			Status:          entity.OrderStatusPending,
			DeliveryType:    deliveryType,
			Address:         address,
			InvoiceRequired: in.InvoiceRequired,
			InvoiceNIT:      invoiceNIT,
			ShippingFee:     shippingFee,
			Discount:        discount,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		subtotal := decimal.Zero
		orderLines := make([]*entity.OrderLine, 0, len(lines))
		for _, l := range lines {
			lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(l.SaleQty))
			subtotal = subtotal.Add(lineTotal)
			orderLines = append(orderLines, &entity.OrderLine{
				ID:               uuid.New().String(),
				OrderID:          order.ID,
				PresentationID:   l.PresentationID,
				ProductID:        l.ProductID,
				SaleQty:          l.SaleQty,
				UnitsPerSaleUnit: l.UnitsPerSaleUnit,
				BaseQty:          l.BaseQty(),
				UnitPrice:        l.UnitPrice,
				LineTotal:        lineTotal,
			})
		}
		order.Subtotal = subtotal
		order.GrandTotal = subtotal.Add(shippingFee).Sub(discount)

		if err := tx.Orders.Create(order); err != nil {
			return err
		}
		for _, ol := range orderLines {
			if err := tx.Orders.AddLine(ol); err != nil {
				return err
			}
		}
		if err := tx.Carts.DeleteLines(cart.ID); err != nil {
			return err
		}
		if err := tx.Carts.UpdateStatus(cart.ID, entity.CartStatusConverted); err != nil {
			return err
		}
		out = dto.ConfirmCartResponse{OrderID: order.ID, GrandTotal: order.GrandTotal}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *CartUseCase) lineBelongsToCustomer(customerID, lineID string) error {
	cart, err := uc.cartRepo.GetActiveByCustomer(customerID)
	if err != nil {
		return err
	}
	if cart == nil {
		return domain.ErrNotFound
	}
	line, err := uc.cartRepo.GetLine(lineID)
	if err != nil {
		return err
	}
	if line == nil || line.CartID != cart.ID {
		return domain.ErrNotFound
	}
	return nil
}
