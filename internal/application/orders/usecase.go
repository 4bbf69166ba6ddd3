// Package orders implementa la creación directa y cancelación de pedidos.
package orders

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

// OrderUseCase creación directa de pedidos (sin carrito) y cancelación.
// Crear reserva stock con el patrón de dos pasadas; cancelar libera las
// reservas línea por línea. Ambos en una sola transacción.
type OrderUseCase struct {
	txRunner     ledger.TxRunner
	ledger       *ledger.Ledger
	orderRepo    repository.OrderRepository
	presRepo     repository.PresentationRepository
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner ledger.TxRunner,
	l *ledger.Ledger,
	orderRepo repository.OrderRepository,
	presRepo repository.PresentationRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		ledger:       l,
		orderRepo:    orderRepo,
		presRepo:     presRepo,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
	}
}

// ResolvedLine línea validada con la presentación resuelta y el precio final.
type ResolvedLine struct {
	Presentation *entity.Presentation
	SaleQty      int64
	UnitPrice    decimal.Decimal
}

// ResolveLines valida que cada presentación exista y esté activa, y resuelve
// el precio final de cada línea (el enviado o, por defecto, el de la
// presentación). Se ejecuta antes de abrir la transacción de stock.
func ResolveLines(presRepo repository.PresentationRepository, lines []dto.OrderLineRequest) ([]ResolvedLine, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]ResolvedLine, 0, len(lines))
	for _, in := range lines {
		if in.PresentationID == "" || in.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		pres, err := presRepo.GetByID(in.PresentationID)
		if err != nil {
			return nil, err
		}
		if pres == nil || !pres.Active {
			return nil, domain.ErrNotFound
		}
		price := pres.Price
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		out = append(out, ResolvedLine{Presentation: pres, SaleQty: in.Qty, UnitPrice: price})
	}
	return out, nil
}

// DeliveryDefaults resuelve tipo de entrega, dirección y NIT de factura con
// los defaults del perfil del cliente. Dirección obligatoria en entrega a
// domicilio; NIT obligatorio si se requiere factura.
func DeliveryDefaults(deliveryType, address string, invoiceRequired bool, invoiceNIT string, customer *entity.Customer) (string, string, string, error) {
	if deliveryType == "" {
		deliveryType = entity.DeliveryTypePickup
	}
	if deliveryType != entity.DeliveryTypePickup && deliveryType != entity.DeliveryTypeDelivery {
		return "", "", "", domain.ErrInvalidInput
	}
	if deliveryType == entity.DeliveryTypeDelivery && address == "" {
		address = customer.Address
		if address == "" {
			return "", "", "", domain.ErrInvalidInput
		}
	}
	if invoiceRequired && invoiceNIT == "" {
		invoiceNIT = customer.InvoiceNIT
		if invoiceNIT == "" {
			return "", "", "", domain.ErrInvalidInput
		}
	}
	return deliveryType, address, invoiceNIT, nil
}

// Create crea un pedido PENDING reservando stock: valida referencia y entrega
// fuera de la transacción, luego dentro de una sola tx valida stock libre para
// todos los productos (orden determinista) y reserva por producto antes de
// insertar el pedido y sus snapshots de línea.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerID == "" || in.LocationID == "" {
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
	deliveryType, address, invoiceNIT, err := DeliveryDefaults(
		in.DeliveryType, in.Address, in.InvoiceRequired, in.InvoiceNIT, customer)
	if err != nil {
		return nil, err
	}
	resolved, err := ResolveLines(uc.presRepo, in.Lines)
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

	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		CustomerID:      in.CustomerID,
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
	orderLines := make([]*entity.OrderLine, 0, len(resolved))
	reqs := make([]ledger.Requirement, 0, len(resolved))
	for _, rl := range resolved {
		baseQty := rl.SaleQty * rl.Presentation.UnitsPerSaleUnit
		lineTotal := rl.UnitPrice.Mul(decimal.NewFromInt(rl.SaleQty))
		subtotal = subtotal.Add(lineTotal)
		reqs = append(reqs, ledger.Requirement{ProductID: rl.Presentation.ProductID, BaseQty: baseQty})
		orderLines = append(orderLines, &entity.OrderLine{
			ID:               uuid.New().String(),
			OrderID:          order.ID,
			PresentationID:   rl.Presentation.ID,
			ProductID:        rl.Presentation.ProductID,
			SaleQty:          rl.SaleQty,
			UnitsPerSaleUnit: rl.Presentation.UnitsPerSaleUnit,
			BaseQty:          baseQty,
			UnitPrice:        rl.UnitPrice,
			LineTotal:        lineTotal,
		})
	}
	order.Subtotal = subtotal
	order.GrandTotal = subtotal.Add(shippingFee).Sub(discount)
	reqs = ledger.AggregateRequirements(reqs)

	err = uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		if err := uc.ledger.ValidateFree(tx.Balances, in.LocationID, reqs); err != nil {
			return err
		}
		for _, r := range reqs {
			if err := uc.ledger.Reserve(tx.Balances, r.ProductID, in.LocationID, r.BaseQty); err != nil {
				return err
			}
		}
		if err := tx.Orders.Create(order); err != nil {
			return err
		}
		for _, ol := range orderLines {
			if err := tx.Orders.AddLine(ol); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, orderLines), nil
}

// Cancel cancela un pedido PENDING: bloquea la fila del pedido, libera la
// reserva de cada línea (orden determinista por producto) y marca CANCELLED.
// Cancelar un pedido ya cancelado o completado devuelve ErrInvalidTransition.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		order *entity.Order
		lines []*entity.OrderLine
	)
	err := uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		var err error
		order, err = tx.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusPending {
			return domain.NewInvalidTransition("order", order.ID, order.Status, entity.OrderStatusPending)
		}
		lines, err = tx.Orders.ListLines(order.ID)
		if err != nil {
			return err
		}
		reqs := make([]ledger.Requirement, 0, len(lines))
		for _, l := range lines {
			reqs = append(reqs, ledger.Requirement{ProductID: l.ProductID, BaseQty: l.BaseQty})
		}
		for _, r := range ledger.AggregateRequirements(reqs) {
			if err := uc.ledger.Release(tx.Balances, r.ProductID, order.LocationID, r.BaseQty); err != nil {
				return err
			}
		}
		if err := tx.Orders.UpdateStatus(order.ID, entity.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = entity.OrderStatusCancelled
		order.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// GetByID devuelve el pedido con sus líneas.
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.ListLines(id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// List lista pedidos, opcionalmente por estado.
func (uc *OrderUseCase) List(status string, limit, offset int) ([]*dto.OrderResponse, error) {
	orders, err := uc.orderRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, nil
}

func toOrderResponse(o *entity.Order, lines []*entity.OrderLine) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		LocationID:      o.LocationID,
		Status:          o.Status,
		DeliveryType:    o.DeliveryType,
		Address:         o.Address,
		InvoiceRequired: o.InvoiceRequired,
		InvoiceNIT:      o.InvoiceNIT,
		ShippingFee:     o.ShippingFee,
		Discount:        o.Discount,
		Subtotal:        o.Subtotal,
		GrandTotal:      o.GrandTotal,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
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
