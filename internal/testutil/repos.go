package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// Verificación en compile-time de que los repos en memoria cumplen los puertos.
var (
	_ repository.BalanceRepository      = (*BalanceRepo)(nil)
	_ repository.MovementRepository     = (*MovementRepo)(nil)
	_ repository.CartRepository         = (*CartRepo)(nil)
	_ repository.OrderRepository        = (*OrderRepo)(nil)
	_ repository.SaleRepository         = (*SaleRepo)(nil)
	_ repository.PurchaseRepository     = (*PurchaseRepo)(nil)
	_ repository.ConsignmentRepository  = (*ConsignmentRepo)(nil)
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.PresentationRepository = (*PresentationRepo)(nil)
	_ repository.LocationRepository     = (*LocationRepo)(nil)
	_ repository.CustomerRepository     = (*CustomerRepo)(nil)
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
	_ repository.UserRepository         = (*UserRepo)(nil)
)

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// BalanceRepo saldos en memoria.
type BalanceRepo struct{ s *Store }

func (r *BalanceRepo) Get(productID, locationID string) (*entity.Balance, error) {
	b, ok := r.s.Balances[balanceKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

// GetForUpdate crea la fila en cero si no existe, como el repo real con
// INSERT ... ON CONFLICT DO NOTHING. No hay lock: las pruebas son secuenciales.
func (r *BalanceRepo) GetForUpdate(productID, locationID string) (*entity.Balance, error) {
	key := balanceKey(productID, locationID)
	b, ok := r.s.Balances[key]
	if !ok {
		b = &entity.Balance{ProductID: productID, LocationID: locationID, UpdatedAt: time.Now()}
		r.s.Balances[key] = b
	}
	cp := *b
	return &cp, nil
}

func (r *BalanceRepo) Update(balance *entity.Balance) error {
	cp := *balance
	r.s.Balances[balanceKey(balance.ProductID, balance.LocationID)] = &cp
	return nil
}

func (r *BalanceRepo) List(locationID string, limit, offset int) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.s.Balances {
		if b.LocationID == locationID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return paginate(out, limit, offset), nil
}

// MovementRepo movimientos en memoria, append-only.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(movement *entity.Movement) error {
	cp := *movement
	r.s.Movements = append(r.s.Movements, &cp)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) List(productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.Movements {
		if productID != "" && m.ProductID != productID {
			continue
		}
		if locationID != "" && m.LocationID != locationID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

func (r *MovementRepo) SumQuantities(productID, locationID string) (int64, error) {
	var sum int64
	for _, m := range r.s.Movements {
		if m.ProductID == productID && m.LocationID == locationID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *MovementRepo) SumFromOrderSales(productID, locationID string) (int64, error) {
	var sum int64
	for _, m := range r.s.Movements {
		if m.ProductID != productID || m.LocationID != locationID {
			continue
		}
		if m.Type != entity.MovementTypeSALE || m.Ref.Type != entity.RefSale {
			continue
		}
		if sale, ok := r.s.Sales[m.Ref.ID]; ok && sale.OrderID != nil {
			sum += m.Quantity
		}
	}
	return sum, nil
}

// CartRepo carritos en memoria.
type CartRepo struct{ s *Store }

func (r *CartRepo) Create(cart *entity.Cart) error {
	cp := *cart
	r.s.Carts[cart.ID] = &cp
	return nil
}

func (r *CartRepo) GetByID(id string) (*entity.Cart, error) {
	c, ok := r.s.Carts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CartRepo) GetActiveByCustomer(customerID string) (*entity.Cart, error) {
	for _, c := range r.s.Carts {
		if c.CustomerID == customerID && c.Status == entity.CartStatusActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CartRepo) GetActiveForUpdate(customerID string) (*entity.Cart, error) {
	return r.GetActiveByCustomer(customerID)
}

func (r *CartRepo) UpdateStatus(id, status string) error {
	if c, ok := r.s.Carts[id]; ok {
		c.Status = status
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (r *CartRepo) AddLine(line *entity.CartLine) error {
	cp := *line
	r.s.CartLines[line.ID] = &cp
	return nil
}

func (r *CartRepo) UpdateLineQty(lineID string, saleQty int64) error {
	if l, ok := r.s.CartLines[lineID]; ok {
		l.SaleQty = saleQty
	}
	return nil
}

func (r *CartRepo) RemoveLine(lineID string) error {
	delete(r.s.CartLines, lineID)
	return nil
}

func (r *CartRepo) GetLine(lineID string) (*entity.CartLine, error) {
	l, ok := r.s.CartLines[lineID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *CartRepo) ListLines(cartID string) ([]*entity.CartLine, error) {
	var out []*entity.CartLine
	for _, l := range r.s.CartLines {
		if l.CartID == cartID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CartRepo) DeleteLines(cartID string) error {
	for id, l := range r.s.CartLines {
		if l.CartID == cartID {
			delete(r.s.CartLines, id)
		}
	}
	return nil
}

// OrderRepo pedidos en memoria.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(order *entity.Order) error {
	cp := *order
	r.s.Orders[order.ID] = &cp
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.Orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.s.Orders[id]; ok {
		o.Status = status
		o.UpdatedAt = time.Now()
	}
	return nil
}

func (r *OrderRepo) List(status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.Orders {
		if status != "" && o.Status != status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *OrderRepo) AddLine(line *entity.OrderLine) error {
	cp := *line
	r.s.OrderLines[line.ID] = &cp
	return nil
}

func (r *OrderRepo) ListLines(orderID string) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	for _, l := range r.s.OrderLines {
		if l.OrderID == orderID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaleRepo ventas en memoria.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.s.Sales[sale.ID] = &cp
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	v, ok := r.s.Sales[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *SaleRepo) GetByOrderID(orderID string) (*entity.Sale, error) {
	for _, v := range r.s.Sales {
		if v.OrderID != nil && *v.OrderID == orderID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, v := range r.s.Sales {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *SaleRepo) AddLine(line *entity.SaleLine) error {
	cp := *line
	r.s.SaleLines[line.ID] = &cp
	return nil
}

func (r *SaleRepo) ListLines(saleID string) ([]*entity.SaleLine, error) {
	var out []*entity.SaleLine
	for _, l := range r.s.SaleLines {
		if l.SaleID == saleID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ s *Store }

func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	cp := *purchase
	r.s.Purchases[purchase.ID] = &cp
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.s.Purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.s.Purchases {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *PurchaseRepo) AddLine(line *entity.PurchaseLine) error {
	cp := *line
	r.s.PurchaseLines[line.ID] = &cp
	return nil
}

func (r *PurchaseRepo) ListLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	var out []*entity.PurchaseLine
	for _, l := range r.s.PurchaseLines {
		if l.PurchaseID == purchaseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ConsignmentRepo consignaciones en memoria.
type ConsignmentRepo struct{ s *Store }

func (r *ConsignmentRepo) Create(consignment *entity.Consignment) error {
	cp := *consignment
	r.s.Consignments[consignment.ID] = &cp
	return nil
}

func (r *ConsignmentRepo) GetByID(id string) (*entity.Consignment, error) {
	c, ok := r.s.Consignments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ConsignmentRepo) GetForUpdate(id string) (*entity.Consignment, error) {
	return r.GetByID(id)
}

func (r *ConsignmentRepo) UpdateStatus(id, status string) error {
	if c, ok := r.s.Consignments[id]; ok {
		c.Status = status
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (r *ConsignmentRepo) List(status string, limit, offset int) ([]*entity.Consignment, error) {
	var out []*entity.Consignment
	for _, c := range r.s.Consignments {
		if status != "" && c.Status != status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *ConsignmentRepo) AddLine(line *entity.ConsignmentLine) error {
	cp := *line
	r.s.ConsignmentLines[line.ID] = &cp
	return nil
}

func (r *ConsignmentRepo) ListLines(consignmentID string) ([]*entity.ConsignmentLine, error) {
	var out []*entity.ConsignmentLine
	for _, l := range r.s.ConsignmentLines {
		if l.ConsignmentID == consignmentID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(product *entity.Product) error {
	cp := *product
	r.s.Products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.Products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.Products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	cp := *product
	r.s.Products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.Products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *ProductRepo) Search(nameNorm string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.Products {
		if strings.Contains(p.NameNorm, nameNorm) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// PresentationRepo presentaciones en memoria.
type PresentationRepo struct{ s *Store }

func (r *PresentationRepo) Create(presentation *entity.Presentation) error {
	cp := *presentation
	r.s.Presentations[presentation.ID] = &cp
	return nil
}

func (r *PresentationRepo) GetByID(id string) (*entity.Presentation, error) {
	p, ok := r.s.Presentations[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PresentationRepo) Update(presentation *entity.Presentation) error {
	cp := *presentation
	r.s.Presentations[presentation.ID] = &cp
	return nil
}

func (r *PresentationRepo) ListByProduct(productID string) ([]*entity.Presentation, error) {
	var out []*entity.Presentation
	for _, p := range r.s.Presentations {
		if p.ProductID == productID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ s *Store }

func (r *LocationRepo) Create(location *entity.Location) error {
	cp := *location
	r.s.Locations[location.ID] = &cp
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.s.Locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *LocationRepo) Update(location *entity.Location) error {
	cp := *location
	r.s.Locations[location.ID] = &cp
	return nil
}

func (r *LocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.Locations {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) Create(customer *entity.Customer) error {
	cp := *customer
	r.s.Customers[customer.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.s.Customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) Update(customer *entity.Customer) error {
	cp := *customer
	r.s.Customers[customer.ID] = &cp
	return nil
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.s.Customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	cp := *supplier
	r.s.Suppliers[supplier.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	su, ok := r.s.Suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *su
	return &cp, nil
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	cp := *supplier
	r.s.Suppliers[supplier.ID] = &cp
	return nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, su := range r.s.Suppliers {
		cp := *su
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(user *entity.User) error {
	cp := *user
	r.s.Users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(user *entity.User) error {
	cp := *user
	r.s.Users[user.ID] = &cp
	return nil
}

func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.Users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}
