// Package testutil provee repositorios en memoria y un TxRunner con
// snapshot/rollback para probar los casos de uso sin base de datos.
package testutil

import (
	"context"
	"sync"

	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
)

// Store estado compartido de los repositorios en memoria. No es seguro para
// acceso concurrente directo: las pruebas concurrentes deben entrar por
// TxRunner, que serializa las transacciones.
type Store struct {
	Balances         map[string]*entity.Balance // clave productID|locationID
	Movements        []*entity.Movement
	Carts            map[string]*entity.Cart
	CartLines        map[string]*entity.CartLine
	Orders           map[string]*entity.Order
	OrderLines       map[string]*entity.OrderLine
	Sales            map[string]*entity.Sale
	SaleLines        map[string]*entity.SaleLine
	Purchases        map[string]*entity.Purchase
	PurchaseLines    map[string]*entity.PurchaseLine
	Consignments     map[string]*entity.Consignment
	ConsignmentLines map[string]*entity.ConsignmentLine
	Products         map[string]*entity.Product
	Presentations    map[string]*entity.Presentation
	Locations        map[string]*entity.Location
	Customers        map[string]*entity.Customer
	Suppliers        map[string]*entity.Supplier
	Users            map[string]*entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		Balances:         make(map[string]*entity.Balance),
		Carts:            make(map[string]*entity.Cart),
		CartLines:        make(map[string]*entity.CartLine),
		Orders:           make(map[string]*entity.Order),
		OrderLines:       make(map[string]*entity.OrderLine),
		Sales:            make(map[string]*entity.Sale),
		SaleLines:        make(map[string]*entity.SaleLine),
		Purchases:        make(map[string]*entity.Purchase),
		PurchaseLines:    make(map[string]*entity.PurchaseLine),
		Consignments:     make(map[string]*entity.Consignment),
		ConsignmentLines: make(map[string]*entity.ConsignmentLine),
		Products:         make(map[string]*entity.Product),
		Presentations:    make(map[string]*entity.Presentation),
		Locations:        make(map[string]*entity.Location),
		Customers:        make(map[string]*entity.Customer),
		Suppliers:        make(map[string]*entity.Supplier),
		Users:            make(map[string]*entity.User),
	}
}

func balanceKey(productID, locationID string) string {
	return productID + "|" + locationID
}

// SeedBalance fija el saldo de un (producto, ubicación).
func (s *Store) SeedBalance(productID, locationID string, available, reserved int64) {
	s.Balances[balanceKey(productID, locationID)] = &entity.Balance{
		ProductID:  productID,
		LocationID: locationID,
		Available:  available,
		Reserved:   reserved,
	}
}

// Balance devuelve el saldo actual, o un saldo en cero si nunca se tocó.
func (s *Store) Balance(productID, locationID string) *entity.Balance {
	if b, ok := s.Balances[balanceKey(productID, locationID)]; ok {
		return b
	}
	return &entity.Balance{ProductID: productID, LocationID: locationID}
}

// MovementsFor filtra los movimientos de un (producto, ubicación).
func (s *Store) MovementsFor(productID, locationID string) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range s.Movements {
		if m.ProductID == productID && m.LocationID == locationID {
			out = append(out, m)
		}
	}
	return out
}

// Repos construye el conjunto de repositorios sobre este store.
func (s *Store) Repos() ledger.TxRepos {
	return ledger.TxRepos{
		Balances:      &BalanceRepo{s},
		Movements:     &MovementRepo{s},
		Carts:         &CartRepo{s},
		Orders:        &OrderRepo{s},
		Sales:         &SaleRepo{s},
		Purchases:     &PurchaseRepo{s},
		Consignments:  &ConsignmentRepo{s},
		Products:      &ProductRepo{s},
		Presentations: &PresentationRepo{s},
	}
}

// LocationRepo, CustomerRepo, SupplierRepo, UserRepo repos fuera del conjunto transaccional.
func (s *Store) LocationRepo() *LocationRepo { return &LocationRepo{s} }
func (s *Store) CustomerRepo() *CustomerRepo { return &CustomerRepo{s} }
func (s *Store) SupplierRepo() *SupplierRepo { return &SupplierRepo{s} }
func (s *Store) UserRepo() *UserRepo         { return &UserRepo{s} }

// clone copia el estado completo. Las entidades se copian por valor: decimal y
// strings son inmutables, así que la copia superficial de cada struct basta.
func (s *Store) clone() *Store {
	c := NewStore()
	for k, v := range s.Balances {
		cp := *v
		c.Balances[k] = &cp
	}
	c.Movements = make([]*entity.Movement, len(s.Movements))
	for i, m := range s.Movements {
		cp := *m
		c.Movements[i] = &cp
	}
	for k, v := range s.Carts {
		cp := *v
		c.Carts[k] = &cp
	}
	for k, v := range s.CartLines {
		cp := *v
		c.CartLines[k] = &cp
	}
	for k, v := range s.Orders {
		cp := *v
		c.Orders[k] = &cp
	}
	for k, v := range s.OrderLines {
		cp := *v
		c.OrderLines[k] = &cp
	}
	for k, v := range s.Sales {
		cp := *v
		c.Sales[k] = &cp
	}
	for k, v := range s.SaleLines {
		cp := *v
		c.SaleLines[k] = &cp
	}
	for k, v := range s.Purchases {
		cp := *v
		c.Purchases[k] = &cp
	}
	for k, v := range s.PurchaseLines {
		cp := *v
		c.PurchaseLines[k] = &cp
	}
	for k, v := range s.Consignments {
		cp := *v
		c.Consignments[k] = &cp
	}
	for k, v := range s.ConsignmentLines {
		cp := *v
		c.ConsignmentLines[k] = &cp
	}
	for k, v := range s.Products {
		cp := *v
		c.Products[k] = &cp
	}
	for k, v := range s.Presentations {
		cp := *v
		c.Presentations[k] = &cp
	}
	for k, v := range s.Locations {
		cp := *v
		c.Locations[k] = &cp
	}
	for k, v := range s.Customers {
		cp := *v
		c.Customers[k] = &cp
	}
	for k, v := range s.Suppliers {
		cp := *v
		c.Suppliers[k] = &cp
	}
	for k, v := range s.Users {
		cp := *v
		c.Users[k] = &cp
	}
	return c
}

func (s *Store) restore(from *Store) {
	*s = *from
}

// TxRunner simula la transacción de BD: toma un snapshot del store antes de
// ejecutar fn y lo restaura completo si fn falla. Reproduce la garantía de
// atomicidad del runner real de pgx. Un mutex serializa las transacciones
// entre sí, el papel que en el runner real cumple el lock de fila
// (SELECT ... FOR UPDATE), a granularidad de store completo.
type TxRunner struct {
	mu    sync.Mutex
	Store *Store
}

// NewTxRunner construye el runner sobre el store dado.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{Store: store}
}

var _ ledger.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn con repositorios sobre el store; rollback total si fn falla.
func (r *TxRunner) Run(ctx context.Context, fn func(tx ledger.TxRepos) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.Store.clone()
	if err := fn(r.Store.Repos()); err != nil {
		r.Store.restore(snapshot)
		return err
	}
	return nil
}
