package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Todos los
// sitios de llamada del motor de stock pasan por aquí: un error de fn hace
// Rollback completo, así un fallo en la línea N deshace las líneas 1..N-1.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx ledger.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ledger.TxRepos{
		Balances:      NewBalanceRepository(tx),
		Movements:     NewMovementRepository(tx),
		Carts:         NewCartRepository(tx),
		Orders:        NewOrderRepository(tx),
		Sales:         NewSaleRepository(tx),
		Purchases:     NewPurchaseRepository(tx),
		Consignments:  NewConsignmentRepository(tx),
		Products:      NewProductRepository(tx),
		Presentations: NewPresentationRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
