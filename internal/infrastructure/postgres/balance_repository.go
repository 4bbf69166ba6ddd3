package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo de un producto en una ubicación, o nil si no hay fila.
func (r *BalanceRepo) Get(productID, locationID string) (*entity.Balance, error) {
	query := `
		SELECT product_id, location_id, available, reserved, updated_at
		FROM stock_balances WHERE product_id = $1 AND location_id = $2`
	var b entity.Balance
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&b.ProductID, &b.LocationID, &b.Available, &b.Reserved, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
// El insert con ON CONFLICT DO NOTHING garantiza que la fila exista antes del
// lock, así dos transacciones concurrentes sobre el mismo par se serializan
// aunque el producto nunca haya tenido movimiento.
func (r *BalanceRepo) GetForUpdate(productID, locationID string) (*entity.Balance, error) {
	insert := `
		INSERT INTO stock_balances (product_id, location_id, available, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, productID, locationID); err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}

	query := `
		SELECT product_id, location_id, available, reserved, updated_at
		FROM stock_balances WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var b entity.Balance
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&b.ProductID, &b.LocationID, &b.Available, &b.Reserved, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// Update persiste el saldo mutado por las primitivas del ledger.
func (r *BalanceRepo) Update(balance *entity.Balance) error {
	query := `
		UPDATE stock_balances
		SET available = $3, reserved = $4, updated_at = $5
		WHERE product_id = $1 AND location_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		balance.ProductID, balance.LocationID, balance.Available, balance.Reserved, balance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

// List lista los saldos de una ubicación ordenados por producto.
func (r *BalanceRepo) List(locationID string, limit, offset int) ([]*entity.Balance, error) {
	query := `
		SELECT product_id, location_id, available, reserved, updated_at
		FROM stock_balances WHERE location_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ProductID, &b.LocationID, &b.Available, &b.Reserved, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
