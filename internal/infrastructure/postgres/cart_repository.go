package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación de CartRepository sobre PostgreSQL (usable con pool o tx).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador de carritos. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// Create persiste un carrito nuevo.
func (r *CartRepo) Create(cart *entity.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	query := `
		INSERT INTO carts (id, customer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		cart.ID, cart.CustomerID, cart.Status, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create cart: %w", err)
	}
	return nil
}

// GetByID obtiene un carrito por ID, o nil si no existe.
func (r *CartRepo) GetByID(id string) (*entity.Cart, error) {
	query := `
		SELECT id, customer_id, status, created_at, updated_at
		FROM carts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetActiveByCustomer devuelve el carrito ACTIVE del cliente, o nil si no tiene.
func (r *CartRepo) GetActiveByCustomer(customerID string) (*entity.Cart, error) {
	query := `
		SELECT id, customer_id, status, created_at, updated_at
		FROM carts WHERE customer_id = $1 AND status = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, customerID, entity.CartStatusActive))
}

// GetActiveForUpdate bloquea la fila del carrito ACTIVE del cliente. Serializa
// confirmaciones concurrentes del mismo carrito.
func (r *CartRepo) GetActiveForUpdate(customerID string) (*entity.Cart, error) {
	query := `
		SELECT id, customer_id, status, created_at, updated_at
		FROM carts WHERE customer_id = $1 AND status = $2
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, customerID, entity.CartStatusActive))
}

// UpdateStatus cambia el estado del carrito.
func (r *CartRepo) UpdateStatus(id, status string) error {
	query := `UPDATE carts SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update cart status: %w", err)
	}
	return nil
}

// AddLine agrega una línea al carrito con precio y conversión congelados.
func (r *CartRepo) AddLine(line *entity.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cart_lines (id, cart_id, presentation_id, product_id, sale_qty, units_per_sale_unit, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.CartID, line.PresentationID, line.ProductID,
		line.SaleQty, line.UnitsPerSaleUnit, line.UnitPrice, line.CreatedAt)
	if err != nil {
		return fmt.Errorf("add cart line: %w", err)
	}
	return nil
}

// UpdateLineQty cambia la cantidad de una línea existente.
func (r *CartRepo) UpdateLineQty(lineID string, saleQty int64) error {
	query := `UPDATE cart_lines SET sale_qty = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lineID, saleQty)
	if err != nil {
		return fmt.Errorf("update cart line qty: %w", err)
	}
	return nil
}

// RemoveLine borra una línea del carrito.
func (r *CartRepo) RemoveLine(lineID string) error {
	query := `DELETE FROM cart_lines WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lineID)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea por ID, o nil si no existe.
func (r *CartRepo) GetLine(lineID string) (*entity.CartLine, error) {
	query := `
		SELECT id, cart_id, presentation_id, product_id, sale_qty, units_per_sale_unit, unit_price, created_at
		FROM cart_lines WHERE id = $1`
	var l entity.CartLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.CartID, &l.PresentationID, &l.ProductID,
		&l.SaleQty, &l.UnitsPerSaleUnit, &l.UnitPrice, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return &l, nil
}

// ListLines lista las líneas del carrito en orden de inserción.
func (r *CartRepo) ListLines(cartID string) ([]*entity.CartLine, error) {
	query := `
		SELECT id, cart_id, presentation_id, product_id, sale_qty, units_per_sale_unit, unit_price, created_at
		FROM cart_lines WHERE cart_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartLine
	for rows.Next() {
		var l entity.CartLine
		if err := rows.Scan(&l.ID, &l.CartID, &l.PresentationID, &l.ProductID,
			&l.SaleQty, &l.UnitsPerSaleUnit, &l.UnitPrice, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// DeleteLines vacía el carrito tras convertirlo en pedido.
func (r *CartRepo) DeleteLines(cartID string) error {
	query := `DELETE FROM cart_lines WHERE cart_id = $1`
	_, err := r.q.Exec(context.Background(), query, cartID)
	if err != nil {
		return fmt.Errorf("delete cart lines: %w", err)
	}
	return nil
}

func (r *CartRepo) scanOne(row pgx.Row) (*entity.Cart, error) {
	var c entity.Cart
	err := row.Scan(&c.ID, &c.CustomerID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}
