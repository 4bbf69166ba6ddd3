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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer_id, location_id, status, delivery_type, address,
	invoice_required, invoice_nit, shipping_fee, discount, subtotal, grand_total,
	notes, created_at, updated_at`

// Create persiste un pedido nuevo.
func (r *OrderRepo) Create(order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.LocationID, order.Status,
		order.DeliveryType, order.Address, order.InvoiceRequired, order.InvoiceNIT,
		order.ShippingFee, order.Discount, order.Subtotal, order.GrandTotal,
		order.Notes, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID, o nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila del pedido antes de cancelarlo o venderlo.
// Serializa una cancelación y una venta concurrentes sobre el mismo pedido.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// List lista pedidos, opcionalmente filtrados por estado.
func (r *OrderRepo) List(status string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = []any{status, limit, offset}
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = []any{limit, offset}
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// AddLine inserta una línea de pedido. Las líneas son inmutables.
func (r *OrderRepo) AddLine(line *entity.OrderLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_lines (id, order_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderID, line.PresentationID, line.ProductID,
		line.SaleQty, line.UnitsPerSaleUnit, line.BaseQty, line.UnitPrice, line.LineTotal)
	if err != nil {
		return fmt.Errorf("add order line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de un pedido.
func (r *OrderRepo) ListLines(orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_price, line_total
		FROM order_lines WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.PresentationID, &l.ProductID,
			&l.SaleQty, &l.UnitsPerSaleUnit, &l.BaseQty, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.LocationID, &o.Status,
		&o.DeliveryType, &o.Address, &o.InvoiceRequired, &o.InvoiceNIT,
		&o.ShippingFee, &o.Discount, &o.Subtotal, &o.GrandTotal,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}
