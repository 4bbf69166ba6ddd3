package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, order_id, customer_id, location_id, status, payment_terms,
	subtotal, grand_total, created_at, created_by`

// Create persiste una venta. La columna order_id lleva UNIQUE parcial
// (WHERE order_id IS NOT NULL): dos ventas del mismo pedido chocan aquí.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.OrderID, sale.CustomerID, sale.LocationID,
		sale.Status, sale.PaymentTerms, sale.Subtotal, sale.GrandTotal,
		sale.CreatedAt, sale.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create sale: %w", domain.ErrConflict)
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSale(r.q.QueryRow(context.Background(), query, id))
}

// GetByOrderID devuelve la venta creada desde un pedido, o nil.
func (r *SaleRepo) GetByOrderID(orderID string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE order_id = $1`
	return scanSale(r.q.QueryRow(context.Background(), query, orderID))
}

// List lista ventas ordenadas por fecha descendente.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// AddLine inserta una línea de venta. Inmutable una vez registrada.
func (r *SaleRepo) AddLine(line *entity.SaleLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_lines (id, sale_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.PresentationID, line.ProductID,
		line.SaleQty, line.UnitsPerSaleUnit, line.BaseQty, line.UnitPrice, line.LineTotal)
	if err != nil {
		return fmt.Errorf("add sale line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una venta.
func (r *SaleRepo) ListLines(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_price, line_total
		FROM sale_lines WHERE sale_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.PresentationID, &l.ProductID,
			&l.SaleQty, &l.UnitsPerSaleUnit, &l.BaseQty, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.OrderID, &s.CustomerID, &s.LocationID,
		&s.Status, &s.PaymentTerms, &s.Subtotal, &s.GrandTotal,
		&s.CreatedAt, &s.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}
