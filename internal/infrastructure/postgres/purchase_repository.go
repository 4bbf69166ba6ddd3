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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, supplier_id, location_id, date, subtotal, total, notes, created_at, created_by`

// Create persiste una compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.LocationID, purchase.Date,
		purchase.Subtotal, purchase.Total, purchase.Notes, purchase.CreatedAt, purchase.CreatedBy)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID, o nil si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// List lista compras ordenadas por fecha descendente.
func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// AddLine inserta una línea de compra.
func (r *PurchaseRepo) AddLine(line *entity.PurchaseLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_lines (id, purchase_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_cost, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseID, line.PresentationID, line.ProductID,
		line.SaleQty, line.UnitsPerSaleUnit, line.BaseQty, line.UnitCost, line.LineTotal)
	if err != nil {
		return fmt.Errorf("add purchase line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una compra.
func (r *PurchaseRepo) ListLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_cost, line_total
		FROM purchase_lines WHERE purchase_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.PresentationID, &l.ProductID,
			&l.SaleQty, &l.UnitsPerSaleUnit, &l.BaseQty, &l.UnitCost, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.SupplierID, &p.LocationID, &p.Date,
		&p.Subtotal, &p.Total, &p.Notes, &p.CreatedAt, &p.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
