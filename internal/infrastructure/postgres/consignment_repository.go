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

var _ repository.ConsignmentRepository = (*ConsignmentRepo)(nil)

// ConsignmentRepo implementación de ConsignmentRepository sobre PostgreSQL (usable con pool o tx).
type ConsignmentRepo struct {
	q Querier
}

// NewConsignmentRepository construye el adaptador de consignaciones. Pasar pool o tx (Querier).
func NewConsignmentRepository(q Querier) *ConsignmentRepo {
	return &ConsignmentRepo{q: q}
}

const consignmentColumns = `id, customer_id, location_id, status, notes, created_at, updated_at`

// Create persiste una consignación.
func (r *ConsignmentRepo) Create(consignment *entity.Consignment) error {
	if consignment.ID == "" {
		consignment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO consignments (` + consignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		consignment.ID, consignment.CustomerID, consignment.LocationID,
		consignment.Status, consignment.Notes, consignment.CreatedAt, consignment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create consignment: %w", err)
	}
	return nil
}

// GetByID obtiene una consignación por ID, o nil si no existe.
func (r *ConsignmentRepo) GetByID(id string) (*entity.Consignment, error) {
	query := `SELECT ` + consignmentColumns + ` FROM consignments WHERE id = $1`
	return scanConsignment(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila antes de cerrar o cancelar. Serializa un cierre
// y una cancelación concurrentes sobre la misma consignación.
func (r *ConsignmentRepo) GetForUpdate(id string) (*entity.Consignment, error) {
	query := `SELECT ` + consignmentColumns + ` FROM consignments WHERE id = $1 FOR UPDATE`
	return scanConsignment(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStatus cambia el estado de la consignación.
func (r *ConsignmentRepo) UpdateStatus(id, status string) error {
	query := `UPDATE consignments SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update consignment status: %w", err)
	}
	return nil
}

// List lista consignaciones, opcionalmente filtradas por estado.
func (r *ConsignmentRepo) List(status string, limit, offset int) ([]*entity.Consignment, error) {
	query := `SELECT ` + consignmentColumns + ` FROM consignments`
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
		return nil, fmt.Errorf("list consignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Consignment
	for rows.Next() {
		c, err := scanConsignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consignment: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// AddLine inserta una línea de consignación.
func (r *ConsignmentRepo) AddLine(line *entity.ConsignmentLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO consignment_lines (id, consignment_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ConsignmentID, line.PresentationID, line.ProductID,
		line.SaleQty, line.UnitsPerSaleUnit, line.BaseQty, line.UnitPrice)
	if err != nil {
		return fmt.Errorf("add consignment line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una consignación.
func (r *ConsignmentRepo) ListLines(consignmentID string) ([]*entity.ConsignmentLine, error) {
	query := `
		SELECT id, consignment_id, presentation_id, product_id, sale_qty, units_per_sale_unit, base_qty, unit_price
		FROM consignment_lines WHERE consignment_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, consignmentID)
	if err != nil {
		return nil, fmt.Errorf("list consignment lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConsignmentLine
	for rows.Next() {
		var l entity.ConsignmentLine
		if err := rows.Scan(&l.ID, &l.ConsignmentID, &l.PresentationID, &l.ProductID,
			&l.SaleQty, &l.UnitsPerSaleUnit, &l.BaseQty, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan consignment line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func scanConsignment(row pgx.Row) (*entity.Consignment, error) {
	var c entity.Consignment
	err := row.Scan(&c.ID, &c.CustomerID, &c.LocationID, &c.Status,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consignment: %w", err)
	}
	return &c, nil
}
