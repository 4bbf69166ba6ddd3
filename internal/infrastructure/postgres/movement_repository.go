package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, location_id, type, quantity, reference_type, reference_id, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.LocationID, movement.Type,
		movement.Quantity, string(movement.Ref.Type), movement.Ref.ID,
		movement.Note, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID, o nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT id, product_id, location_id, type, quantity, reference_type, reference_id, note, created_at, created_by
		FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros opcionales de producto, ubicación y fechas.
func (r *MovementRepo) List(productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, product_id, location_id, type, quantity, reference_type, reference_id, note, created_at, created_by
		FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	if productID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, productID)
		pos++
	}
	if locationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, locationID)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumQuantities suma los deltas de un (producto, ubicación) para reconciliación.
func (r *MovementRepo) SumQuantities(productID, locationID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements WHERE product_id = $1 AND location_id = $2`
	var sum int64
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// SumFromOrderSales suma los movimientos SALE cuya venta referenciada nació de
// un pedido (sales.order_id no nulo). El resultado es <= 0.
func (r *MovementRepo) SumFromOrderSales(productID, locationID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(m.quantity), 0)
		FROM stock_movements m
		JOIN sales s ON s.id = m.reference_id
		WHERE m.product_id = $1 AND m.location_id = $2
		  AND m.type = $3 AND m.reference_type = $4
		  AND s.order_id IS NOT NULL`
	var sum int64
	err := r.q.QueryRow(context.Background(), query,
		productID, locationID, entity.MovementTypeSALE, string(entity.RefSale)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum from-order sales: %w", err)
	}
	return sum, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var refType string
	var createdBy *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.LocationID, &m.Type, &m.Quantity,
		&refType, &m.Ref.ID, &m.Note, &m.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	m.Ref.Type = entity.RefType(refType)
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
