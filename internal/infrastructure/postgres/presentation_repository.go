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

var _ repository.PresentationRepository = (*PresentationRepo)(nil)

// PresentationRepo implementación de PresentationRepository sobre PostgreSQL (usable con pool o tx).
type PresentationRepo struct {
	q Querier
}

// NewPresentationRepository construye el adaptador de presentaciones. Pasar pool o tx (Querier).
func NewPresentationRepository(q Querier) *PresentationRepo {
	return &PresentationRepo{q: q}
}

const presentationColumns = `id, product_id, name, units_per_sale_unit, price, barcode, active, created_at, updated_at`

// Create persiste una presentación.
func (r *PresentationRepo) Create(presentation *entity.Presentation) error {
	if presentation.ID == "" {
		presentation.ID = uuid.New().String()
	}
	query := `
		INSERT INTO presentations (` + presentationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		presentation.ID, presentation.ProductID, presentation.Name,
		presentation.UnitsPerSaleUnit, presentation.Price, presentation.Barcode,
		presentation.Active, presentation.CreatedAt, presentation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create presentation: %w", err)
	}
	return nil
}

// GetByID obtiene una presentación por ID, o nil si no existe.
func (r *PresentationRepo) GetByID(id string) (*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations WHERE id = $1`
	var p entity.Presentation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.ProductID, &p.Name, &p.UnitsPerSaleUnit, &p.Price,
		&p.Barcode, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presentation: %w", err)
	}
	return &p, nil
}

// Update persiste los cambios de una presentación. No reescribe líneas
// históricas: los documentos congelan factor y precio al crearse.
func (r *PresentationRepo) Update(presentation *entity.Presentation) error {
	query := `
		UPDATE presentations
		SET name = $2, units_per_sale_unit = $3, price = $4, barcode = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		presentation.ID, presentation.Name, presentation.UnitsPerSaleUnit,
		presentation.Price, presentation.Barcode, presentation.Active, presentation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update presentation: %w", err)
	}
	return nil
}

// ListByProduct lista las presentaciones de un producto.
func (r *PresentationRepo) ListByProduct(productID string) ([]*entity.Presentation, error) {
	query := `
		SELECT ` + presentationColumns + ` FROM presentations
		WHERE product_id = $1
		ORDER BY units_per_sale_unit`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Presentation
	for rows.Next() {
		var p entity.Presentation
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Name, &p.UnitsPerSaleUnit,
			&p.Price, &p.Barcode, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
