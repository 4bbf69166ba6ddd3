package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// ConsignmentRepository define el puerto de persistencia para consignaciones.
type ConsignmentRepository interface {
	Create(consignment *entity.Consignment) error
	GetByID(id string) (*entity.Consignment, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) antes de cerrar o cancelar.
	GetForUpdate(id string) (*entity.Consignment, error)
	UpdateStatus(id, status string) error
	List(status string, limit, offset int) ([]*entity.Consignment, error)

	AddLine(line *entity.ConsignmentLine) error
	ListLines(consignmentID string) ([]*entity.ConsignmentLine, error)
}
