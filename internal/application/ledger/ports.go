package ledger

import (
	"context"

	"github.com/tu-usuario/comercio-pro/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
// Cada sitio de llamada usa el subconjunto que necesita.
type TxRepos struct {
	Balances      repository.BalanceRepository
	Movements     repository.MovementRepository
	Carts         repository.CartRepository
	Orders        repository.OrderRepository
	Sales         repository.SaleRepository
	Purchases     repository.PurchaseRepository
	Consignments  repository.ConsignmentRepository
	Products      repository.ProductRepository
	Presentations repository.PresentationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Si fn devuelve error se hace Rollback completo;
// si no, Commit. Garantiza atomicidad para el motor de inventario: un fallo en
// la línea N deshace las mutaciones de las líneas 1..N-1.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
