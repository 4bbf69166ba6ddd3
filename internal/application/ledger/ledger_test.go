package ledger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/testutil"
	"github.com/tu-usuario/comercio-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	prodA  = "prod-a"
	prodB  = "prod-b"
	locBod = "loc-bodega"
	userID = "00000000-0000-0000-0000-000000000001"
)

func newLedger() *ledger.Ledger {
	return ledger.New(logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve / Release
// ──────────────────────────────────────────────────────────────────────────────

// Reservar mueve cantidad del cubo disponible al reservado sin generar movimiento.
func TestReserve_MueveDisponibleAReservado(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 0)
	repos := store.Repos()

	err := newLedger().Reserve(repos.Balances, prodA, locBod, 4)
	require.NoError(t, err)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(6), b.Available)
	assert.Equal(t, int64(4), b.Reserved)
	assert.Empty(t, store.MovementsFor(prodA, locBod),
		"reservar no debe generar movimiento: la mercancía no se movió")
}

// El stock libre es Available - Reserved: lo ya reservado no se puede volver a reservar.
func TestReserve_RespetaStockYaReservado(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 7)
	repos := store.Repos()

	err := newLedger().Reserve(repos.Balances, prodA, locBod, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, prodA, stockErr.ProductID)
	assert.Equal(t, int64(4), stockErr.Requested)
	assert.Equal(t, int64(3), stockErr.Available, "el libre reportado debe ser Available - Reserved")

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(10), b.Available, "un rechazo no debe mutar el saldo")
	assert.Equal(t, int64(7), b.Reserved)
}

// Liberar revierte la reserva exacta: el ciclo reservar→liberar deja el saldo intacto.
func TestRelease_RevierteReserva(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 0)
	repos := store.Repos()
	l := newLedger()

	require.NoError(t, l.Reserve(repos.Balances, prodA, locBod, 4))
	require.NoError(t, l.Release(repos.Balances, prodA, locBod, 4))

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(10), b.Available)
	assert.Equal(t, int64(0), b.Reserved)
}

// Liberar más de lo reservado recorta a cero en vez de dejar Reserved negativo.
func TestRelease_RecortaACero(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 3)
	repos := store.Repos()

	err := newLedger().Release(repos.Balances, prodA, locBod, 5)
	require.NoError(t, err)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(0), b.Reserved, "Reserved nunca queda negativo")
	assert.Equal(t, int64(13), b.Available, "solo vuelve al disponible lo efectivamente liberado")
}

// Dos reservas concurrentes de 6 contra {10,0}: exactamente una gana y la otra
// recibe InsufficientStock. La serialización la aporta la transacción (lock de
// fila en producción, mutex del runner de pruebas); sin ella ambas verían 10
// libres y sobrevenderían.
func TestReserve_ConcurrenciaSinSobreventa(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 0)
	runner := testutil.NewTxRunner(store)
	l := newLedger()

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- runner.Run(context.Background(), func(tx ledger.TxRepos) error {
				return l.Reserve(tx.Balances, prodA, locBod, 6)
			})
		}()
	}

	var ok, rejected int
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			rejected++
		} else {
			ok++
		}
	}
	assert.Equal(t, 1, ok, "exactamente una reserva debe ganar")
	assert.Equal(t, 1, rejected)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(4), b.Available)
	assert.Equal(t, int64(6), b.Reserved)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consume
// ──────────────────────────────────────────────────────────────────────────────

// Consumir desde reserva descuenta ambos cubos y registra un movimiento SALE negativo.
func TestConsume_DesdeReserva(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 4)
	repos := store.Repos()

	err := newLedger().Consume(repos.Balances, repos.Movements,
		prodA, locBod, 4, true, entity.SaleRef("sale-1"), userID)
	require.NoError(t, err)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(6), b.Available)
	assert.Equal(t, int64(0), b.Reserved)

	movs := store.MovementsFor(prodA, locBod)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSALE, movs[0].Type)
	assert.Equal(t, int64(-4), movs[0].Quantity)
	assert.Equal(t, entity.RefSale, movs[0].Ref.Type)
	assert.Equal(t, "sale-1", movs[0].Ref.ID)
}

// Sin reserva suficiente el consumo desde pedido falla con el error específico.
func TestConsume_ReservaInsuficiente(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 2)
	repos := store.Repos()

	err := newLedger().Consume(repos.Balances, repos.Movements,
		prodA, locBod, 4, true, entity.SaleRef("sale-1"), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReservationShortfall)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(10), b.Available)
	assert.Equal(t, int64(2), b.Reserved)
	assert.Empty(t, store.MovementsFor(prodA, locBod))
}

// Reserva suficiente pero stock físico menor (ajuste negativo posterior a la
// reserva) falla con el error de stock físico.
func TestConsume_StockFisicoInsuficiente(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 2, 4)
	repos := store.Repos()

	err := newLedger().Consume(repos.Balances, repos.Movements,
		prodA, locBod, 4, true, entity.SaleRef("sale-1"), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPhysicalStockShortfall)
}

// Venta directa: exige stock libre y descuenta solo Available.
func TestConsume_VentaDirecta(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 3)
	repos := store.Repos()

	err := newLedger().Consume(repos.Balances, repos.Movements,
		prodA, locBod, 5, false, entity.SaleRef("sale-2"), userID)
	require.NoError(t, err)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(5), b.Available)
	assert.Equal(t, int64(3), b.Reserved, "la venta directa no toca las reservas ajenas")
}

// Venta directa no puede comerse el stock reservado para pedidos.
func TestConsume_VentaDirectaNoTocaReservas(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 7)
	repos := store.Repos()

	err := newLedger().Consume(repos.Balances, repos.Movements,
		prodA, locBod, 5, false, entity.SaleRef("sale-2"), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive / Dispatch / Return / Adjust
// ──────────────────────────────────────────────────────────────────────────────

// Recibir compra suma disponible sin precondición y registra PURCHASE positivo.
func TestReceive_SumaDisponible(t *testing.T) {
	store := testutil.NewStore()
	repos := store.Repos()

	err := newLedger().Receive(repos.Balances, repos.Movements,
		prodA, locBod, 24, entity.PurchaseRef("pur-1"), userID)
	require.NoError(t, err)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(24), b.Available, "el saldo se crea perezosamente en el primer movimiento")

	movs := store.MovementsFor(prodA, locBod)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePURCHASE, movs[0].Type)
	assert.Equal(t, int64(24), movs[0].Quantity)
}

// Despachar consignación descuenta disponible de inmediato (sin reserva).
func TestDispatchConsignment_DescuentaDisponible(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 2)
	repos := store.Repos()

	err := newLedger().DispatchConsignment(repos.Balances, repos.Movements,
		prodA, locBod, 6, entity.ConsignmentRef("con-1"), userID)
	require.NoError(t, err)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(4), b.Available)
	assert.Equal(t, int64(2), b.Reserved)

	movs := store.MovementsFor(prodA, locBod)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeCONSIGNMENTOUT, movs[0].Type)
	assert.Equal(t, int64(-6), movs[0].Quantity)
}

func TestDispatchConsignment_SinStockLibre(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 5, 3)
	repos := store.Repos()

	err := newLedger().DispatchConsignment(repos.Balances, repos.Movements,
		prodA, locBod, 4, entity.ConsignmentRef("con-1"), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Retornar consignación cancelada devuelve la mercancía al disponible.
func TestReturnConsignment_DevuelveStock(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 4, 0)
	repos := store.Repos()

	err := newLedger().ReturnConsignment(repos.Balances, repos.Movements,
		prodA, locBod, 6, entity.ConsignmentRef("con-1"), userID)
	require.NoError(t, err)

	b := store.Balance(prodA, locBod)
	assert.Equal(t, int64(10), b.Available)

	movs := store.MovementsFor(prodA, locBod)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeCONSIGNMENTRETURN, movs[0].Type)
	assert.Equal(t, int64(6), movs[0].Quantity)
}

// El ajuste manual aplica el delta con signo sin precondición: puede dejar
// el disponible en cualquier valor, incluso negativo.
func TestAdjust_DeltaNegativoSinPrecondicion(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 3, 0)
	repos := store.Repos()

	b, mov, err := newLedger().Adjust(repos.Balances, repos.Movements,
		prodA, locBod, -5, "rotura en bodega", userID)
	require.NoError(t, err)

	assert.Equal(t, int64(-2), b.Available, "el ajuste es la única vía que admite negativos")
	assert.Equal(t, entity.MovementTypeADJUSTMENT, mov.Type)
	assert.Equal(t, int64(-5), mov.Quantity)
	assert.Equal(t, "rotura en bodega", mov.Note)
	assert.Equal(t, entity.RefAdjustment, mov.Ref.Type)
	assert.NotEmpty(t, mov.ID)
}

func TestAdjust_DeltaCeroRechazado(t *testing.T) {
	store := testutil.NewStore()
	repos := store.Repos()

	_, _, err := newLedger().Adjust(repos.Balances, repos.Movements,
		prodA, locBod, 0, "", userID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cantidades no positivas rechazadas en todas las primitivas de cantidad positiva.
func TestPrimitivas_CantidadNoPositiva(t *testing.T) {
	store := testutil.NewStore()
	repos := store.Repos()
	l := newLedger()

	assert.ErrorIs(t, l.Reserve(repos.Balances, prodA, locBod, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Release(repos.Balances, prodA, locBod, -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Consume(repos.Balances, repos.Movements, prodA, locBod, 0, false, entity.SaleRef("x"), userID), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Receive(repos.Balances, repos.Movements, prodA, locBod, -3, entity.PurchaseRef("x"), userID), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// AggregateRequirements / ValidateFree
// ──────────────────────────────────────────────────────────────────────────────

// Las cantidades del mismo producto se agregan y el resultado sale en orden
// ascendente de product ID (orden fijo de locks).
func TestAggregateRequirements_AgregaYOrdena(t *testing.T) {
	reqs := ledger.AggregateRequirements([]ledger.Requirement{
		{ProductID: "zzz", BaseQty: 5},
		{ProductID: "aaa", BaseQty: 2},
		{ProductID: "zzz", BaseQty: 3},
		{ProductID: "mmm", BaseQty: 1},
	})

	require.Len(t, reqs, 3)
	assert.Equal(t, ledger.Requirement{ProductID: "aaa", BaseQty: 2}, reqs[0])
	assert.Equal(t, ledger.Requirement{ProductID: "mmm", BaseQty: 1}, reqs[1])
	assert.Equal(t, ledger.Requirement{ProductID: "zzz", BaseQty: 8}, reqs[2])
}

// ValidateFree no muta nada: solo verifica stock libre de todos los requisitos.
func TestValidateFree_ReportaElProductoOfensor(t *testing.T) {
	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 0)
	store.SeedBalance(prodB, locBod, 1, 0)
	repos := store.Repos()

	err := newLedger().ValidateFree(repos.Balances, locBod, []ledger.Requirement{
		{ProductID: prodA, BaseQty: 5},
		{ProductID: prodB, BaseQty: 2},
	})
	require.Error(t, err)

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, prodB, stockErr.ProductID)

	assert.Equal(t, int64(10), store.Balance(prodA, locBod).Available,
		"validar no debe mutar saldo alguno")
}

// ──────────────────────────────────────────────────────────────────────────────
// Logging
// ──────────────────────────────────────────────────────────────────────────────

// El ledger etiqueta sus eventos con component=ledger él mismo: el caller pasa
// el logger base y el campo aparece exactamente una vez.
func TestNew_EtiquetaComponenteUnaVez(t *testing.T) {
	var buf bytes.Buffer
	l := ledger.New(logger.NewWithWriter(&buf, "warn"))

	store := testutil.NewStore()
	store.SeedBalance(prodA, locBod, 10, 2)
	repos := store.Repos()

	// Release por encima de lo reservado dispara el warning de recorte.
	require.NoError(t, l.Release(repos.Balances, prodA, locBod, 5))

	out := buf.String()
	require.NotEmpty(t, out, "el recorte debe emitir un warning")
	assert.Equal(t, 1, strings.Count(out, `"component":"ledger"`))
}
