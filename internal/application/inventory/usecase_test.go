package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/inventory"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/testutil"
	"github.com/tu-usuario/comercio-pro/pkg/logger"
)

const (
	userID = "user-1"
	locID  = "loc-1"
	prodA  = "prod-a"
)

func fixture(t *testing.T) (*testutil.Store, *inventory.InventoryUseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Locations[locID] = &entity.Location{ID: locID, Name: "Bodega"}
	store.Products[prodA] = &entity.Product{ID: prodA, SKU: "A-01", Name: "Producto A", Active: true}

	repos := store.Repos()
	uc := inventory.NewInventoryUseCase(
		testutil.NewTxRunner(store),
		ledger.New(logger.Nop()),
		repos.Balances,
		repos.Movements,
		repos.Products,
		store.LocationRepo(),
	)
	return store, uc
}

// El ajuste aplica el delta con signo y devuelve saldo + movimiento.
func TestAdjust_AplicaDeltaYRegistraMovimiento(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 10, 2)

	resp, err := uc.Adjust(context.Background(), userID, dto.AdjustStockRequest{
		ProductID:  prodA,
		LocationID: locID,
		DeltaQty:   -3,
		Reason:     "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Balance.Available)
	assert.Equal(t, int64(2), resp.Balance.Reserved, "el ajuste no toca reservas")
	assert.Equal(t, int64(5), resp.Balance.Free)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, resp.Movement.Type)
	assert.Equal(t, int64(-3), resp.Movement.Quantity)
	assert.Equal(t, "conteo físico", resp.Movement.Note)

	require.Len(t, store.MovementsFor(prodA, locID), 1)
}

// El primer ajuste de un producto sin historia crea el saldo perezosamente.
func TestAdjust_CreaSaldoPerezoso(t *testing.T) {
	_, uc := fixture(t)

	resp, err := uc.Adjust(context.Background(), userID, dto.AdjustStockRequest{
		ProductID:  prodA,
		LocationID: locID,
		DeltaQty:   15,
		Reason:     "inventario inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), resp.Balance.Available)
}

func TestAdjust_DeltaCero(t *testing.T) {
	_, uc := fixture(t)

	_, err := uc.Adjust(context.Background(), userID, dto.AdjustStockRequest{
		ProductID:  prodA,
		LocationID: locID,
		DeltaQty:   0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	_, uc := fixture(t)

	_, err := uc.Adjust(context.Background(), userID, dto.AdjustStockRequest{
		ProductID:  "no-existe",
		LocationID: locID,
		DeltaQty:   5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// GetBalance devuelve cero para pares sin historia, no 404.
func TestGetBalance_SinHistoriaDevuelveCero(t *testing.T) {
	_, uc := fixture(t)

	resp, err := uc.GetBalance(prodA, locID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Available)
	assert.Equal(t, int64(0), resp.Reserved)
	assert.Equal(t, int64(0), resp.Free)
}

// La reconciliación compara la suma de movimientos contra Available + Reserved:
// lo reservado sigue en bodega y las reservas no generan movimiento.
func TestReconcile_ConsideraLoReservado(t *testing.T) {
	store, uc := fixture(t)
	repos := store.Repos()
	l := ledger.New(logger.Nop())

	// Entrada de 20, luego reserva de 5 (sin movimiento).
	require.NoError(t, l.Receive(repos.Balances, repos.Movements,
		prodA, locID, 20, entity.PurchaseRef("pur-1"), userID))
	require.NoError(t, l.Reserve(repos.Balances, prodA, locID, 5))

	resp, err := uc.Reconcile(prodA, locID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), resp.MovementSum)
	assert.Equal(t, int64(20), resp.OnHand, "15 disponibles + 5 reservados siguen en bodega")
	assert.True(t, resp.IsReconciled)
	assert.Equal(t, int64(0), resp.Discrepancy)
}

// Tras una venta desde pedido la historia debe seguir cuadrando: la reserva
// descontó Available sin movimiento y el consumo descontó ambos cubos con un
// solo movimiento SALE, así que lo consumido desde pedidos entra en la cuenta.
func TestReconcile_CuadraTrasVentaDesdePedido(t *testing.T) {
	store, uc := fixture(t)
	repos := store.Repos()
	l := ledger.New(logger.Nop())

	require.NoError(t, l.Receive(repos.Balances, repos.Movements,
		prodA, locID, 6, entity.PurchaseRef("pur-1"), userID))
	require.NoError(t, l.Reserve(repos.Balances, prodA, locID, 3))

	orderID := "ord-1"
	store.Sales["sale-1"] = &entity.Sale{ID: "sale-1", OrderID: &orderID}
	require.NoError(t, l.Consume(repos.Balances, repos.Movements,
		prodA, locID, 3, true, entity.SaleRef("sale-1"), userID))

	resp, err := uc.Reconcile(prodA, locID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.MovementSum, "+6 compra, -3 venta")
	assert.Equal(t, int64(0), resp.OnHand)
	assert.Equal(t, int64(3), resp.ConsumedFromOrders)
	assert.True(t, resp.IsReconciled, "una historia legal nunca reporta descuadre")
	assert.Equal(t, int64(0), resp.Discrepancy)
}

// Las ventas directas descuentan una sola vez y no entran en el término de
// consumo desde pedidos.
func TestReconcile_MezclaVentaDirectaYDesdePedido(t *testing.T) {
	store, uc := fixture(t)
	repos := store.Repos()
	l := ledger.New(logger.Nop())

	require.NoError(t, l.Receive(repos.Balances, repos.Movements,
		prodA, locID, 10, entity.PurchaseRef("pur-1"), userID))
	require.NoError(t, l.Reserve(repos.Balances, prodA, locID, 3))

	orderID := "ord-1"
	store.Sales["sale-1"] = &entity.Sale{ID: "sale-1", OrderID: &orderID}
	require.NoError(t, l.Consume(repos.Balances, repos.Movements,
		prodA, locID, 3, true, entity.SaleRef("sale-1"), userID))

	store.Sales["sale-2"] = &entity.Sale{ID: "sale-2"} // venta directa, sin pedido
	require.NoError(t, l.Consume(repos.Balances, repos.Movements,
		prodA, locID, 2, false, entity.SaleRef("sale-2"), userID))

	resp, err := uc.Reconcile(prodA, locID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.MovementSum, "+10 compra, -3 desde pedido, -2 directa")
	assert.Equal(t, int64(2), resp.OnHand)
	assert.Equal(t, int64(3), resp.ConsumedFromOrders)
	assert.True(t, resp.IsReconciled)
}

// Una discrepancia aparece si el saldo se tocó por fuera de las primitivas.
func TestReconcile_DetectaDescuadre(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 9, 0) // saldo sin movimientos que lo respalden

	resp, err := uc.Reconcile(prodA, locID)
	require.NoError(t, err)
	assert.False(t, resp.IsReconciled)
	assert.Equal(t, int64(9), resp.Discrepancy)
}
