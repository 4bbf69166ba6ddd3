package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/application/orders"
	"github.com/tu-usuario/comercio-pro/internal/application/sales"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/testutil"
	"github.com/tu-usuario/comercio-pro/pkg/logger"
)

const (
	customerID = "cust-1"
	userID     = "user-1"
	locID      = "loc-1"
	prodA      = "prod-a"
	presA1     = "pres-a1"
)

func fixture(t *testing.T) (*testutil.Store, *sales.SaleUseCase, *orders.OrderUseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Customers[customerID] = &entity.Customer{ID: customerID, Name: "Diana"}
	store.Locations[locID] = &entity.Location{ID: locID, Name: "Bodega"}
	store.Products[prodA] = &entity.Product{ID: prodA, SKU: "A-01", Name: "Producto A", Active: true}
	store.Presentations[presA1] = &entity.Presentation{
		ID: presA1, ProductID: prodA, Name: "Unidad",
		UnitsPerSaleUnit: 1, Price: decimal.NewFromInt(1000), Active: true,
	}

	repos := store.Repos()
	txRunner := testutil.NewTxRunner(store)
	l := ledger.New(logger.Nop())

	saleUC := sales.NewSaleUseCase(
		txRunner, l,
		repos.Sales, repos.Orders, repos.Presentations,
		store.LocationRepo(), store.CustomerRepo(),
		nil, // sin generador de recibos en estos tests
	)
	orderUC := orders.NewOrderUseCase(
		txRunner, l,
		repos.Orders, repos.Presentations,
		store.LocationRepo(), store.CustomerRepo(),
	)
	return store, saleUC, orderUC
}

func mustCreateOrder(t *testing.T, uc *orders.OrderUseCase, qty int64) *dto.OrderResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA1, Qty: qty}},
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta desde pedido
// ──────────────────────────────────────────────────────────────────────────────

// La venta desde pedido consume la reserva (ambos cubos), copia los snapshots
// del pedido y lo marca COMPLETED.
func TestCreateFromOrder_ConsumeReserva(t *testing.T) {
	store, saleUC, orderUC := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	order := mustCreateOrder(t, orderUC, 4)

	resp, err := saleUC.Create(context.Background(), userID, dto.CreateSaleRequest{
		OrderID: order.ID, PaymentTerms: "contado",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.OrderID)
	assert.Equal(t, order.ID, *resp.OrderID)
	assert.Equal(t, entity.SaleStatusRegistered, resp.Status)
	assert.True(t, resp.GrandTotal.Equal(order.GrandTotal), "los totales se copian del pedido")

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(6), b.Available)
	assert.Equal(t, int64(0), b.Reserved, "la venta consume la reserva, no el stock libre")

	movs := store.MovementsFor(prodA, locID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSALE, movs[0].Type)
	assert.Equal(t, int64(-4), movs[0].Quantity)
	assert.Equal(t, resp.ID, movs[0].Ref.ID, "el movimiento referencia la venta, no el pedido")

	assert.Equal(t, entity.OrderStatusCompleted, store.Orders[order.ID].Status)
}

// Un pedido solo puede venderse una vez.
func TestCreateFromOrder_VentaDuplicada(t *testing.T) {
	store, saleUC, orderUC := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	order := mustCreateOrder(t, orderUC, 4)

	_, err := saleUC.CreateFromOrder(context.Background(), userID, order.ID, "")
	require.NoError(t, err)

	_, err = saleUC.CreateFromOrder(context.Background(), userID, order.ID, "")
	require.Error(t, err)
	// El pedido ya está COMPLETED, así que el guard de estado dispara primero.
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(6), b.Available, "el saldo no debe descontarse dos veces")
}

// Vender un pedido cancelado es rechazado.
func TestCreateFromOrder_PedidoCancelado(t *testing.T) {
	store, saleUC, orderUC := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	order := mustCreateOrder(t, orderUC, 4)
	_, err := orderUC.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = saleUC.CreateFromOrder(context.Background(), userID, order.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Si un ajuste negativo dejó el físico por debajo de la reserva, la venta
// falla con el error de stock físico y el pedido sigue PENDING.
func TestCreateFromOrder_AjusteComioElFisico(t *testing.T) {
	store, saleUC, orderUC := fixture(t)
	store.SeedBalance(prodA, locID, 4, 0)

	order := mustCreateOrder(t, orderUC, 4)

	// Simula la merma posterior a la reserva: Available 0 -> -2.
	b := store.Balance(prodA, locID)
	store.SeedBalance(prodA, locID, b.Available-2, b.Reserved)

	_, err := saleUC.CreateFromOrder(context.Background(), userID, order.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPhysicalStockShortfall)
	assert.Equal(t, entity.OrderStatusPending, store.Orders[order.ID].Status,
		"el pedido queda PENDING para resolverse con ajuste o cancelación")
	assert.Empty(t, store.Sales)
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta directa
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDirect_ConsumeStockLibre(t *testing.T) {
	store, saleUC, _ := fixture(t)
	store.SeedBalance(prodA, locID, 10, 3)

	resp, err := saleUC.Create(context.Background(), userID, dto.CreateSaleRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA1, Qty: 5}},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.OrderID)
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(5000)))

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(5), b.Available)
	assert.Equal(t, int64(3), b.Reserved, "las reservas de pedidos ajenos quedan intactas")
}

// La venta directa no puede venderse el stock reservado para pedidos.
func TestCreateDirect_RespetaReservasAjenas(t *testing.T) {
	store, saleUC, _ := fixture(t)
	store.SeedBalance(prodA, locID, 10, 7)

	_, err := saleUC.Create(context.Background(), userID, dto.CreateSaleRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA1, Qty: 5}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, store.Sales)
	assert.Equal(t, int64(10), store.Balance(prodA, locID).Available)
}

// De dos ventas que compiten por el mismo stock solo entra la primera.
func TestCreateDirect_SobreventaSecuencial(t *testing.T) {
	store, saleUC, _ := fixture(t)
	store.SeedBalance(prodA, locID, 6, 0)

	req := dto.CreateSaleRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA1, Qty: 4}},
	}
	_, err := saleUC.Create(context.Background(), userID, req)
	require.NoError(t, err)

	_, err = saleUC.Create(context.Background(), userID, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(2), store.Balance(prodA, locID).Available)
	assert.Len(t, store.Sales, 1)
}

func TestCreateDirect_SinLineas(t *testing.T) {
	_, saleUC, _ := fixture(t)
	_, err := saleUC.Create(context.Background(), userID, dto.CreateSaleRequest{
		CustomerID: customerID,
		LocationID: locID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
