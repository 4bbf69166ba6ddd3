package consignments_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/consignments"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
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

func fixture(t *testing.T) (*testutil.Store, *consignments.ConsignmentUseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Customers[customerID] = &entity.Customer{ID: customerID, Name: "Tienda El Vecino"}
	store.Locations[locID] = &entity.Location{ID: locID, Name: "Bodega"}
	store.Products[prodA] = &entity.Product{ID: prodA, SKU: "A-01", Name: "Producto A", Active: true}
	store.Presentations[presA1] = &entity.Presentation{
		ID: presA1, ProductID: prodA, Name: "Unidad",
		UnitsPerSaleUnit: 1, Price: decimal.NewFromInt(1000), Active: true,
	}

	repos := store.Repos()
	uc := consignments.NewConsignmentUseCase(
		testutil.NewTxRunner(store),
		ledger.New(logger.Nop()),
		repos.Consignments,
		repos.Presentations,
		store.LocationRepo(),
		store.CustomerRepo(),
	)
	return store, uc
}

func mustCreate(t *testing.T, uc *consignments.ConsignmentUseCase, qty int64) *dto.ConsignmentResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), userID, dto.CreateConsignmentRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA1, Qty: qty}},
	})
	require.NoError(t, err)
	return resp
}

// Despachar descuenta Available de inmediato, sin pasar por reserva.
func TestCreate_DespachaSinReserva(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	resp := mustCreate(t, uc, 6)
	assert.Equal(t, entity.ConsignmentStatusOpen, resp.Status)

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(4), b.Available)
	assert.Equal(t, int64(0), b.Reserved)

	movs := store.MovementsFor(prodA, locID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeCONSIGNMENTOUT, movs[0].Type)
	assert.Equal(t, int64(-6), movs[0].Quantity)
}

func TestCreate_SinStockLibre(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 5, 2)

	_, err := uc.Create(context.Background(), userID, dto.CreateConsignmentRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA1, Qty: 4}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, store.Consignments)
	assert.Equal(t, int64(5), store.Balance(prodA, locID).Available)
}

// Cerrar solo cambia el estado: no mueve stock.
func TestClose_NoMueveStock(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	resp := mustCreate(t, uc, 6)

	closed, err := uc.Close(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConsignmentStatusClosed, closed.Status)

	assert.Equal(t, int64(4), store.Balance(prodA, locID).Available)
	assert.Len(t, store.MovementsFor(prodA, locID), 1, "cerrar no genera movimientos")
}

func TestClose_DobleCierre(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	resp := mustCreate(t, uc, 2)
	_, err := uc.Close(context.Background(), resp.ID)
	require.NoError(t, err)

	_, err = uc.Close(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Cancelar retorna toda la mercancía al disponible con un movimiento de retorno.
func TestCancel_RetornaMercancia(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	resp := mustCreate(t, uc, 6)

	cancelled, err := uc.Cancel(context.Background(), userID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConsignmentStatusCancelled, cancelled.Status)

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(10), b.Available, "el ciclo despachar→cancelar deja el saldo intacto")

	movs := store.MovementsFor(prodA, locID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeCONSIGNMENTRETURN, movs[1].Type)
	assert.Equal(t, int64(6), movs[1].Quantity)
}

// Una consignación cerrada no puede cancelarse: la mercancía ya se liquidó.
func TestCancel_ConsignacionCerrada(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 10, 0)

	resp := mustCreate(t, uc, 2)
	_, err := uc.Close(context.Background(), resp.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), userID, resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(8), store.Balance(prodA, locID).Available,
		"el stock no debe retornarse")
}
