package purchases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/application/purchases"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/testutil"
	"github.com/tu-usuario/comercio-pro/pkg/logger"
)

const (
	supplierID = "supp-1"
	userID     = "user-1"
	locID      = "loc-1"
	prodA      = "prod-a"
	presCaja   = "pres-caja" // caja x12
)

func fixture(t *testing.T) (*testutil.Store, *purchases.PurchaseUseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Suppliers[supplierID] = &entity.Supplier{ID: supplierID, Name: "Distribuidora Norte"}
	store.Locations[locID] = &entity.Location{ID: locID, Name: "Bodega"}
	store.Products[prodA] = &entity.Product{ID: prodA, SKU: "A-01", Name: "Producto A", Active: true}
	store.Presentations[presCaja] = &entity.Presentation{
		ID: presCaja, ProductID: prodA, Name: "Caja x12",
		UnitsPerSaleUnit: 12, Price: decimal.NewFromInt(30000), Active: true,
	}

	repos := store.Repos()
	uc := purchases.NewPurchaseUseCase(
		testutil.NewTxRunner(store),
		ledger.New(logger.Nop()),
		repos.Purchases,
		repos.Presentations,
		store.LocationRepo(),
		store.SupplierRepo(),
	)
	return store, uc
}

// Recibir una compra suma disponible (en unidades base) sin precondición y
// recalcula los totales en servidor a partir de los costos de línea.
func TestCreate_RecibeStockYCalculaTotales(t *testing.T) {
	store, uc := fixture(t)

	resp, err := uc.Create(context.Background(), userID, dto.CreatePurchaseRequest{
		SupplierID: supplierID,
		LocationID: locID,
		Lines: []dto.PurchaseLineRequest{
			{PresentationID: presCaja, Qty: 3, UnitCost: decimal.NewFromInt(25000)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, int64(36), resp.Lines[0].BaseQty, "3 cajas x12 = 36 unidades base")
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(75000)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(75000)))

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(36), b.Available, "el saldo se crea perezosamente al recibir")
	assert.Equal(t, int64(0), b.Reserved)

	movs := store.MovementsFor(prodA, locID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePURCHASE, movs[0].Type)
	assert.Equal(t, int64(36), movs[0].Quantity)
	assert.Equal(t, entity.RefPurchase, movs[0].Ref.Type)
	assert.Equal(t, resp.ID, movs[0].Ref.ID)
}

func TestCreate_ProveedorInexistente(t *testing.T) {
	_, uc := fixture(t)

	_, err := uc.Create(context.Background(), userID, dto.CreatePurchaseRequest{
		SupplierID: "no-existe",
		LocationID: locID,
		Lines: []dto.PurchaseLineRequest{
			{PresentationID: presCaja, Qty: 1, UnitCost: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_LineaInvalida(t *testing.T) {
	store, uc := fixture(t)

	_, err := uc.Create(context.Background(), userID, dto.CreatePurchaseRequest{
		SupplierID: supplierID,
		LocationID: locID,
		Lines: []dto.PurchaseLineRequest{
			{PresentationID: presCaja, Qty: 0, UnitCost: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Purchases)
	assert.Equal(t, int64(0), store.Balance(prodA, locID).Available)
}
