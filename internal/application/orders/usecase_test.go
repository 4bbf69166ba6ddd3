package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/application/orders"
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
	prodB      = "prod-b"
	presA1     = "pres-a1" // unidad de prodA
	presA6     = "pres-a6" // six-pack de prodA
	presB1     = "pres-b1" // unidad de prodB
)

func fixture(t *testing.T) (*testutil.Store, *orders.OrderUseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Customers[customerID] = &entity.Customer{
		ID: customerID, Name: "Carlos", Address: "Cra 7 #45-10", InvoiceNIT: "900123456",
	}
	store.Locations[locID] = &entity.Location{ID: locID, Name: "Bodega"}
	store.Products[prodA] = &entity.Product{ID: prodA, SKU: "A-01", Name: "Producto A", Active: true}
	store.Products[prodB] = &entity.Product{ID: prodB, SKU: "B-01", Name: "Producto B", Active: true}
	store.Presentations[presA1] = &entity.Presentation{
		ID: presA1, ProductID: prodA, Name: "Unidad",
		UnitsPerSaleUnit: 1, Price: decimal.NewFromInt(1000), Active: true,
	}
	store.Presentations[presA6] = &entity.Presentation{
		ID: presA6, ProductID: prodA, Name: "Six-pack",
		UnitsPerSaleUnit: 6, Price: decimal.NewFromInt(5500), Active: true,
	}
	store.Presentations[presB1] = &entity.Presentation{
		ID: presB1, ProductID: prodB, Name: "Unidad",
		UnitsPerSaleUnit: 1, Price: decimal.NewFromInt(700), Active: true,
	}

	repos := store.Repos()
	uc := orders.NewOrderUseCase(
		testutil.NewTxRunner(store),
		ledger.New(logger.Nop()),
		repos.Orders,
		repos.Presentations,
		store.LocationRepo(),
		store.CustomerRepo(),
	)
	return store, uc
}

// Crear un pedido reserva stock agregado por producto y congela los snapshots de línea.
func TestCreate_ReservaAgregadaPorProducto(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 20, 0)
	store.SeedBalance(prodB, locID, 5, 0)

	fee := decimal.NewFromInt(3000)
	resp, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID:  customerID,
		LocationID:  locID,
		ShippingFee: &fee,
		Lines: []dto.OrderLineRequest{
			{PresentationID: presA1, Qty: 2}, // 2 base de prodA
			{PresentationID: presA6, Qty: 1}, // 6 base de prodA
			{PresentationID: presB1, Qty: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	require.Len(t, resp.Lines, 3)

	// 2*1000 + 1*5500 + 4*700 = 10300; + 3000 de envío = 13300
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(10300)))
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(13300)))

	a := store.Balance(prodA, locID)
	assert.Equal(t, int64(12), a.Available)
	assert.Equal(t, int64(8), a.Reserved, "las dos líneas de prodA se agregan antes de reservar")
	b := store.Balance(prodB, locID)
	assert.Equal(t, int64(1), b.Available)
	assert.Equal(t, int64(4), b.Reserved)
}

// Un fallo de stock en cualquier producto deja el estado como si el pedido
// nunca se hubiera intentado.
func TestCreate_FalloDeUnProducto_NoReservaNada(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 20, 0)
	store.SeedBalance(prodB, locID, 2, 0)

	_, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines: []dto.OrderLineRequest{
			{PresentationID: presA1, Qty: 5},
			{PresentationID: presB1, Qty: 4}, // solo hay 2
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(0), store.Balance(prodA, locID).Reserved)
	assert.Empty(t, store.Orders)
	assert.Empty(t, store.OrderLines)
}

// El precio enviado en la línea (override) prevalece sobre el de la presentación.
func TestCreate_PrecioOverride(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 20, 0)

	precio := decimal.NewFromInt(900)
	resp, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines: []dto.OrderLineRequest{
			{PresentationID: presA1, Qty: 3, UnitPrice: &precio},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Lines[0].UnitPrice.Equal(precio))
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(2700)))
}

// Entrega a domicilio sin dirección ni dirección de cliente es rechazada.
func TestCreate_DomicilioSinDireccion(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 20, 0)
	store.Customers[customerID].Address = ""

	_, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID:   customerID,
		LocationID:   locID,
		DeliveryType: entity.DeliveryTypeDelivery,
		Lines:        []dto.OrderLineRequest{{PresentationID: presA1, Qty: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Con factura requerida y sin NIT en el request se usa el NIT del cliente.
func TestCreate_FacturaUsaNITDelCliente(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 20, 0)

	resp, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID:      customerID,
		LocationID:      locID,
		InvoiceRequired: true,
		Lines:           []dto.OrderLineRequest{{PresentationID: presA1, Qty: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "900123456", resp.InvoiceNIT)
}

// Cancelar libera exactamente lo reservado y marca CANCELLED.
func TestCancel_LiberaReservas(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 20, 0)

	resp, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA6, Qty: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(12), store.Balance(prodA, locID).Reserved)

	cancelled, err := uc.Cancel(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(20), b.Available, "el ciclo crear→cancelar deja el saldo intacto")
	assert.Equal(t, int64(0), b.Reserved)
	assert.Empty(t, store.MovementsFor(prodA, locID), "ni reservar ni liberar generan movimientos")
}

// Cancelar dos veces el mismo pedido es rechazado sin tocar el saldo.
func TestCancel_DobleCancelacion(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodA, locID, 20, 0)

	resp, err := uc.Create(context.Background(), userID, dto.CreateOrderRequest{
		CustomerID: customerID,
		LocationID: locID,
		Lines:      []dto.OrderLineRequest{{PresentationID: presA1, Qty: 5}},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), resp.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), resp.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	b := store.Balance(prodA, locID)
	assert.Equal(t, int64(20), b.Available,
		"la doble cancelación no debe devolver stock dos veces")
	assert.Equal(t, int64(0), b.Reserved)
}

func TestCancel_PedidoInexistente(t *testing.T) {
	_, uc := fixture(t)
	_, err := uc.Cancel(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
