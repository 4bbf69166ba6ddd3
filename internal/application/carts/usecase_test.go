package carts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/comercio-pro/internal/application/carts"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/domain"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
	"github.com/tu-usuario/comercio-pro/internal/testutil"
	"github.com/tu-usuario/comercio-pro/pkg/logger"
)

const (
	customerID  = "cust-1"
	userID      = "user-1"
	locID       = "loc-1"
	prodGaseosa = "prod-gaseosa"
	prodGalleta = "prod-galleta"
	presLata    = "pres-lata"
	presCaja    = "pres-caja" // caja x6 de gaseosa
	presPaquete = "pres-paquete"
)

// fixture store con cliente, ubicación, dos productos y sus presentaciones.
func fixture(t *testing.T) (*testutil.Store, *carts.CartUseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Customers[customerID] = &entity.Customer{ID: customerID, Name: "Ana", Address: "Calle 10 #2-30"}
	store.Locations[locID] = &entity.Location{ID: locID, Name: "Bodega principal"}
	store.Products[prodGaseosa] = &entity.Product{ID: prodGaseosa, SKU: "GAS-01", Name: "Gaseosa", Active: true}
	store.Products[prodGalleta] = &entity.Product{ID: prodGalleta, SKU: "GAL-01", Name: "Galleta", Active: true}
	store.Presentations[presLata] = &entity.Presentation{
		ID: presLata, ProductID: prodGaseosa, Name: "Lata",
		UnitsPerSaleUnit: 1, Price: decimal.NewFromInt(2500), Active: true,
	}
	store.Presentations[presCaja] = &entity.Presentation{
		ID: presCaja, ProductID: prodGaseosa, Name: "Caja x6",
		UnitsPerSaleUnit: 6, Price: decimal.NewFromInt(13000), Active: true,
	}
	store.Presentations[presPaquete] = &entity.Presentation{
		ID: presPaquete, ProductID: prodGalleta, Name: "Paquete",
		UnitsPerSaleUnit: 1, Price: decimal.NewFromInt(1800), Active: true,
	}

	repos := store.Repos()
	uc := carts.NewCartUseCase(
		testutil.NewTxRunner(store),
		ledger.New(logger.Nop()),
		repos.Carts,
		repos.Presentations,
		store.LocationRepo(),
		store.CustomerRepo(),
	)
	return store, uc
}

func TestAddLine_CreaCarritoPerezosoYCongelaPrecio(t *testing.T) {
	store, uc := fixture(t)

	resp, err := uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presLata, Qty: 2})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, entity.CartStatusActive, resp.Status)

	// Editar el precio de la presentación después no altera la línea ya agregada.
	store.Presentations[presLata].Price = decimal.NewFromInt(9999)
	resp, err = uc.Get(customerID)
	require.NoError(t, err)
	assert.True(t, resp.Lines[0].UnitPrice.Equal(decimal.NewFromInt(2500)),
		"la línea congela el precio al momento de agregarla")
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(5000)))
}

func TestConfirm_ConvierteCarritoEnPedidoYReserva(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodGaseosa, locID, 20, 0)
	store.SeedBalance(prodGalleta, locID, 10, 0)

	// Lata x2 y Caja x1 del mismo producto (2 + 6 = 8 base) más un paquete de galleta.
	_, err := uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presLata, Qty: 2})
	require.NoError(t, err)
	_, err = uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presCaja, Qty: 1})
	require.NoError(t, err)
	_, err = uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presPaquete, Qty: 3})
	require.NoError(t, err)

	out, err := uc.Confirm(context.Background(), customerID, userID, dto.ConfirmCartRequest{
		LocationID: locID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.OrderID)

	// 2*2500 + 1*13000 + 3*1800 = 23400
	assert.True(t, out.GrandTotal.Equal(decimal.NewFromInt(23400)), "grand total: %s", out.GrandTotal)

	// Reservas agregadas por producto: gaseosa 8 base, galleta 3 base.
	gaseosa := store.Balance(prodGaseosa, locID)
	assert.Equal(t, int64(12), gaseosa.Available)
	assert.Equal(t, int64(8), gaseosa.Reserved)
	galleta := store.Balance(prodGalleta, locID)
	assert.Equal(t, int64(7), galleta.Available)
	assert.Equal(t, int64(3), galleta.Reserved)

	// Reservar no genera movimientos.
	assert.Empty(t, store.MovementsFor(prodGaseosa, locID))

	// El pedido quedó PENDING con sus líneas; el carrito CONVERTED y vacío.
	order := store.Orders[out.OrderID]
	require.NotNil(t, order)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.DeliveryTypePickup, order.DeliveryType, "sin tipo de entrega aplica PICKUP")
	assert.Empty(t, store.CartLines, "el carrito debe quedar vacío tras convertirse")

	_, err = uc.Get(customerID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "ya no debe haber carrito ACTIVE")
}

// Si una línea no tiene stock libre, ninguna reserva queda aplicada y el
// carrito sobrevive intacto.
func TestConfirm_SinStockDeUnaLinea_RevierteTodo(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodGaseosa, locID, 20, 0)
	store.SeedBalance(prodGalleta, locID, 1, 0) // insuficiente para Qty 3

	_, err := uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presLata, Qty: 2})
	require.NoError(t, err)
	_, err = uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presPaquete, Qty: 3})
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), customerID, userID, dto.ConfirmCartRequest{LocationID: locID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, prodGalleta, stockErr.ProductID, "el error identifica el producto ofensor")

	assert.Equal(t, int64(20), store.Balance(prodGaseosa, locID).Available,
		"ningún producto debe quedar reservado tras el rollback")
	assert.Equal(t, int64(0), store.Balance(prodGaseosa, locID).Reserved)
	assert.Empty(t, store.Orders, "no debe crearse pedido alguno")

	cart, err := uc.Get(customerID)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2, "el carrito conserva sus líneas")
}

func TestConfirm_CarritoVacio(t *testing.T) {
	store, uc := fixture(t)

	// Carrito existente pero sin líneas.
	now := time.Now()
	store.Carts["cart-1"] = &entity.Cart{
		ID: "cart-1", CustomerID: customerID, Status: entity.CartStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}

	_, err := uc.Confirm(context.Background(), customerID, userID, dto.ConfirmCartRequest{LocationID: locID})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestConfirm_EntregaADomicilioUsaDireccionDelCliente(t *testing.T) {
	store, uc := fixture(t)
	store.SeedBalance(prodGaseosa, locID, 20, 0)

	_, err := uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presLata, Qty: 1})
	require.NoError(t, err)

	out, err := uc.Confirm(context.Background(), customerID, userID, dto.ConfirmCartRequest{
		LocationID:   locID,
		DeliveryType: entity.DeliveryTypeDelivery,
	})
	require.NoError(t, err)

	order := store.Orders[out.OrderID]
	assert.Equal(t, "Calle 10 #2-30", order.Address,
		"sin dirección en el request se usa la del cliente")
}

func TestRemoveLine_DeOtroCliente(t *testing.T) {
	_, uc := fixture(t)

	resp, err := uc.AddLine(customerID, dto.AddCartLineRequest{PresentationID: presLata, Qty: 1})
	require.NoError(t, err)

	_, err = uc.RemoveLine("otro-cliente", resp.Lines[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"una línea solo puede modificarla el dueño del carrito")
}
