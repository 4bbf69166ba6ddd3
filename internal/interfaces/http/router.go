package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tu-usuario/comercio-pro/internal/application/auth"
	"github.com/tu-usuario/comercio-pro/internal/application/carts"
	"github.com/tu-usuario/comercio-pro/internal/application/catalog"
	"github.com/tu-usuario/comercio-pro/internal/application/consignments"
	"github.com/tu-usuario/comercio-pro/internal/application/inventory"
	"github.com/tu-usuario/comercio-pro/internal/application/orders"
	"github.com/tu-usuario/comercio-pro/internal/application/parties"
	"github.com/tu-usuario/comercio-pro/internal/application/purchases"
	"github.com/tu-usuario/comercio-pro/internal/application/sales"
	"github.com/tu-usuario/comercio-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CatalogUC     *catalog.CatalogUseCase
	PartyUC       *parties.PartyUseCase
	CartUC        *carts.CartUseCase
	OrderUC       *orders.OrderUseCase
	SaleUC        *sales.SaleUseCase
	PurchaseUC    *purchases.PurchaseUseCase
	ConsignmentUC *consignments.ConsignmentUseCase
	InventoryUC   *inventory.InventoryUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Métricas Prometheus (sin auth; exponer solo en la red interna)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: productos, presentaciones y ubicaciones
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products := protected.Group("/products")
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Put("/:id", catalogHandler.UpdateProduct)
	products.Post("/:id/presentations", catalogHandler.CreatePresentation)
	products.Get("/:id/presentations", catalogHandler.ListPresentations)

	locations := protected.Group("/locations")
	locations.Post("/", catalogHandler.CreateLocation)
	locations.Get("/", catalogHandler.ListLocations)

	// Clientes y proveedores
	partyHandler := NewPartyHandler(deps.PartyUC)
	customers := protected.Group("/customers")
	customers.Post("/", partyHandler.CreateCustomer)
	customers.Get("/", partyHandler.ListCustomers)
	customers.Get("/:id", partyHandler.GetCustomer)
	customers.Put("/:id", partyHandler.UpdateCustomer)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", partyHandler.CreateSupplier)
	suppliers.Get("/", partyHandler.ListSuppliers)
	suppliers.Get("/:id", partyHandler.GetSupplier)

	// Carrito
	cartHandler := NewCartHandler(deps.CartUC)
	cart := protected.Group("/cart")
	cart.Get("/", cartHandler.Get)
	cart.Post("/items", cartHandler.AddLine)
	cart.Patch("/items/:id", cartHandler.UpdateLine)
	cart.Delete("/items/:id", cartHandler.RemoveLine)
	cart.Post("/confirm", cartHandler.Confirm)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Patch("/:id/cancel", orderHandler.Cancel)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Compras (recepción de mercancía: admin y bodeguero)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup := protected.Group("/purchases", RequireRole(entity.RoleAdmin, entity.RoleBodeguero))
	purchasesGroup.Post("/", purchaseHandler.Create)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)

	// Consignaciones
	consignmentHandler := NewConsignmentHandler(deps.ConsignmentUC)
	consignmentsGroup := protected.Group("/consignments")
	consignmentsGroup.Post("/", consignmentHandler.Create)
	consignmentsGroup.Get("/", consignmentHandler.List)
	consignmentsGroup.Get("/:id", consignmentHandler.GetByID)
	consignmentsGroup.Patch("/:id/close", consignmentHandler.Close)
	consignmentsGroup.Patch("/:id/cancel", consignmentHandler.Cancel)

	// Inventario: saldos, movimientos y ajustes
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/balance", inventoryHandler.GetBalance)
	invGroup.Get("/balances", inventoryHandler.ListBalances)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/reconcile", inventoryHandler.Reconcile)
	// El ajuste manual puede dejar stock negativo: solo admin y bodeguero.
	invGroup.Post("/adjustments", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), inventoryHandler.Adjust)
}
