package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/comercio-pro/internal/application/auth"
	"github.com/tu-usuario/comercio-pro/internal/application/carts"
	"github.com/tu-usuario/comercio-pro/internal/application/catalog"
	"github.com/tu-usuario/comercio-pro/internal/application/consignments"
	"github.com/tu-usuario/comercio-pro/internal/application/inventory"
	"github.com/tu-usuario/comercio-pro/internal/application/ledger"
	"github.com/tu-usuario/comercio-pro/internal/application/orders"
	"github.com/tu-usuario/comercio-pro/internal/application/parties"
	"github.com/tu-usuario/comercio-pro/internal/application/purchases"
	"github.com/tu-usuario/comercio-pro/internal/application/sales"
	infrapdf "github.com/tu-usuario/comercio-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/comercio-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/comercio-pro/internal/interfaces/http"
	"github.com/tu-usuario/comercio-pro/pkg/config"
	"github.com/tu-usuario/comercio-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool (lecturas fuera de transacción)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	presRepo := postgres.NewPresentationRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	consignmentRepo := postgres.NewConsignmentRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)

	txRunner := postgres.NewTxRunner(pool)
	stockLedger := ledger.New(log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewCatalogUseCase(productRepo, presRepo, locationRepo)
	partyUC := parties.NewPartyUseCase(customerRepo, supplierRepo)
	cartUC := carts.NewCartUseCase(txRunner, stockLedger, cartRepo, presRepo, locationRepo, customerRepo)
	orderUC := orders.NewOrderUseCase(txRunner, stockLedger, orderRepo, presRepo, locationRepo, customerRepo)

	receiptGen := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	saleUC := sales.NewSaleUseCase(txRunner, stockLedger, saleRepo, orderRepo, presRepo, locationRepo, customerRepo, receiptGen)
	purchaseUC := purchases.NewPurchaseUseCase(txRunner, stockLedger, purchaseRepo, presRepo, locationRepo, supplierRepo)
	consignmentUC := consignments.NewConsignmentUseCase(txRunner, stockLedger, consignmentRepo, presRepo, locationRepo, customerRepo)
	inventoryUC := inventory.NewInventoryUseCase(txRunner, stockLedger, balanceRepo, movementRepo, productRepo, locationRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ComercioPro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CatalogUC:     catalogUC,
		PartyUC:       partyUC,
		CartUC:        cartUC,
		OrderUC:       orderUC,
		SaleUC:        saleUC,
		PurchaseUC:    purchaseUC,
		ConsignmentUC: consignmentUC,
		InventoryUC:   inventoryUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
