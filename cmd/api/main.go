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

	"github.com/mokpokpo/supply-api/internal/application/auth"
	"github.com/mokpokpo/supply-api/internal/application/catalog"
	appdelivery "github.com/mokpokpo/supply-api/internal/application/delivery"
	"github.com/mokpokpo/supply-api/internal/application/forecast"
	"github.com/mokpokpo/supply-api/internal/application/inventory"
	infrapdf "github.com/mokpokpo/supply-api/internal/infrastructure/pdf"
	"github.com/mokpokpo/supply-api/internal/infrastructure/postgres"
	httpRouter "github.com/mokpokpo/supply-api/internal/interfaces/http"
	"github.com/mokpokpo/supply-api/pkg/config"
	"github.com/mokpokpo/supply-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	priceRepo := postgres.NewPriceHistoryRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	forecastRepo := postgres.NewDemandForecastRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewUseCase(txRunner, productRepo, priceRepo, warehouseRepo, locationRepo)
	inventoryUC := inventory.NewUseCase(txRunner, productRepo, locationRepo, lotRepo, movRepo)
	deliveryUC := appdelivery.NewUseCase(txRunner, inventoryUC, deliveryRepo, productRepo, userRepo)
	noteUC := appdelivery.NewNoteUseCase(deliveryRepo, userRepo, productRepo, lotRepo,
		infrapdf.NewMarotoNoteGenerator())
	forecastUC := forecast.NewUseCase(movRepo, forecastRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CatalogUC:   catalogUC,
		InventoryUC: inventoryUC,
		DeliveryUC:  deliveryUC,
		NoteUC:      noteUC,
		ForecastUC:  forecastUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
