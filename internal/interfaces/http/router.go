package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mokpokpo/supply-api/internal/application/auth"
	"github.com/mokpokpo/supply-api/internal/application/catalog"
	appdelivery "github.com/mokpokpo/supply-api/internal/application/delivery"
	"github.com/mokpokpo/supply-api/internal/application/forecast"
	"github.com/mokpokpo/supply-api/internal/application/inventory"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
)

// RouterDeps carries the use cases the router wires to handlers.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	CatalogUC   *catalog.UseCase
	InventoryUC *inventory.UseCase
	DeliveryUC  *appdelivery.UseCase
	NoteUC      *appdelivery.NoteUseCase
	ForecastUC  *forecast.UseCase
	JWTSecret   string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public, except staff creation)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/staff",
		AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleManager),
		authHandler.CreateStaff)

	// Everything below requires a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managerOnly := RequireRole(entity.RoleManager)
	stockOnly := RequireRole(entity.RoleStock, entity.RoleManager)

	// Products + price history
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", managerOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/price", managerOnly, productHandler.UpdatePrice)
	products.Get("/:id/prices", productHandler.ListPrices)

	// Warehouses + locations
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.CatalogUC)
	warehouses.Post("/", managerOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/:id/locations", managerOnly, warehouseHandler.CreateLocation)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)

	// Lots + movements
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	lots := protected.Group("/lots")
	lots.Post("/", stockOnly, inventoryHandler.CreateLot)
	lots.Get("/", inventoryHandler.ListLots)
	lots.Get("/:id", inventoryHandler.GetLot)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", stockOnly, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Deliveries
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC, deps.NoteUC)
	deliveries.Post("/", RequireRole(entity.RoleWholesaler), deliveryHandler.Create)
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Post("/lines/:id/fulfill", stockOnly, deliveryHandler.FulfillLine)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Post("/:id/lines", RequireRole(entity.RoleWholesaler), deliveryHandler.AddLine)
	deliveries.Post("/:id/delivered", RequireRole(entity.RoleDriver), deliveryHandler.MarkDelivered)
	deliveries.Get("/:id/note", deliveryHandler.Note)

	// Forecasts
	forecasts := protected.Group("/forecasts")
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	forecasts.Post("/compute", managerOnly, forecastHandler.Compute)
	forecasts.Get("/", forecastHandler.List)
}
