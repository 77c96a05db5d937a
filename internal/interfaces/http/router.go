package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailflow-api/internal/application/inventory"
	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/internal/application/usecase"
	"github.com/jhoicas/retailflow-api/pkg/logger"
	"github.com/jhoicas/retailflow-api/pkg/metrics"
	pkgredis "github.com/jhoicas/retailflow-api/pkg/redis"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	AdjustStock    *inventory.AdjustStockUseCase
	Ledger         *inventory.LedgerUseCase
	LowStock       *inventory.LowStockUseCase
	CreateOrder    *orders.CreateOrderUseCase
	Receipt        *orders.ReceiptUseCase
	Idempotency    pkgredis.IdempotencyStore // nil = sin Idempotency-Key
	IdempotencyTTL time.Duration
	Metrics        *metrics.EngineMetrics
	Logger         *logger.Logger
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(RoleAdmin, RoleManager), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Inventory: ajustes manuales, ledger y existencias bajas
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.Ledger, deps.LowStock, deps.Metrics)
	invGroup.Post("/adjust", RequireRole(RoleAdmin, RoleManager), inventoryHandler.Adjust)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Orders: checkout
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.Receipt, deps.Metrics)
	ordersGroup.Post("/",
		RequireRole(RoleAdmin, RoleManager, RoleCashier),
		Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Logger),
		orderHandler.Create,
	)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/receipt", orderHandler.Receipt)
}
