package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/retailflow-api/docs"
	"github.com/jhoicas/retailflow-api/internal/application/inventory"
	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/internal/application/usecase"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
	"github.com/jhoicas/retailflow-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/retailflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retailflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retailflow-api/internal/infrastructure/postgres/migrations"
	httpRouter "github.com/jhoicas/retailflow-api/internal/interfaces/http"
	"github.com/jhoicas/retailflow-api/pkg/config"
	"github.com/jhoicas/retailflow-api/pkg/logger"
	"github.com/jhoicas/retailflow-api/pkg/metrics"
	"github.com/jhoicas/retailflow-api/pkg/migrate"
	pkgredis "github.com/jhoicas/retailflow-api/pkg/redis"
)

// txRunner lo cumplen los runners de postgres y memoria.
type txRunner interface {
	inventory.TxRunner
	orders.OrderTxRunner
}

// storage repositorios fuera de transacción más el runner, según STORAGE_DRIVER.
type storage struct {
	runner    txRunner
	products  repository.ProductRepository
	stock     repository.StockRepository
	movements repository.InventoryMovementRepository
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	pinger    httpRouter.Pinger
	close     func()
}

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
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.App.StorageDriver).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Idempotency-Key en checkout solo si hay Redis configurado.
	var idem pkgredis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		idem = redisClient
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: Idempotency-Key deshabilitado")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(reg)

	adjustUC := inventory.NewAdjustStockUseCase(store.runner)
	ledgerUC := inventory.NewLedgerUseCase(store.products, store.stock, store.movements)
	lowStockUC := inventory.NewLowStockUseCase(store.products)
	createOrderUC := orders.NewCreateOrderUseCase(store.runner, adjustUC, store.orders)
	receiptUC := orders.NewReceiptUseCase(store.orders, store.customers, infrapdf.NewMarotoReceiptGenerator(), cfg.App.Name)
	productUC := usecase.NewProductUseCase(store.runner, store.products, store.stock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log, engineMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "RetailFlow API",
	}))

	app.Get("/health", httpRouter.Health(cfg.App.StorageDriver, store.pinger))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		AdjustStock:    adjustUC,
		Ledger:         ledgerUC,
		LowStock:       lowStockUC,
		CreateOrder:    createOrderUC,
		Receipt:        receiptUC,
		Idempotency:    idem,
		IdempotencyTTL: time.Duration(cfg.Idempotency.TTLHours) * time.Hour,
		Metrics:        engineMetrics,
		Logger:         log,
		JWTSecret:      cfg.JWT.Secret,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageDriverMemory {
		s := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			runner:    memory.NewTxRunner(s),
			products:  memory.NewProductRepository(s),
			stock:     memory.NewStockRepository(s),
			movements: memory.NewInventoryMovementRepository(s),
			orders:    memory.NewOrderRepository(s),
			customers: memory.NewCustomerRepository(s),
			pinger:    s,
			close:     func() {},
		}, nil
	}

	if cfg.App.MigrationsAutorun {
		db, err := migrate.Open(ctx, cfg.DB.ConnectionString())
		if err != nil {
			return nil, err
		}
		err = migrate.Up(ctx, db, migrations.FS)
		_ = db.Close()
		if err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		runner:    postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		stock:     postgres.NewStockRepository(pool),
		movements: postgres.NewInventoryMovementRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		customers: postgres.NewCustomerRepository(pool),
		pinger:    pool,
		close:     pool.Close,
	}, nil
}
