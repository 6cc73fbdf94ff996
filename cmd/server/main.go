package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	activityapp "github.com/stockroom/backend/internal/application/activity"
	contactapp "github.com/stockroom/backend/internal/application/contact"
	"github.com/stockroom/backend/internal/application/guard"
	identityapp "github.com/stockroom/backend/internal/application/identity"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	jobapp "github.com/stockroom/backend/internal/application/job"
	partnerapp "github.com/stockroom/backend/internal/application/partner"
	taxapp "github.com/stockroom/backend/internal/application/tax"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/cache"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/event"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/storage"
	"github.com/stockroom/backend/internal/infrastructure/strategy"
	"github.com/stockroom/backend/internal/infrastructure/telemetry"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"github.com/stockroom/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Stockroom API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	otel, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := otel.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, cfg.Database.DBName, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	folderRepo := persistence.NewGormFolderRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	lotRepo := persistence.NewGormLotRepository(db.DB)
	serialRepo := persistence.NewGormSerialRepository(db.DB)
	stockCountRepo := persistence.NewGormStockCountRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	pickListRepo := persistence.NewGormPickListRepository(db.DB)
	taxRateRepo := persistence.NewGormTaxRateRepository(db.DB)
	jobRepo := persistence.NewGormJobRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	readModels := persistence.NewReadModels(db.X)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus: activity log and business metrics both listen to every event
	eventBus := event.NewBus(log)
	recorder := activityapp.NewRecorder(activityRepo)
	eventBus.Subscribe(recorder)
	if metrics, err := telemetry.NewBusinessMetrics(otel.Meter("stockroom")); err != nil {
		log.Warn("Business metrics disabled", zap.Error(err))
	} else {
		eventBus.Subscribe(metrics)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	allocators, err := strategy.NewRegistryWithDefaults()
	if err != nil {
		log.Fatal("Failed to build allocator registry", zap.Error(err))
	}
	allocator, err := allocators.Get(cfg.Inventory.Allocator)
	if err != nil {
		log.Fatal("Unknown lot allocator",
			zap.String("allocator", cfg.Inventory.Allocator),
			zap.Strings("available", allocators.Names()),
		)
	}
	planner := trade.NewPickPlanner(allocator, trade.WithExpiryGuard(cfg.Inventory.FEFOGuardDays))

	images, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	authCache := cache.New(ctx, cfg.Redis, log)
	defer func() {
		if err := authCache.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()
	resolver := guard.NewResolver(profileRepo, tenantRepo, authCache, cfg.Redis.TTL)
	tokens := auth.NewTokenService(cfg.JWT)

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, txScope, eventBus)
	itemService := inventoryapp.NewItemService(
		itemRepo, folderRepo, locationRepo, lotRepo, serialRepo, txScope, eventBus,
		inventoryapp.ItemServiceConfig{
			Allocator:     allocator,
			FEFOGuardDays: cfg.Inventory.FEFOGuardDays,
			Images:        images,
			Activity:      recorder,
		},
	)
	folderService := inventoryapp.NewFolderService(folderRepo, readModels, txScope, eventBus)
	locationService := inventoryapp.NewLocationService(locationRepo, txScope, eventBus)
	stockCountService := inventoryapp.NewStockCountService(stockCountRepo, readModels, txScope, eventBus, recorder)
	salesOrderService := tradeapp.NewSalesOrderService(
		salesOrderRepo, pickListRepo, customerRepo, readModels, txScope, eventBus, planner,
	)
	pickListService := tradeapp.NewPickListService(pickListRepo, txScope, eventBus, planner)
	taxRateService := taxapp.NewRateService(taxRateRepo)
	jobService := jobapp.NewJobService(jobRepo, txScope, eventBus)
	activityService := activityapp.NewService(activityRepo)
	contactService := contactapp.NewService(readModels)

	handlers := router.Handlers{
		Me:          handler.NewMeHandler(identityapp.NewMeService()),
		Contacts:    handler.NewContactHandler(contactService),
		Customers:   handler.NewCustomerHandler(customerService),
		Items:       handler.NewItemHandler(itemService),
		Folders:     handler.NewFolderHandler(folderService),
		Locations:   handler.NewLocationHandler(locationService),
		SalesOrders: handler.NewSalesOrderHandler(salesOrderService),
		PickLists:   handler.NewPickListHandler(pickListService),
		TaxRates:    handler.NewTaxRateHandler(taxRateService),
		StockCounts: handler.NewStockCountHandler(stockCountService),
		Jobs:        handler.NewJobHandler(jobService),
		Activity:    handler.NewActivityHandler(activityService),
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
	}

	engine := router.NewEngine(router.Options{
		HTTP:        cfg.HTTP,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     cfg.Telemetry.Enabled,
		Meter:       otel.Meter("stockroom.http"),
		Log:         log,
		Tokens:      tokens,
		Resolver:    resolver,
		Health:      handler.NewHealthHandler(version, map[string]handler.Pinger{"database": db}),
		RateLimiter: limiter,
	}, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
