package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-retail-stock/internal/handler"
	"go-retail-stock/internal/repository"
	"go-retail-stock/internal/service"
	"go-retail-stock/internal/unit"
	"go-retail-stock/internal/ws"
	"go-retail-stock/pkg/cache"
	"go-retail-stock/pkg/config"
	"go-retail-stock/pkg/database"
	"go-retail-stock/pkg/jwt"
	"go-retail-stock/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load config and logger
	cfg := config.Load()
	log := logger.New(cfg.Logger.Level, cfg.Server.IsProduction())

	ratios, err := unit.NewRatios(cfg.Units.PackRatio, cfg.Units.DozenRatio)
	if err != nil {
		log.WithError(err).Fatal("Invalid unit ratios")
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg.Database, log)
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	// 3. Seed default privileges, roles, store and admin user
	if err := database.Seed(db, cfg.Seed, log); err != nil {
		logger.LogError(log, "main", "Seed", nil, err)
	}

	// 4. Report cache. Runs uncached when REDIS_ADDR is empty or unreachable.
	var reportCache service.ReportCache
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cancel()
	switch {
	case err != nil:
		log.WithError(err).Warn("Redis unavailable, report cache disabled")
	case rdb != nil:
		reportCache = cache.NewRedisCache(rdb, cfg.Redis.ReportCacheTTL)
		defer rdb.Close()
		log.WithField("addr", cfg.Redis.Addr).Info("Report cache enabled")
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	productRepo := repository.NewProductRepo(db)
	stockLogRepo := repository.NewStockLogRepo(db)
	poRepo := repository.NewPurchaseOrderRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	stockService := service.NewStockService(db, ratios, productRepo, stockLogRepo, reportCache, wsHub, log)
	reportService := service.NewReportService(stockLogRepo, reportCache, log)
	productService := service.NewProductService(ratios, productRepo, wsHub)
	poService := service.NewPurchaseOrderService(db, ratios, poRepo, supplierRepo, productRepo, stockLogRepo, reportCache, wsHub, log)
	supplierService := service.NewSupplierService(supplierRepo)
	storeService := service.NewStoreService(storeRepo)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, roleRepo, storeRepo)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authService, log),
		Stock:         handler.NewStockHandler(stockService, log),
		Report:        handler.NewReportHandler(reportService, log),
		Product:       handler.NewProductHandler(productService, log),
		Supplier:      handler.NewSupplierHandler(supplierService, log),
		Store:         handler.NewStoreHandler(storeService, log),
		PurchaseOrder: handler.NewPurchaseOrderHandler(poService, log),
		User:          handler.NewUserHandler(userService, log),
		Role:          handler.NewRoleHandler(roleRepo, privilegeRepo),
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Retail Stock Service v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	handler.Register(app, handlers, tokens, userRepo, wsHub)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.WithError(err).Panic("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
