package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	financeapp "github.com/workshoperp/backend/internal/application/finance"
	inventoryapp "github.com/workshoperp/backend/internal/application/inventory"
	ledgerapp "github.com/workshoperp/backend/internal/application/ledger"
	partnerapp "github.com/workshoperp/backend/internal/application/partner"
	productionapp "github.com/workshoperp/backend/internal/application/production"
	purchasingapp "github.com/workshoperp/backend/internal/application/purchasing"
	"github.com/workshoperp/backend/internal/infrastructure/config"
	"github.com/workshoperp/backend/internal/infrastructure/logger"
	"github.com/workshoperp/backend/internal/infrastructure/persistence"
	"github.com/workshoperp/backend/internal/interfaces/http/handler"
	"github.com/workshoperp/backend/internal/interfaces/http/middleware"
	"github.com/workshoperp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Workshop Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with the zap-backed GORM logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	expenseCategoryRepo := persistence.NewGormExpenseCategoryRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	itemCategoryRepo := persistence.NewGormItemCategoryRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	invoiceRepo := persistence.NewGormPurchaseInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db.DB)

	// Initialize transaction scopes
	financeScope := persistence.NewGormFinanceTransactionScope(db.DB)
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	partnerScope := persistence.NewGormPartnerTransactionScope(db.DB)
	purchasingScope := persistence.NewGormPurchasingTransactionScope(db.DB)
	productionScope := persistence.NewGormProductionTransactionScope(db.DB)

	// Initialize application services
	accountService := financeapp.NewAccountService(financeScope, accountRepo, entryRepo)
	expenseService := financeapp.NewExpenseService(financeScope, expenseRepo, expenseCategoryRepo)
	ledgerService := ledgerapp.NewService(ledgerScope, entryRepo)
	itemService := inventoryapp.NewItemService(inventoryScope, itemRepo, adjustmentRepo, itemCategoryRepo)
	itemCategoryService := inventoryapp.NewCategoryService(itemCategoryRepo)
	supplierService := partnerapp.NewSupplierService(partnerScope, supplierRepo, invoiceRepo, paymentRepo)
	customerService := partnerapp.NewCustomerService(partnerScope, customerRepo)
	invoiceService := purchasingapp.NewInvoiceService(purchasingScope, invoiceRepo)
	paymentService := purchasingapp.NewPaymentService(purchasingScope, paymentRepo)
	recipeService := productionapp.NewRecipeService(productionScope, recipeRepo, productionRepo, itemRepo)
	productionService := productionapp.NewProductionService(productionScope, productionRepo, recipeRepo, itemRepo)

	// Initialize HTTP handlers
	accountHandler := handler.NewAccountHandler(accountService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	itemHandler := handler.NewItemHandler(itemService)
	itemCategoryHandler := handler.NewItemCategoryHandler(itemCategoryService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	customerHandler := handler.NewCustomerHandler(customerService)
	invoiceHandler := handler.NewPurchaseInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	productionHandler := handler.NewProductionHandler(productionService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Register domain routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(accountHandler).
		Register(expenseHandler).
		Register(ledgerHandler).
		Register(itemHandler).
		Register(itemCategoryHandler).
		Register(supplierHandler).
		Register(customerHandler).
		Register(invoiceHandler).
		Register(paymentHandler).
		Register(recipeHandler).
		Register(productionHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
