// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/fulfillment"
	"magazyn/internal/domain/invoice"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/domain/match"
	"magazyn/internal/infrastructure/http/v1/handlers"
	"magazyn/internal/infrastructure/http/v1/middleware"
	"magazyn/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client // optional, for health checks only
	Logger      *logger.Logger

	CatalogService     *catalog.Service
	LedgerService      *ledger.Service
	Importer           *invoice.Importer
	FulfillmentService *fulfillment.Service
	Candidates         invoice.CandidateSource
	MatchConfig        match.Config
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.RedisClient)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		// --- CATALOG ---
		productHandler := handlers.NewProductHandler(base, cfg.CatalogService)
		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.POST("/products", productHandler.Create)
			catalogGroup.GET("/products", productHandler.List)
			catalogGroup.GET("/products/:id", productHandler.Get)
			catalogGroup.DELETE("/products/:id", productHandler.Delete)
			catalogGroup.POST("/products/:id/sizes", productHandler.AddSize)
			catalogGroup.GET("/barcodes/:barcode", productHandler.GetByBarcode)
		}

		// --- STOCK ---
		stockHandler := handlers.NewStockHandler(base, cfg.LedgerService)
		stockGroup := api.Group("/stock")
		{
			stockGroup.POST("/purchases", stockHandler.RecordPurchase)
			stockGroup.POST("/consumptions", stockHandler.Consume)
			stockGroup.POST("/prices", stockHandler.SetPrice)
			stockGroup.GET("/batches", stockHandler.ListBatches)
		}

		// --- INVOICE IMPORT ---
		invoiceHandler := handlers.NewInvoiceHandler(base, cfg.Importer, cfg.Candidates, cfg.MatchConfig)
		invoiceGroup := api.Group("/invoices")
		{
			invoiceGroup.POST("/import", invoiceHandler.Import)
			invoiceGroup.POST("/resolve", invoiceHandler.Resolve)
		}

		// --- ORDERS ---
		orderHandler := handlers.NewOrderHandler(base, cfg.FulfillmentService)
		api.POST("/orders/fulfill", orderHandler.Fulfill)

		// --- REPORTS ---
		reportsHandler := handlers.NewReportsHandler(base, cfg.LedgerService)
		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("/stock-valuation", reportsHandler.StockValuation)
			reportsGroup.GET("/sales", reportsHandler.Sales)
		}
	}

	return router
}
