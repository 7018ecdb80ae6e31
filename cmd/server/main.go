// Package main is the entry point for the magazyn API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/fulfillment"
	"magazyn/internal/domain/invoice"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/domain/match"
	"magazyn/internal/infrastructure/cache"
	v1 "magazyn/internal/infrastructure/http/v1"
	"magazyn/internal/infrastructure/storage/postgres"
	"magazyn/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting magazyn server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	catalogRepo := postgres.NewCatalogRepo(txManager)
	ledgerRepo := postgres.NewLedgerRepo(txManager)

	// --- Candidate cache (optional Redis) ---
	var candidates invoice.CandidateSource
	var redisClient *redis.Client
	if redisURL := getEnv("REDIS_URL", ""); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalw("invalid REDIS_URL", "error", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnw("redis unreachable, candidate cache degraded", "error", err)
		}
		candidates = cache.NewRedisCandidates(redisClient, catalogRepo,
			getEnvDuration("CANDIDATE_CACHE_TTL", time.Minute))
		log.Info("candidate cache enabled")
	} else {
		candidates = cache.NewDirectCandidates(catalogRepo)
	}

	// --- Services ---
	matchCfg := match.DefaultConfig()
	catalogService := catalog.NewService(catalogRepo, txManager)
	ledgerService := ledger.NewService(ledgerRepo, catalogRepo, txManager)
	importer := invoice.NewImporter(catalogRepo, ledgerService, candidates, matchCfg)
	fulfillmentService := fulfillment.NewService(catalogRepo, ledgerService, candidates, matchCfg,
		getEnvFloat("MARKETPLACE_COMMISSION_PCT", 11.5))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool.Pool,
		RedisClient:        redisClient,
		Logger:             log,
		CatalogService:     catalogService,
		LedgerService:      ledgerService,
		Importer:           importer,
		FulfillmentService: fulfillmentService,
		Candidates:         candidates,
		MatchConfig:        matchCfg,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
