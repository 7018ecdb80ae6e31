// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/infrastructure/storage/postgres"
	"magazyn/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	catalogRepo := postgres.NewCatalogRepo(txManager)
	ledgerRepo := postgres.NewLedgerRepo(txManager)
	catalogService := catalog.NewService(catalogRepo, txManager)
	ledgerService := ledger.NewService(ledgerRepo, catalogRepo, txManager)

	if err := seedDemoCatalog(ctx, catalogService, ledgerService, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

type demoProduct struct {
	category string
	brand    string
	series   string
	color    string

	size    catalog.Size
	barcode string
	qty     int
	price   string
}

func seedDemoCatalog(ctx context.Context, catalogService *catalog.Service, ledgerService *ledger.Service, log *logger.Logger) error {
	demo := []demoProduct{
		{catalog.CategoryHarness, "Truelove", "front line", "czarny", catalog.SizeM, "5901234123457", 12, "24.50"},
		{catalog.CategoryHarness, "Truelove", "front line premium", "czerwony", catalog.SizeXL, "5901234123464", 6, "31.00"},
		{catalog.CategoryHarness, "Truelove", "blossom", "różowy", catalog.SizeS, "5901234123471", 8, "26.90"},
		{catalog.CategoryLeash, "Truelove", "lumen", "niebieski", catalog.SizeUniversal, "5901234123488", 15, "14.20"},
		{catalog.CategoryCollar, "Truelove", "adventure", "zielony", catalog.SizeL, "5901234123495", 10, "11.80"},
	}

	for _, d := range demo {
		product := catalog.NewProduct(d.category, d.brand, d.series, d.color)
		if err := catalogService.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("create product %s: %w", product.DisplayName(), err)
		}

		_, err := ledgerService.RecordPurchase(ctx, ledger.PurchaseInput{
			ProductID:     product.ID,
			Size:          d.size,
			Quantity:      d.qty,
			UnitPrice:     types.MustMoney(d.price),
			PurchaseDate:  time.Now().UTC().AddDate(0, 0, -14),
			Barcode:       d.barcode,
			InvoiceNumber: "SEED/0001",
			Supplier:      d.brand,
		})
		if err != nil {
			return fmt.Errorf("record opening stock for %s: %w", product.DisplayName(), err)
		}

		log.Infow("seeded product",
			"name", product.DisplayName(),
			"size", d.size,
			"quantity", d.qty,
		)
	}

	return nil
}
