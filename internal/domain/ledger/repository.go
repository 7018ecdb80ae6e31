package ledger

import (
	"context"
	"time"

	"magazyn/internal/core/id"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
)

// Repository defines persistence operations for batches and sales.
type Repository interface {
	// Batches

	// CreateBatch inserts a cost layer.
	CreateBatch(ctx context.Context, b *PurchaseBatch) error

	// BatchesForConsumption returns live batches (remaining > 0) for a
	// (product, size) pair ordered cheapest unit price first, ties broken
	// by earliest purchase date, locked for update.
	BatchesForConsumption(ctx context.Context, productID id.ID, size catalog.Size) ([]PurchaseBatch, error)

	// UpdateBatchRemaining sets the remaining counter of a batch.
	UpdateBatchRemaining(ctx context.Context, batchID id.ID, remaining int) error

	// DeleteBatch removes a fully depleted batch.
	DeleteBatch(ctx context.Context, batchID id.ID) error

	// UpdateBatchPrice corrects the price of a placeholder batch.
	UpdateBatchPrice(ctx context.Context, batchID id.ID, price types.Money) error

	// PlaceholderBatch finds the zero-quantity price placeholder for a
	// (product, size) created on the given day, or reports not found.
	PlaceholderBatch(ctx context.Context, productID id.ID, size catalog.Size, day time.Time) (*PurchaseBatch, error)

	// ListBatches returns all batches for a (product, size) pair.
	ListBatches(ctx context.Context, productID id.ID, size catalog.Size) ([]PurchaseBatch, error)

	// SumRemaining totals remaining quantities over live batches for a
	// (product, size) pair.
	SumRemaining(ctx context.Context, productID id.ID, size catalog.Size) (int, error)

	// Sales

	// InsertSale appends a sale row.
	InsertSale(ctx context.Context, s *Sale) error

	// ListSales returns sales within [from, to).
	ListSales(ctx context.Context, from, to time.Time) ([]Sale, error)

	// Reporting

	// StockValuation sums remaining quantity and remaining value per
	// (product, size) over live batches.
	StockValuation(ctx context.Context) ([]ValuationRow, error)
}
