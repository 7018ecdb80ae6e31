package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/ledger"
)

const (
	batchesTable = "purchase_batches"
	salesTable   = "sales"
)

var batchCols = []string{
	"id", "product_id", "size", "quantity", "remaining_quantity",
	"price", "purchase_date", "barcode", "invoice_number", "supplier",
	"created_at",
}

var saleCols = []string{
	"id", "product_id", "size", "quantity", "sale_date",
	"purchase_cost", "sale_price", "shipping_cost", "commission_fee",
	"created_at",
}

// LedgerRepo implements ledger.Repository on PostgreSQL.
type LedgerRepo struct {
	txm *TxManager
}

// Compile-time check.
var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{txm: txm}
}

func (r *LedgerRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateBatch inserts a cost layer.
func (r *LedgerRepo) CreateBatch(ctx context.Context, b *ledger.PurchaseBatch) error {
	q := r.builder().
		Insert(batchesTable).
		Columns(batchCols...).
		Values(b.ID, b.ProductID, b.Size, b.Quantity, b.Remaining,
			b.Price, b.PurchaseDate, b.Barcode, b.InvoiceNumber, b.Supplier,
			b.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// BatchesForConsumption returns live batches for a (product, size) pair,
// cheapest unit price first, ties by earliest purchase date, locked for
// the duration of the consuming transaction.
func (r *LedgerRepo) BatchesForConsumption(ctx context.Context, productID id.ID, size catalog.Size) ([]ledger.PurchaseBatch, error) {
	q := r.builder().
		Select(batchCols...).
		From(batchesTable).
		Where(squirrel.Eq{"product_id": productID, "size": size}).
		Where(squirrel.Gt{"remaining_quantity": 0}).
		OrderBy("price ASC", "purchase_date ASC", "created_at ASC").
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []ledger.PurchaseBatch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("batches for consumption: %w", err)
	}
	return items, nil
}

// UpdateBatchRemaining sets the remaining counter of a batch.
func (r *LedgerRepo) UpdateBatchRemaining(ctx context.Context, batchID id.ID, remaining int) error {
	q := r.builder().
		Update(batchesTable).
		Set("remaining_quantity", remaining).
		Where(squirrel.Eq{"id": batchID})

	return r.execOne(ctx, q.ToSql, "purchase batch", batchID)
}

// DeleteBatch removes a fully depleted batch.
func (r *LedgerRepo) DeleteBatch(ctx context.Context, batchID id.ID) error {
	q := r.builder().
		Delete(batchesTable).
		Where(squirrel.Eq{"id": batchID})

	return r.execOne(ctx, q.ToSql, "purchase batch", batchID)
}

// UpdateBatchPrice corrects the price of a batch.
func (r *LedgerRepo) UpdateBatchPrice(ctx context.Context, batchID id.ID, price types.Money) error {
	q := r.builder().
		Update(batchesTable).
		Set("price", price).
		Where(squirrel.Eq{"id": batchID})

	return r.execOne(ctx, q.ToSql, "purchase batch", batchID)
}

// PlaceholderBatch finds the zero-quantity price placeholder for a
// (product, size) pair created on the given day.
func (r *LedgerRepo) PlaceholderBatch(ctx context.Context, productID id.ID, size catalog.Size, day time.Time) (*ledger.PurchaseBatch, error) {
	dayUTC := day.UTC().Truncate(24 * time.Hour)

	q := r.builder().
		Select(batchCols...).
		From(batchesTable).
		Where(squirrel.Eq{"product_id": productID, "size": size, "quantity": 0}).
		Where(squirrel.Expr("date_trunc('day', purchase_date AT TIME ZONE 'UTC') = ?", dayUTC)).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b ledger.PurchaseBatch
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("placeholder batch", string(size))
		}
		return nil, fmt.Errorf("placeholder batch: %w", err)
	}
	return &b, nil
}

// ListBatches returns all batches for a (product, size) pair.
func (r *LedgerRepo) ListBatches(ctx context.Context, productID id.ID, size catalog.Size) ([]ledger.PurchaseBatch, error) {
	q := r.builder().
		Select(batchCols...).
		From(batchesTable).
		Where(squirrel.Eq{"product_id": productID, "size": size}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []ledger.PurchaseBatch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return items, nil
}

// SumRemaining totals remaining quantities over batches of a pair.
func (r *LedgerRepo) SumRemaining(ctx context.Context, productID id.ID, size catalog.Size) (int, error) {
	q := r.builder().
		Select("COALESCE(SUM(remaining_quantity), 0)").
		From(batchesTable).
		Where(squirrel.Eq{"product_id": productID, "size": size})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum remaining: %w", err)
	}
	return total, nil
}

// InsertSale appends a sale row.
func (r *LedgerRepo) InsertSale(ctx context.Context, s *ledger.Sale) error {
	q := r.builder().
		Insert(salesTable).
		Columns(saleCols...).
		Values(s.ID, s.ProductID, s.Size, s.Quantity, s.SaleDate,
			s.PurchaseCost, s.SalePrice, s.ShippingCost, s.CommissionFee,
			s.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// ListSales returns sales within [from, to).
func (r *LedgerRepo) ListSales(ctx context.Context, from, to time.Time) ([]ledger.Sale, error) {
	q := r.builder().
		Select(saleCols...).
		From(salesTable).
		Where(squirrel.GtOrEq{"sale_date": from}).
		Where(squirrel.Lt{"sale_date": to}).
		OrderBy("sale_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []ledger.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return items, nil
}

// StockValuation sums on-hand counts and remaining value per (product, size).
func (r *LedgerRepo) StockValuation(ctx context.Context) ([]ledger.ValuationRow, error) {
	q := r.builder().
		Select(
			"product_id",
			"size",
			"SUM(remaining_quantity) AS on_hand",
			"SUM(remaining_quantity * price) AS value",
		).
		From(batchesTable).
		Where(squirrel.Gt{"remaining_quantity": 0}).
		GroupBy("product_id", "size").
		OrderBy("product_id ASC", "size ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []ledger.ValuationRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("stock valuation: %w", err)
	}
	return items, nil
}

// execOne runs a statement expected to affect exactly one row.
func (r *LedgerRepo) execOne(ctx context.Context, toSQL func() (string, []any, error), entity string, entityID id.ID) error {
	sql, args, err := toSQL()
	if err != nil {
		return fmt.Errorf("build statement: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute statement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(entity, entityID)
	}
	return nil
}
