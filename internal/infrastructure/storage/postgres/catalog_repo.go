package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/domain/catalog"
)

const (
	productsTable = "products"
	sizesTable    = "product_sizes"
)

var productCols = []string{
	"id", "deletion_mark", "version", "created_at", "updated_at",
	"category", "brand", "series", "color", "legacy_name",
}

var sizeCols = []string{
	"id", "product_id", "size", "quantity", "barcode",
}

// CatalogRepo implements catalog.Repository on PostgreSQL.
type CatalogRepo struct {
	txm *TxManager
}

// Compile-time check.
var _ catalog.Repository = (*CatalogRepo)(nil)

// NewCatalogRepo creates a new catalog repository.
func NewCatalogRepo(txm *TxManager) *CatalogRepo {
	return &CatalogRepo{txm: txm}
}

// builder returns a squirrel builder with PostgreSQL placeholder format.
func (r *CatalogRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateProduct inserts a product row.
func (r *CatalogRepo) CreateProduct(ctx context.Context, p *catalog.Product) error {
	q := r.builder().
		Insert(productsTable).
		Columns(productCols...).
		Values(p.ID, p.DeletionMark, p.Version, p.CreatedAt, p.UpdatedAt,
			p.Category, p.Brand, p.Series, p.Color, p.LegacyName)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetProduct retrieves a live product by ID. Size rows are not loaded.
func (r *CatalogRepo) GetProduct(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	q := r.builder().
		Select(productCols...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID, "deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p catalog.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// UpdateProduct modifies a product with optimistic locking.
func (r *CatalogRepo) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	q := r.builder().
		Update(productsTable).
		Set("category", p.Category).
		Set("brand", p.Brand).
		Set("series", p.Series).
		Set("color", p.Color).
		Set("legacy_name", p.LegacyName).
		Set("deletion_mark", p.DeletionMark).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("product was modified concurrently").
			WithDetail("id", p.ID.String())
	}
	p.Version++
	return nil
}

// DeleteProduct physically removes a product; size rows go with it via
// ON DELETE CASCADE, purchase batches block deletion via FK.
func (r *CatalogRepo) DeleteProduct(ctx context.Context, productID id.ID) error {
	q := r.builder().
		Delete(productsTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("product has stock history and cannot be deleted").
				WithDetail("id", productID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}
	return nil
}

// ListProducts returns all live products ordered by creation.
func (r *CatalogRepo) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	q := r.builder().
		Select(productCols...).
		From(productsTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []catalog.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// CreateSize inserts a size row. A duplicate barcode maps onto the
// unique-violation error.
func (r *CatalogRepo) CreateSize(ctx context.Context, ps *catalog.ProductSize) error {
	q := r.builder().
		Insert(sizesTable).
		Columns(sizeCols...).
		Values(ps.ID, ps.ProductID, ps.Size, ps.Quantity, ps.Barcode)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("product size", "barcode", ps.BarcodeValue()).
				WithCause(err)
		}
		return fmt.Errorf("insert size row: %w", err)
	}
	return nil
}

// GetSize retrieves a size row by ID.
func (r *CatalogRepo) GetSize(ctx context.Context, sizeID id.ID) (*catalog.ProductSize, error) {
	q := r.builder().
		Select(sizeCols...).
		From(sizesTable).
		Where(squirrel.Eq{"id": sizeID}).
		Limit(1)

	return r.getOneSize(ctx, q, sizeID.String())
}

// GetSizeByBarcode retrieves a size row by exact barcode.
func (r *CatalogRepo) GetSizeByBarcode(ctx context.Context, barcode string) (*catalog.ProductSize, error) {
	q := r.builder().
		Select(sizeCols...).
		From(sizesTable).
		Where(squirrel.Eq{"barcode": barcode}).
		Limit(1)

	return r.getOneSize(ctx, q, barcode)
}

// GetSizeForUpdate retrieves the size row of a (product, size) pair with a
// row lock. This lock serializes all stock movement for the pair.
func (r *CatalogRepo) GetSizeForUpdate(ctx context.Context, productID id.ID, size catalog.Size) (*catalog.ProductSize, error) {
	q := r.builder().
		Select(sizeCols...).
		From(sizesTable).
		Where(squirrel.Eq{"product_id": productID, "size": size}).
		Suffix("FOR UPDATE")

	return r.getOneSize(ctx, q, string(size))
}

func (r *CatalogRepo) getOneSize(ctx context.Context, q squirrel.SelectBuilder, key string) (*catalog.ProductSize, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ps catalog.ProductSize
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &ps, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product size", key)
		}
		return nil, fmt.Errorf("get size row: %w", err)
	}
	return &ps, nil
}

// ListSizesByProduct returns the size rows of a product.
func (r *CatalogRepo) ListSizesByProduct(ctx context.Context, productID id.ID) ([]catalog.ProductSize, error) {
	q := r.builder().
		Select(sizeCols...).
		From(sizesTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("size ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []catalog.ProductSize
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list size rows: %w", err)
	}
	return items, nil
}

// AdjustSizeQuantity moves the aggregate counter by delta. The CHECK
// constraint on quantity keeps the counter non-negative.
func (r *CatalogRepo) AdjustSizeQuantity(ctx context.Context, sizeID id.ID, delta int) error {
	q := r.builder().
		Update(sizesTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Where(squirrel.Eq{"id": sizeID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "stock counter cannot go negative").
				WithDetail("sizeId", sizeID.String()).
				WithCause(err)
		}
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product size", sizeID)
	}
	return nil
}

// SetSizeBarcode writes the barcode of a size row.
func (r *CatalogRepo) SetSizeBarcode(ctx context.Context, sizeID id.ID, barcode string) error {
	q := r.builder().
		Update(sizesTable).
		Set("barcode", barcode).
		Where(squirrel.Eq{"id": sizeID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("product size", "barcode", barcode).
				WithCause(err)
		}
		return fmt.Errorf("set barcode: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product size", sizeID)
	}
	return nil
}

// ResolutionCandidates returns the denormalized (product, size) snapshot
// for the resolution engine. Ordered by size row ID so fuzzy tie-breaks
// stay deterministic between calls.
func (r *CatalogRepo) ResolutionCandidates(ctx context.Context) ([]catalog.Candidate, error) {
	q := r.builder().
		Select(
			"ps.id AS size_id",
			"p.id AS product_id",
			"p.category",
			"p.brand",
			"p.series",
			"p.color",
			"p.legacy_name",
			"ps.size",
			"COALESCE(ps.barcode, '') AS barcode",
		).
		From(sizesTable + " ps").
		Join(productsTable + " p ON p.id = ps.product_id").
		Where(squirrel.Eq{"p.deletion_mark": false}).
		OrderBy("ps.id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []catalog.Candidate
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("resolution candidates: %w", err)
	}
	return items, nil
}
