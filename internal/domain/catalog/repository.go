package catalog

import (
	"context"

	"magazyn/internal/core/id"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	// Products

	// CreateProduct inserts a product.
	CreateProduct(ctx context.Context, p *Product) error

	// GetProduct retrieves a product by id.
	GetProduct(ctx context.Context, productID id.ID) (*Product, error)

	// UpdateProduct updates product identity fields (optimistic version check).
	UpdateProduct(ctx context.Context, p *Product) error

	// DeleteProduct removes a product and its size rows.
	DeleteProduct(ctx context.Context, productID id.ID) error

	// ListProducts returns products without deletion mark.
	ListProducts(ctx context.Context) ([]Product, error)

	// Size rows

	// CreateSize inserts a per-size stock row.
	CreateSize(ctx context.Context, ps *ProductSize) error

	// GetSize retrieves a size row by id.
	GetSize(ctx context.Context, sizeID id.ID) (*ProductSize, error)

	// GetSizeByBarcode retrieves a size row by exact barcode.
	GetSizeByBarcode(ctx context.Context, barcode string) (*ProductSize, error)

	// GetSizeForUpdate retrieves the (product, size) row with a row lock.
	// The lock serializes concurrent stock mutations on the same pair.
	GetSizeForUpdate(ctx context.Context, productID id.ID, size Size) (*ProductSize, error)

	// ListSizesByProduct returns all size rows of a product.
	ListSizesByProduct(ctx context.Context, productID id.ID) ([]ProductSize, error)

	// AdjustSizeQuantity changes the aggregate counter by delta.
	// Must be called inside the same transaction as the batch mutation.
	AdjustSizeQuantity(ctx context.Context, sizeID id.ID, delta int) error

	// SetSizeBarcode backfills a missing barcode on a size row.
	SetSizeBarcode(ctx context.Context, sizeID id.ID, barcode string) error

	// Resolution

	// ResolutionCandidates returns the denormalized candidate snapshot
	// for the resolution engine.
	ResolutionCandidates(ctx context.Context) ([]Candidate, error)
}
