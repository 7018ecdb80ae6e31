// Package catalog provides the product catalog: Product records and their
// per-size stock rows (Справочник here is a flat list, no hierarchy).
package catalog

import (
	"context"
	"strings"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/entity"
	"magazyn/internal/core/id"
)

// Known product categories. Category is an open string; these are the
// values produced by name-based detection.
const (
	CategoryHarness = "Szelki"
	CategoryLeash   = "Smycz"
	CategoryCollar  = "Obroża"
)

// Size is the per-size dimension of a product.
type Size string

const (
	SizeXS        Size = "XS"
	SizeS         Size = "S"
	SizeM         Size = "M"
	SizeL         Size = "L"
	SizeXL        Size = "XL"
	Size2XL       Size = "2XL"
	Size3XL       Size = "3XL"
	SizeUniversal Size = "Uniwersalny"
)

// NormalizeSize maps vendor size spellings onto the canonical set.
// XXL and XXXL are aliases used on supplier invoices.
func NormalizeSize(s string) Size {
	up := strings.ToUpper(strings.TrimSpace(s))
	switch up {
	case "XXL":
		return Size2XL
	case "XXXL":
		return Size3XL
	case "UNIWERSALNY", "UNI":
		return SizeUniversal
	}
	return Size(up)
}

// IsValidSize reports whether s is one of the canonical sizes.
func IsValidSize(s Size) bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, Size2XL, Size3XL, SizeUniversal:
		return true
	}
	return false
}

// Product represents a catalog product identified by structured fields.
// A legacy free-text Name may exist for rows not yet migrated to the
// structured form.
type Product struct {
	entity.Base

	// Category: Szelki, Smycz, Obroża, ...
	Category string `db:"category" json:"category"`

	// Brand name (e.g. Truelove)
	Brand string `db:"brand" json:"brand"`

	// Series is the model series within the brand (optional)
	Series string `db:"series" json:"series,omitempty"`

	// Color in Polish (czarny, czerwony, ...)
	Color string `db:"color" json:"color"`

	// LegacyName is the free-text name for unmigrated rows
	LegacyName string `db:"legacy_name" json:"legacyName,omitempty"`

	// Sizes are the per-size stock rows (loaded on demand)
	Sizes []ProductSize `db:"-" json:"sizes,omitempty"`
}

// NewProduct creates a product with structured identity fields.
func NewProduct(category, brand, series, color string) *Product {
	return &Product{
		Base:     entity.NewBase(),
		Category: category,
		Brand:    brand,
		Series:   series,
		Color:    color,
	}
}

// DisplayName composes a human-readable name from structured fields,
// falling back to the legacy free-text name.
func (p *Product) DisplayName() string {
	if p.Category == "" && p.LegacyName != "" {
		return p.LegacyName
	}
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Category, p.Brand, p.Series, p.Color} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Category == "" && p.LegacyName == "" {
		return apperror.NewValidation("category or legacy name is required").
			WithDetail("field", "category")
	}
	return nil
}

// ProductSize is the per-size stock row of a product.
// Quantity is the aggregate on-hand count; it always equals the sum of
// remaining quantities over live purchase batches for this (product, size).
type ProductSize struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// ProductID references the owning product
	ProductID id.ID `db:"product_id" json:"productId"`

	// Size dimension
	Size Size `db:"size" json:"size"`

	// Quantity is the aggregate on-hand count (never negative)
	Quantity int `db:"quantity" json:"quantity"`

	// Barcode is the scanned EAN code, globally unique, optional
	Barcode *string `db:"barcode" json:"barcode,omitempty"`
}

// NewProductSize creates a stock row for a product.
func NewProductSize(productID id.ID, size Size) *ProductSize {
	return &ProductSize{
		ID:        id.New(),
		ProductID: productID,
		Size:      size,
	}
}

// Validate implements entity.Validatable.
func (ps *ProductSize) Validate(ctx context.Context) error {
	if id.IsNil(ps.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !IsValidSize(ps.Size) {
		return apperror.NewValidation("invalid size").
			WithDetail("field", "size").
			WithDetail("value", string(ps.Size))
	}
	if ps.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	return nil
}

// BarcodeValue returns the barcode or empty string.
func (ps *ProductSize) BarcodeValue() string {
	if ps.Barcode == nil {
		return ""
	}
	return *ps.Barcode
}

// Candidate is a denormalized (product, size) row handed to the resolution
// engine. It is a read-only snapshot; the resolver never mutates state.
type Candidate struct {
	SizeID     id.ID  `db:"size_id" json:"sizeId"`
	ProductID  id.ID  `db:"product_id" json:"productId"`
	Category   string `db:"category" json:"category"`
	Brand      string `db:"brand" json:"brand"`
	Series     string `db:"series" json:"series"`
	Color      string `db:"color" json:"color"`
	LegacyName string `db:"legacy_name" json:"legacyName"`
	Size       Size   `db:"size" json:"size"`
	Barcode    string `db:"barcode" json:"barcode"`
}

// Name returns the text the fuzzy matcher scores against: the legacy
// free-text name when present, otherwise the composed structured name.
func (c Candidate) Name() string {
	if c.LegacyName != "" {
		return c.LegacyName
	}
	parts := make([]string, 0, 4)
	for _, s := range []string{c.Category, c.Brand, c.Series, c.Color} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
