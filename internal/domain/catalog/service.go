package catalog

import (
	"context"
	"fmt"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/core/tx"
	"magazyn/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new catalog service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// CreateProduct validates and persists a product with its size rows.
func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	for i := range p.Sizes {
		p.Sizes[i].ProductID = p.ID
		if err := p.Sizes[i].Validate(ctx); err != nil {
			return err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		for i := range p.Sizes {
			if err := s.repo.CreateSize(ctx, &p.Sizes[i]); err != nil {
				return fmt.Errorf("create size row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created",
		"id", p.ID,
		"name", p.DisplayName(),
		"sizes", len(p.Sizes))

	return nil
}

// GetProduct retrieves a product with its size rows.
func (s *Service) GetProduct(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	sizes, err := s.repo.ListSizesByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	p.Sizes = sizes

	return p, nil
}

// ListProducts returns all live products.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

// DeleteProduct removes a product and its size rows.
// Size rows are deleted only through explicit product deletion.
func (s *Service) DeleteProduct(ctx context.Context, productID id.ID) error {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteProduct(ctx, productID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product deleted", "id", productID)
	return nil
}

// AddSize creates a size row for an existing product.
func (s *Service) AddSize(ctx context.Context, productID id.ID, size Size, barcode string) (*ProductSize, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	ps := NewProductSize(productID, size)
	if barcode != "" {
		ps.Barcode = &barcode
	}
	if err := ps.Validate(ctx); err != nil {
		return nil, err
	}

	if barcode != "" {
		if existing, err := s.repo.GetSizeByBarcode(ctx, barcode); err == nil && existing != nil {
			return nil, apperror.NewDuplicate("product size", "barcode", barcode)
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateSize(ctx, ps)
	})
	if err != nil {
		return nil, err
	}

	return ps, nil
}

// FindByBarcode looks up a size row by exact barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*ProductSize, error) {
	if barcode == "" {
		return nil, apperror.NewValidation("barcode is required").
			WithDetail("field", "barcode")
	}
	return s.repo.GetSizeByBarcode(ctx, barcode)
}
