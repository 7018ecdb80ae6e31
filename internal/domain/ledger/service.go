package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/core/tx"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/pkg/logger"
)

// Service provides the ledger operations: recording deliveries and
// consuming stock. Every operation runs inside one transaction so the
// aggregate counter and the batch rows move atomically.
type Service struct {
	repo      Repository
	catalog   catalog.Repository
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, catalogRepo catalog.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalogRepo,
		txManager: txManager,
	}
}

// PurchaseInput describes one recorded delivery.
type PurchaseInput struct {
	ProductID     id.ID
	Size          catalog.Size
	Quantity      int
	UnitPrice     types.Money
	PurchaseDate  time.Time
	Barcode       string
	InvoiceNumber string
	Supplier      string
}

// RecordPurchase appends a new cost layer and increments the aggregate
// stock counter, creating the ProductSize row on first delivery of a size.
// Repeated identical calls append distinct layers - deliveries are events,
// not idempotent upserts.
func (s *Service) RecordPurchase(ctx context.Context, in PurchaseInput) (*PurchaseBatch, error) {
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", in.Quantity)
	}
	if in.UnitPrice.IsNegative() {
		return nil, apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if !catalog.IsValidSize(in.Size) {
		return nil, apperror.NewValidation("invalid size").
			WithDetail("field", "size").
			WithDetail("value", string(in.Size))
	}
	if in.PurchaseDate.IsZero() {
		in.PurchaseDate = time.Now().UTC()
	}

	batch := NewPurchaseBatch(in.ProductID, in.Size, in.Quantity, in.UnitPrice, in.PurchaseDate)
	batch.Barcode = in.Barcode
	batch.InvoiceNumber = in.InvoiceNumber
	batch.Supplier = in.Supplier

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ps, err := s.catalog.GetSizeForUpdate(ctx, in.ProductID, in.Size)
		if err != nil {
			if !apperror.IsNotFound(err) {
				return fmt.Errorf("lock size row: %w", err)
			}
			// First delivery of this size: create the stock row.
			ps = catalog.NewProductSize(in.ProductID, in.Size)
			if in.Barcode != "" {
				barcode := in.Barcode
				ps.Barcode = &barcode
			}
			if err := s.catalog.CreateSize(ctx, ps); err != nil {
				return fmt.Errorf("create size row: %w", err)
			}
		}

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}

		if err := s.catalog.AdjustSizeQuantity(ctx, ps.ID, in.Quantity); err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase recorded",
		"product_id", in.ProductID,
		"size", in.Size,
		"quantity", in.Quantity,
		"unit_price", in.UnitPrice,
		"invoice", in.InvoiceNumber)

	return batch, nil
}

// ConsumeStock depletes up to requested units for a (product, size) pair
// and returns how many were actually consumed. Requesting more than is
// available is not an error: the engine consumes what exists and reports
// the lesser amount; callers needing strict fills compare the result to
// the request themselves.
//
// Batches are drawn cheapest unit price first, ties by earliest purchase
// date. The aggregate counter, the batch rows, and the emitted Sale row
// move in one transaction.
func (s *Service) ConsumeStock(ctx context.Context, productID id.ID, size catalog.Size, requested int, saleCtx SaleContext) (int, error) {
	if requested <= 0 {
		return 0, apperror.NewValidation("requested quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", requested)
	}
	if saleCtx.SaleDate.IsZero() {
		saleCtx.SaleDate = time.Now().UTC()
	}

	consumed := 0
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ps, err := s.catalog.GetSizeForUpdate(ctx, productID, size)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil // nothing on hand, consume zero
			}
			return fmt.Errorf("lock size row: %w", err)
		}

		toConsume := requested
		if ps.Quantity < toConsume {
			toConsume = ps.Quantity
		}
		if toConsume == 0 {
			return nil
		}

		batches, err := s.repo.BatchesForConsumption(ctx, productID, size)
		if err != nil {
			return fmt.Errorf("load batches: %w", err)
		}

		still := toConsume
		totalCost := decimal.Zero
		for i := range batches {
			if still == 0 {
				break
			}
			b := &batches[i]
			use := b.Remaining
			if use > still {
				use = still
			}
			totalCost = totalCost.Add(b.Price.Mul(decimal.NewFromInt(int64(use))))

			if b.Remaining == use {
				if err := s.repo.DeleteBatch(ctx, b.ID); err != nil {
					return fmt.Errorf("delete depleted batch: %w", err)
				}
			} else {
				if err := s.repo.UpdateBatchRemaining(ctx, b.ID, b.Remaining-use); err != nil {
					return fmt.Errorf("decrement batch: %w", err)
				}
			}
			still -= use
		}

		if still > 0 {
			// Aggregate counter ahead of batch rows; consume what the
			// batches actually covered and let the counter re-converge.
			logger.Warn(ctx, "batch ledger short of aggregate counter",
				"product_id", productID,
				"size", size,
				"uncovered", still)
			toConsume -= still
			if toConsume == 0 {
				return nil
			}
		}

		sale := &Sale{
			ID:            id.New(),
			ProductID:     productID,
			Size:          size,
			Quantity:      toConsume,
			SaleDate:      saleCtx.SaleDate,
			PurchaseCost:  types.WeightedUnitCost(totalCost, toConsume),
			SalePrice:     saleCtx.SalePrice,
			ShippingCost:  saleCtx.ShippingCost,
			CommissionFee: saleCtx.CommissionFee,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.repo.InsertSale(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		if err := s.catalog.AdjustSizeQuantity(ctx, ps.ID, -toConsume); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		consumed = toConsume
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "stock consumed",
		"product_id", productID,
		"size", size,
		"requested", requested,
		"consumed", consumed)

	return consumed, nil
}

// SetCurrentPrice records a purchase price outside a delivery. If a
// zero-quantity placeholder batch for the (product, size) pair dated today
// already exists, its price is corrected in place; otherwise a new
// placeholder is created. Placeholders never participate in consumption.
func (s *Service) SetCurrentPrice(ctx context.Context, productID id.ID, size catalog.Size, price types.Money) error {
	if price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.PlaceholderBatch(ctx, productID, size, today)
		if err != nil {
			if !apperror.IsNotFound(err) {
				return fmt.Errorf("find placeholder: %w", err)
			}
			placeholder := NewPurchaseBatch(productID, size, 0, price, today)
			if err := s.repo.CreateBatch(ctx, placeholder); err != nil {
				return fmt.Errorf("create placeholder: %w", err)
			}
			return nil
		}
		return s.repo.UpdateBatchPrice(ctx, existing.ID, price)
	})
}

// Batches lists the cost layers of a (product, size) pair.
func (s *Service) Batches(ctx context.Context, productID id.ID, size catalog.Size) ([]PurchaseBatch, error) {
	if !catalog.IsValidSize(size) {
		return nil, apperror.NewValidation("invalid size").
			WithDetail("field", "size").
			WithDetail("value", string(size))
	}
	return s.repo.ListBatches(ctx, productID, size)
}

// StockValuation returns on-hand counts and remaining-batch value per
// (product, size).
func (s *Service) StockValuation(ctx context.Context) ([]ValuationRow, error) {
	return s.repo.StockValuation(ctx)
}

// SalesBetween lists sales within [from, to) for reporting.
func (s *Service) SalesBetween(ctx context.Context, from, to time.Time) ([]Sale, error) {
	return s.repo.ListSales(ctx, from, to)
}
