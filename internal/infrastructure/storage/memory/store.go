// Package memory provides in-memory implementations of the catalog and
// ledger repositories. Used by tests and the seed tool; not safe across
// processes, but safe for concurrent use within one.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/ledger"
)

// TxManager is a no-op transaction manager for the memory store.
// The store's own mutex is the serialization point.
type TxManager struct{}

// RunInTransaction executes fn directly.
func (TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Store holds catalog and ledger state behind one mutex.
type Store struct {
	mu sync.Mutex

	products map[id.ID]*catalog.Product
	sizes    map[id.ID]*catalog.ProductSize
	barcodes map[string]id.ID // barcode -> size id

	batches map[id.ID]*ledger.PurchaseBatch
	sales   []ledger.Sale
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products: make(map[id.ID]*catalog.Product),
		sizes:    make(map[id.ID]*catalog.ProductSize),
		barcodes: make(map[string]id.ID),
		batches:  make(map[id.ID]*ledger.PurchaseBatch),
	}
}

// --- catalog.Repository ---

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.Sizes = nil
	s.products[p.ID] = &cp
	return nil
}

func (s *Store) GetProduct(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok || p.DeletionMark {
		return nil, apperror.NewNotFound("product", productID)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID)
	}
	if existing.Version != p.Version {
		return apperror.NewConflict("product was modified concurrently")
	}
	cp := *p
	cp.Sizes = nil
	cp.Touch()
	s.products[p.ID] = &cp
	p.Version = cp.Version
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, productID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return apperror.NewNotFound("product", productID)
	}
	delete(s.products, productID)
	for sizeID, ps := range s.sizes {
		if ps.ProductID == productID {
			if ps.Barcode != nil {
				delete(s.barcodes, *ps.Barcode)
			}
			delete(s.sizes, sizeID)
		}
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.DeletionMark {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) CreateSize(ctx context.Context, ps *catalog.ProductSize) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ps.Barcode != nil && *ps.Barcode != "" {
		if _, taken := s.barcodes[*ps.Barcode]; taken {
			return apperror.NewDuplicate("product size", "barcode", *ps.Barcode)
		}
		s.barcodes[*ps.Barcode] = ps.ID
	}
	cp := *ps
	s.sizes[ps.ID] = &cp
	return nil
}

func (s *Store) GetSize(ctx context.Context, sizeID id.ID) (*catalog.ProductSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.sizes[sizeID]
	if !ok {
		return nil, apperror.NewNotFound("product size", sizeID)
	}
	cp := *ps
	return &cp, nil
}

func (s *Store) GetSizeByBarcode(ctx context.Context, barcode string) (*catalog.ProductSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sizeID, ok := s.barcodes[barcode]
	if !ok {
		return nil, apperror.NewNotFound("product size", barcode)
	}
	cp := *s.sizes[sizeID]
	return &cp, nil
}

func (s *Store) GetSizeForUpdate(ctx context.Context, productID id.ID, size catalog.Size) (*catalog.ProductSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ps := range s.sizes {
		if ps.ProductID == productID && ps.Size == size {
			cp := *ps
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("product size", string(size))
}

func (s *Store) ListSizesByProduct(ctx context.Context, productID id.ID) ([]catalog.ProductSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []catalog.ProductSize
	for _, ps := range s.sizes {
		if ps.ProductID == productID {
			out = append(out, *ps)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Size < out[j].Size
	})
	return out, nil
}

func (s *Store) AdjustSizeQuantity(ctx context.Context, sizeID id.ID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.sizes[sizeID]
	if !ok {
		return apperror.NewNotFound("product size", sizeID)
	}
	if ps.Quantity+delta < 0 {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "stock counter cannot go negative")
	}
	ps.Quantity += delta
	return nil
}

func (s *Store) SetSizeBarcode(ctx context.Context, sizeID id.ID, barcode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.sizes[sizeID]
	if !ok {
		return apperror.NewNotFound("product size", sizeID)
	}
	if owner, taken := s.barcodes[barcode]; taken && owner != sizeID {
		return apperror.NewDuplicate("product size", "barcode", barcode)
	}
	if ps.Barcode != nil {
		delete(s.barcodes, *ps.Barcode)
	}
	ps.Barcode = &barcode
	s.barcodes[barcode] = sizeID
	return nil
}

func (s *Store) ResolutionCandidates(ctx context.Context) ([]catalog.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Candidate, 0, len(s.sizes))
	for _, ps := range s.sizes {
		p, ok := s.products[ps.ProductID]
		if !ok || p.DeletionMark {
			continue
		}
		c := catalog.Candidate{
			SizeID:     ps.ID,
			ProductID:  p.ID,
			Category:   p.Category,
			Brand:      p.Brand,
			Series:     p.Series,
			Color:      p.Color,
			LegacyName: p.LegacyName,
			Size:       ps.Size,
		}
		if ps.Barcode != nil {
			c.Barcode = *ps.Barcode
		}
		out = append(out, c)
	}
	// Stable iteration order: resolution tie-breaks depend on it.
	sort.Slice(out, func(i, j int) bool {
		return out[i].SizeID.String() < out[j].SizeID.String()
	})
	return out, nil
}

// --- ledger.Repository ---

func (s *Store) CreateBatch(ctx context.Context, b *ledger.PurchaseBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.batches[b.ID] = &cp
	return nil
}

func (s *Store) BatchesForConsumption(ctx context.Context, productID id.ID, size catalog.Size) ([]ledger.PurchaseBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.PurchaseBatch
	for _, b := range s.batches {
		if b.ProductID == productID && b.Size == size && b.Remaining > 0 {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Price.Equal(out[j].Price) {
			return out[i].Price.LessThan(out[j].Price)
		}
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.Before(out[j].PurchaseDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateBatchRemaining(ctx context.Context, batchID id.ID, remaining int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[batchID]
	if !ok {
		return apperror.NewNotFound("purchase batch", batchID)
	}
	if remaining < 0 || remaining > b.Quantity {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "remaining out of range")
	}
	b.Remaining = remaining
	return nil
}

func (s *Store) DeleteBatch(ctx context.Context, batchID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.batches[batchID]; !ok {
		return apperror.NewNotFound("purchase batch", batchID)
	}
	delete(s.batches, batchID)
	return nil
}

func (s *Store) UpdateBatchPrice(ctx context.Context, batchID id.ID, price types.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[batchID]
	if !ok {
		return apperror.NewNotFound("purchase batch", batchID)
	}
	b.Price = price
	return nil
}

func (s *Store) PlaceholderBatch(ctx context.Context, productID id.ID, size catalog.Size, day time.Time) (*ledger.PurchaseBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dayUTC := day.UTC().Truncate(24 * time.Hour)
	for _, b := range s.batches {
		if b.ProductID == productID && b.Size == size && b.Quantity == 0 &&
			b.PurchaseDate.UTC().Truncate(24*time.Hour).Equal(dayUTC) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("placeholder batch", string(size))
}

func (s *Store) ListBatches(ctx context.Context, productID id.ID, size catalog.Size) ([]ledger.PurchaseBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.PurchaseBatch
	for _, b := range s.batches {
		if b.ProductID == productID && b.Size == size {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) SumRemaining(ctx context.Context, productID id.ID, size catalog.Size) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, b := range s.batches {
		if b.ProductID == productID && b.Size == size {
			total += b.Remaining
		}
	}
	return total, nil
}

func (s *Store) InsertSale(ctx context.Context, sale *ledger.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = append(s.sales, *sale)
	return nil
}

func (s *Store) ListSales(ctx context.Context, from, to time.Time) ([]ledger.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.Sale
	for _, sale := range s.sales {
		if !sale.SaleDate.Before(from) && sale.SaleDate.Before(to) {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *Store) StockValuation(ctx context.Context) ([]ledger.ValuationRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		productID id.ID
		size      catalog.Size
	}
	agg := make(map[key]*ledger.ValuationRow)
	for _, b := range s.batches {
		if b.Remaining == 0 {
			continue
		}
		k := key{b.ProductID, b.Size}
		row, ok := agg[k]
		if !ok {
			row = &ledger.ValuationRow{ProductID: b.ProductID, Size: b.Size, Value: types.Zero()}
			agg[k] = row
		}
		row.OnHand += b.Remaining
		row.Value = row.Value.Add(b.Price.Mul(decimalFromInt(b.Remaining)))
	}

	out := make([]ledger.ValuationRow, 0, len(agg))
	for _, row := range agg {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID.String() < out[j].ProductID.String()
		}
		return out[i].Size < out[j].Size
	})
	return out, nil
}

func decimalFromInt(v int) types.Money {
	return types.NewMoney(float64(v))
}

// Interface compliance checks.
var (
	_ catalog.Repository = (*Store)(nil)
	_ ledger.Repository  = (*Store)(nil)
)
