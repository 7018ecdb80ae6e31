package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magazyn/internal/core/id"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/infrastructure/storage/memory"
)

func newFixture(t *testing.T) (*ledger.Service, *memory.Store, id.ID) {
	t.Helper()
	store := memory.NewStore()
	svc := ledger.NewService(store, store, memory.TxManager{})

	product := catalog.NewProduct(catalog.CategoryHarness, "Truelove", "front line", "czarny")
	require.NoError(t, store.CreateProduct(context.Background(), product))
	return svc, store, product.ID
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecordPurchaseCreatesSizeRowAndLayer(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	batch, err := svc.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID:     productID,
		Size:          catalog.SizeM,
		Quantity:      10,
		UnitPrice:     types.MustMoney("24.50"),
		PurchaseDate:  day("2024-03-01"),
		Barcode:       "5901234123457",
		InvoiceNumber: "FV/2024/03/17",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, batch.Remaining)

	ps, err := store.GetSizeForUpdate(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	assert.Equal(t, 10, ps.Quantity)
	assert.Equal(t, "5901234123457", ps.BarcodeValue())

	sum, err := store.SumRemaining(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	assert.Equal(t, ps.Quantity, sum)
}

func TestRecordPurchaseIsNotIdempotent(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	in := ledger.PurchaseInput{
		ProductID: productID,
		Size:      catalog.SizeL,
		Quantity:  5,
		UnitPrice: types.MustMoney("20.00"),
	}
	_, err := svc.RecordPurchase(ctx, in)
	require.NoError(t, err)
	_, err = svc.RecordPurchase(ctx, in)
	require.NoError(t, err)

	batches, err := store.ListBatches(ctx, productID, catalog.SizeL)
	require.NoError(t, err)
	assert.Len(t, batches, 2, "identical deliveries must create distinct layers")

	ps, err := store.GetSizeForUpdate(ctx, productID, catalog.SizeL)
	require.NoError(t, err)
	assert.Equal(t, 10, ps.Quantity)
}

func TestRecordPurchaseValidation(t *testing.T) {
	svc, _, productID := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ledger.PurchaseInput
	}{
		{
			name: "zero quantity",
			in:   ledger.PurchaseInput{ProductID: productID, Size: catalog.SizeM, Quantity: 0, UnitPrice: types.MustMoney("10")},
		},
		{
			name: "negative price",
			in:   ledger.PurchaseInput{ProductID: productID, Size: catalog.SizeM, Quantity: 1, UnitPrice: types.MustMoney("-0.01")},
		},
		{
			name: "unknown size",
			in:   ledger.PurchaseInput{ProductID: productID, Size: "XXS", Quantity: 1, UnitPrice: types.MustMoney("10")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPurchase(ctx, tt.in)
			assert.Error(t, err)
		})
	}
}

func TestConsumeStockCheapestFirst(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	// Three layers bought in this order: 7 @ 12.00, 5 @ 8.00, 6 @ 10.00.
	// Consumption must drain the 8.00 layer before touching 10.00 or 12.00,
	// regardless of arrival order.
	for _, l := range []struct {
		qty   int
		price string
		date  string
	}{
		{7, "12.00", "2024-01-10"},
		{5, "8.00", "2024-02-10"},
		{6, "10.00", "2024-03-10"},
	} {
		_, err := svc.RecordPurchase(ctx, ledger.PurchaseInput{
			ProductID:    productID,
			Size:         catalog.SizeM,
			Quantity:     l.qty,
			UnitPrice:    types.MustMoney(l.price),
			PurchaseDate: day(l.date),
		})
		require.NoError(t, err)
	}

	consumed, err := svc.ConsumeStock(ctx, productID, catalog.SizeM, 8, ledger.SaleContext{
		SalePrice: types.MustMoney("49.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, consumed)

	// 5 @ 8.00 fully drained, 3 @ 10.00 partially.
	batches, err := store.ListBatches(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	remainingByPrice := map[string]int{}
	for _, b := range batches {
		remainingByPrice[b.Price.StringFixed(2)] = b.Remaining
	}
	assert.Equal(t, map[string]int{"12.00": 7, "10.00": 3}, remainingByPrice)

	// Weighted cost: (5*8 + 3*10) / 8 = 8.75
	sales, err := store.ListSales(ctx, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "8.7500", sales[0].PurchaseCost.StringFixed(4))

	ps, err := store.GetSizeForUpdate(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	assert.Equal(t, 10, ps.Quantity)
}

func TestConsumeStockPriceTieByEarliestDate(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	older, err := svc.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID: productID, Size: catalog.SizeS, Quantity: 4,
		UnitPrice: types.MustMoney("15.00"), PurchaseDate: day("2024-01-05"),
	})
	require.NoError(t, err)
	newer, err := svc.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID: productID, Size: catalog.SizeS, Quantity: 4,
		UnitPrice: types.MustMoney("15.00"), PurchaseDate: day("2024-04-05"),
	})
	require.NoError(t, err)

	consumed, err := svc.ConsumeStock(ctx, productID, catalog.SizeS, 4, ledger.SaleContext{})
	require.NoError(t, err)
	assert.Equal(t, 4, consumed)

	batches, err := store.ListBatches(ctx, productID, catalog.SizeS)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, newer.ID, batches[0].ID, "the older layer must be consumed first")
	assert.NotEqual(t, older.ID, batches[0].ID)
}

func TestConsumeStockShortFill(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID: productID, Size: catalog.SizeXL, Quantity: 3,
		UnitPrice: types.MustMoney("30.00"),
	})
	require.NoError(t, err)

	consumed, err := svc.ConsumeStock(ctx, productID, catalog.SizeXL, 10, ledger.SaleContext{})
	require.NoError(t, err, "short fill is a result, not an error")
	assert.Equal(t, 3, consumed)

	ps, err := store.GetSizeForUpdate(ctx, productID, catalog.SizeXL)
	require.NoError(t, err)
	assert.Equal(t, 0, ps.Quantity)

	batches, err := store.ListBatches(ctx, productID, catalog.SizeXL)
	require.NoError(t, err)
	assert.Empty(t, batches, "depleted layers are removed")
}

func TestConsumeStockUnknownSizeConsumesZero(t *testing.T) {
	svc, _, productID := newFixture(t)

	consumed, err := svc.ConsumeStock(context.Background(), productID, catalog.Size2XL, 2, ledger.SaleContext{})
	require.NoError(t, err)
	assert.Equal(t, 0, consumed)
}

func TestConsumeStockRejectsNonPositiveRequest(t *testing.T) {
	svc, _, productID := newFixture(t)

	_, err := svc.ConsumeStock(context.Background(), productID, catalog.SizeM, 0, ledger.SaleContext{})
	assert.Error(t, err)
}

func TestConservationAcrossMixedOperations(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	prices := []string{"10.00", "12.50", "9.99", "11.00"}
	for i, p := range prices {
		_, err := svc.RecordPurchase(ctx, ledger.PurchaseInput{
			ProductID: productID, Size: catalog.SizeM, Quantity: 3 + i,
			UnitPrice: types.MustMoney(p), PurchaseDate: day("2024-02-01").AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}
	for _, req := range []int{2, 5, 1} {
		_, err := svc.ConsumeStock(ctx, productID, catalog.SizeM, req, ledger.SaleContext{})
		require.NoError(t, err)
	}

	ps, err := store.GetSizeForUpdate(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	sum, err := store.SumRemaining(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	assert.Equal(t, ps.Quantity, sum, "aggregate counter must equal the sum over live layers")
	assert.Equal(t, 3+4+5+6-8, ps.Quantity)
}

func TestSetCurrentPriceCreatesAndCorrectsPlaceholder(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SetCurrentPrice(ctx, productID, catalog.SizeM, types.MustMoney("19.90")))
	require.NoError(t, svc.SetCurrentPrice(ctx, productID, catalog.SizeM, types.MustMoney("21.40")))

	batches, err := store.ListBatches(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	require.Len(t, batches, 1, "same-day price updates correct the placeholder in place")
	assert.Equal(t, 0, batches[0].Quantity)
	assert.Equal(t, "21.40", batches[0].Price.StringFixed(2))
}

func TestPlaceholderNeverConsumed(t *testing.T) {
	svc, store, productID := newFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SetCurrentPrice(ctx, productID, catalog.SizeM, types.MustMoney("5.00")))

	consumed, err := svc.ConsumeStock(ctx, productID, catalog.SizeM, 1, ledger.SaleContext{})
	require.NoError(t, err)
	assert.Equal(t, 0, consumed)

	batches, err := store.ListBatches(ctx, productID, catalog.SizeM)
	require.NoError(t, err)
	assert.Len(t, batches, 1, "placeholder survives consumption attempts")
}

func TestStockValuation(t *testing.T) {
	svc, _, productID := newFixture(t)
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID: productID, Size: catalog.SizeM, Quantity: 4, UnitPrice: types.MustMoney("10.00"),
	})
	require.NoError(t, err)
	_, err = svc.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID: productID, Size: catalog.SizeM, Quantity: 2, UnitPrice: types.MustMoney("12.00"),
	})
	require.NoError(t, err)

	_, err = svc.ConsumeStock(ctx, productID, catalog.SizeM, 1, ledger.SaleContext{})
	require.NoError(t, err)

	rows, err := svc.StockValuation(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].OnHand)
	// 3 * 10.00 + 2 * 12.00
	assert.Equal(t, "54.00", rows[0].Value.StringFixed(2))
}
