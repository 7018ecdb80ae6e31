package fulfillment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/fulfillment"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/domain/match"
	"magazyn/internal/infrastructure/cache"
	"magazyn/internal/infrastructure/storage/memory"
)

func newFixture(t *testing.T) (*fulfillment.Service, *ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ledgerSvc := ledger.NewService(store, store, memory.TxManager{})
	svc := fulfillment.NewService(store, ledgerSvc, cache.NewDirectCandidates(store), match.DefaultConfig(), 11.5)
	return svc, ledgerSvc, store
}

func seedStock(t *testing.T, store *memory.Store, ledgerSvc *ledger.Service, size catalog.Size, barcode string, qty int) *catalog.Product {
	t.Helper()
	ctx := context.Background()

	product := catalog.NewProduct(catalog.CategoryHarness, "Truelove", "front line", "czarny")
	require.NoError(t, store.CreateProduct(ctx, product))

	_, err := ledgerSvc.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID: product.ID,
		Size:      size,
		Quantity:  qty,
		UnitPrice: types.MustMoney("20.00"),
		Barcode:   barcode,
	})
	require.NoError(t, err)
	return product
}

func TestFulfillOrderByEAN(t *testing.T) {
	svc, ledgerSvc, store := newFixture(t)
	ctx := context.Background()

	product := seedStock(t, store, ledgerSvc, catalog.SizeM, "5901234123457", 5)

	result, err := svc.FulfillOrder(ctx, fulfillment.Order{
		OrderNumber:  "ZAM-1001",
		SaleDate:     time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		ShippingCost: types.MustMoney("12.99"),
		Lines: []fulfillment.Line{
			{Name: "Szelki front line M", EAN: "5901234123457", Quantity: 2, UnitPrice: types.MustMoney("49.99")},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)

	line := result.Lines[0]
	assert.Equal(t, "EAN", line.MatchType)
	assert.Equal(t, product.ID, line.ProductID)
	assert.Equal(t, 2, line.Consumed)
	assert.False(t, line.Short)
	assert.Equal(t, 1, result.Fulfilled)

	ps, err := store.GetSizeForUpdate(ctx, product.ID, catalog.SizeM)
	require.NoError(t, err)
	assert.Equal(t, 3, ps.Quantity)
}

func TestFulfillOrderCommissionAndShipping(t *testing.T) {
	svc, ledgerSvc, store := newFixture(t)
	ctx := context.Background()

	seedStock(t, store, ledgerSvc, catalog.SizeM, "5901234123457", 10)

	_, err := svc.FulfillOrder(ctx, fulfillment.Order{
		OrderNumber:  "ZAM-1002",
		ShippingCost: types.MustMoney("12.99"),
		Lines: []fulfillment.Line{
			{Name: "Szelki", EAN: "5901234123457", Quantity: 2, UnitPrice: types.MustMoney("50.00")},
			{Name: "Szelki", EAN: "5901234123457", Quantity: 1, UnitPrice: types.MustMoney("50.00")},
		},
	})
	require.NoError(t, err)

	sales, err := store.ListSales(ctx, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, sales, 2)

	// 11.5% of 100.00
	assert.Equal(t, "11.50", sales[0].CommissionFee.StringFixed(2))
	// Shipping only on the first consuming line.
	assert.Equal(t, "12.99", sales[0].ShippingCost.StringFixed(2))
	assert.Equal(t, "0.00", sales[1].ShippingCost.StringFixed(2))
}

func TestFulfillOrderByNameAndSizeAttribute(t *testing.T) {
	svc, ledgerSvc, store := newFixture(t)
	ctx := context.Background()

	product := seedStock(t, store, ledgerSvc, catalog.SizeXL, "", 3)

	result, err := svc.FulfillOrder(ctx, fulfillment.Order{
		OrderNumber: "ZAM-1003",
		Lines: []fulfillment.Line{
			{
				Name:       "Szelki Truelove front line czarne",
				Quantity:   1,
				UnitPrice:  types.MustMoney("55.00"),
				Attributes: map[string]string{"Rozmiar": "XL"},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)

	line := result.Lines[0]
	assert.Equal(t, "FUZZY", line.MatchType)
	assert.Equal(t, product.ID, line.ProductID)
	assert.Equal(t, 1, line.Consumed)
}

func TestFulfillOrderShortFill(t *testing.T) {
	svc, ledgerSvc, store := newFixture(t)
	ctx := context.Background()

	seedStock(t, store, ledgerSvc, catalog.SizeM, "5901234123457", 2)

	result, err := svc.FulfillOrder(ctx, fulfillment.Order{
		OrderNumber: "ZAM-1004",
		Lines: []fulfillment.Line{
			{Name: "Szelki", EAN: "5901234123457", Quantity: 5, UnitPrice: types.MustMoney("45.00")},
		},
	})
	require.NoError(t, err, "short fill is reported, not raised")
	require.Len(t, result.Lines, 1)

	line := result.Lines[0]
	assert.Equal(t, 5, line.Requested)
	assert.Equal(t, 2, line.Consumed)
	assert.True(t, line.Short)
	assert.Equal(t, 1, result.ShortItem)
}

func TestFulfillOrderUnresolvedLineFails(t *testing.T) {
	svc, ledgerSvc, store := newFixture(t)
	ctx := context.Background()

	seedStock(t, store, ledgerSvc, catalog.SizeM, "5901234123457", 5)

	result, err := svc.FulfillOrder(ctx, fulfillment.Order{
		OrderNumber: "ZAM-1005",
		Lines: []fulfillment.Line{
			{Name: "Legowisko pluszowe szare", Quantity: 1, UnitPrice: types.MustMoney("80.00")},
			{Name: "Szelki", EAN: "5901234123457", Quantity: 1, UnitPrice: types.MustMoney("45.00")},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	assert.NotEmpty(t, result.Lines[0].Error)
	assert.Empty(t, result.Lines[1].Error)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Fulfilled)
}

func TestFulfillOrderEmptyRejected(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.FulfillOrder(context.Background(), fulfillment.Order{OrderNumber: "ZAM-1006"})
	assert.Error(t, err)
}
