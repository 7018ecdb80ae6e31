package invoice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/invoice"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/domain/match"
	"magazyn/internal/infrastructure/cache"
	"magazyn/internal/infrastructure/storage/memory"
)

func newImporter(t *testing.T) (*invoice.Importer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ledgerSvc := ledger.NewService(store, store, memory.TxManager{})
	im := invoice.NewImporter(store, ledgerSvc, cache.NewDirectCandidates(store), match.DefaultConfig())
	return im, store
}

func seedHarness(t *testing.T, store *memory.Store, size catalog.Size, barcode string) *catalog.ProductSize {
	t.Helper()
	ctx := context.Background()

	product := catalog.NewProduct(catalog.CategoryHarness, "Truelove", "front line", "czarny")
	require.NoError(t, store.CreateProduct(ctx, product))

	ps := catalog.NewProductSize(product.ID, size)
	if barcode != "" {
		ps.Barcode = &barcode
	}
	require.NoError(t, store.CreateSize(ctx, ps))
	return ps
}

func TestImportMatchedRowRecordsDelivery(t *testing.T) {
	im, store := newImporter(t)
	ctx := context.Background()

	ps := seedHarness(t, store, catalog.SizeXL, "5901234123457")

	report, err := im.Import(ctx, invoice.Document{
		Supplier:      "Truelove",
		InvoiceNumber: "FV/2024/04/01",
		Rows: []invoice.Row{
			{
				InvoiceRow: match.InvoiceRow{Name: "Szelki front line XL", Barcode: "5901234123457"},
				Quantity:   6,
				UnitPrice:  types.MustMoney("22.00"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "EAN", row.MatchType)
	assert.Equal(t, ps.ID, row.SizeID)
	assert.False(t, row.CreatedProduct)
	assert.Equal(t, 1, report.Matched)

	updated, err := store.GetSize(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	batches, err := store.ListBatches(ctx, ps.ProductID, catalog.SizeXL)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "FV/2024/04/01", batches[0].InvoiceNumber)
	assert.Equal(t, "Truelove", batches[0].Supplier)
}

func TestImportUnresolvedRowCreatesProduct(t *testing.T) {
	im, store := newImporter(t)
	ctx := context.Background()

	report, err := im.Import(ctx, invoice.Document{
		InvoiceNumber: "FV/2024/04/02",
		Rows: []invoice.Row{
			{
				InvoiceRow: match.InvoiceRow{
					Name:    "Szelki blossom różowe",
					Color:   "różowy",
					Size:    "M",
					Barcode: "5909999999991",
				},
				Quantity:  4,
				UnitPrice: types.MustMoney("18.00"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "NONE", row.MatchType)
	assert.True(t, row.CreatedProduct)
	assert.Equal(t, 1, report.Created)

	product, err := store.GetProduct(ctx, row.ProductID)
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryHarness, product.Category)
	assert.Equal(t, "blossom", product.Series)
	assert.Equal(t, "różowy", product.Color)

	ps, err := store.GetSizeByBarcode(ctx, "5909999999991")
	require.NoError(t, err)
	assert.Equal(t, row.ProductID, ps.ProductID)
	assert.Equal(t, catalog.SizeM, ps.Size)
	assert.Equal(t, 4, ps.Quantity)
}

func TestImportSecondIdenticalRowMatchesCreatedProduct(t *testing.T) {
	im, store := newImporter(t)
	ctx := context.Background()

	row := invoice.Row{
		InvoiceRow: match.InvoiceRow{
			Name:    "Smycz lumen niebieska",
			Color:   "niebieski",
			Size:    "Uniwersalny",
			Barcode: "5908888888882",
		},
		Quantity:  2,
		UnitPrice: types.MustMoney("12.00"),
	}

	report, err := im.Import(ctx, invoice.Document{
		InvoiceNumber: "FV/2024/04/03",
		Rows:          []invoice.Row{row, row},
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.True(t, report.Rows[0].CreatedProduct)
	assert.Equal(t, "EAN", report.Rows[1].MatchType, "second row must hit the entry created by the first")
	assert.Equal(t, report.Rows[0].ProductID, report.Rows[1].ProductID)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Matched)

	ps, err := store.GetSizeByBarcode(ctx, "5908888888882")
	require.NoError(t, err)
	assert.Equal(t, 4, ps.Quantity)
}

func TestImportBackfillsBarcodeOnFuzzyMatch(t *testing.T) {
	im, store := newImporter(t)
	ctx := context.Background()

	ps := seedHarness(t, store, catalog.SizeXL, "")

	report, err := im.Import(ctx, invoice.Document{
		InvoiceNumber: "FV/2024/04/04",
		Rows: []invoice.Row{
			{
				InvoiceRow: match.InvoiceRow{
					Name:    "Szelki Truelove front line czarne",
					Size:    "XL",
					Barcode: "5907777777773",
				},
				Quantity:  1,
				UnitPrice: types.MustMoney("25.00"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "FUZZY", row.MatchType)
	assert.True(t, row.BarcodeAttached)

	updated, err := store.GetSize(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, "5907777777773", updated.BarcodeValue())
}

func TestImportRowFailureDoesNotAbortDocument(t *testing.T) {
	im, store := newImporter(t)
	ctx := context.Background()

	seedHarness(t, store, catalog.SizeXL, "5901234123457")

	report, err := im.Import(ctx, invoice.Document{
		InvoiceNumber: "FV/2024/04/05",
		Rows: []invoice.Row{
			{
				InvoiceRow: match.InvoiceRow{Name: "Szelki front line XL", Barcode: "5901234123457"},
				Quantity:   0, // invalid
				UnitPrice:  types.MustMoney("22.00"),
			},
			{
				InvoiceRow: match.InvoiceRow{Name: "Szelki front line XL", Barcode: "5901234123457"},
				Quantity:   3,
				UnitPrice:  types.MustMoney("22.00"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.NotEmpty(t, report.Rows[0].Error)
	assert.Empty(t, report.Rows[1].Error)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Matched)
}

func TestImportEmptyDocumentRejected(t *testing.T) {
	im, _ := newImporter(t)

	_, err := im.Import(context.Background(), invoice.Document{InvoiceNumber: "FV/2024/04/06"})
	assert.Error(t, err)
}

func TestImportUnknownSizeFailsRow(t *testing.T) {
	im, _ := newImporter(t)

	report, err := im.Import(context.Background(), invoice.Document{
		InvoiceNumber: "FV/2024/04/07",
		Rows: []invoice.Row{
			{
				InvoiceRow: match.InvoiceRow{Name: "Obroża adventure", Size: "GIGANT"},
				Quantity:   1,
				UnitPrice:  types.MustMoney("9.00"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.NotEmpty(t, report.Rows[0].Error)
	assert.Equal(t, 1, report.Failed)
}
