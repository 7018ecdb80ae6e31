package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"magazyn/internal/core/id"
	"magazyn/internal/domain/catalog"
)

func harnessCandidate(series, color string, size catalog.Size, barcode string) catalog.Candidate {
	return catalog.Candidate{
		SizeID:    id.New(),
		ProductID: id.New(),
		Category:  catalog.CategoryHarness,
		Brand:     "Truelove",
		Series:    series,
		Color:     color,
		Size:      size,
		Barcode:   barcode,
	}
}

func TestResolveBarcodeWinsOverEverything(t *testing.T) {
	byBarcode := harnessCandidate("lumen", "czerwony", catalog.SizeS, "5901234123457")
	// This candidate would win both the SKU and fuzzy strategies.
	bySKU := harnessCandidate("front line premium", "czarny", catalog.SizeXL, "")

	row := InvoiceRow{
		Name:      "Szelki Truelove front line premium czarne",
		Size:      "XL",
		Barcode:   "5901234123457",
		VendorSKU: "TL-SZ-frolin-prem-XL-CZA",
	}

	got := Resolve(row, []catalog.Candidate{bySKU, byBarcode}, DefaultConfig())
	assert.Equal(t, MatchEAN, got.Type)
	assert.Equal(t, byBarcode.SizeID, got.SizeID)
}

func TestResolveBySKU(t *testing.T) {
	wrongSize := harnessCandidate("front line premium", "czarny", catalog.SizeM, "")
	wrongColor := harnessCandidate("front line premium", "czerwony", catalog.SizeXL, "")
	target := harnessCandidate("front line premium", "czarny", catalog.SizeXL, "")

	row := InvoiceRow{
		Name:      "Szelki Truelove",
		VendorSKU: "TL-SZ-frolin-prem-XL-CZA",
	}

	got := Resolve(row, []catalog.Candidate{wrongSize, wrongColor, target}, DefaultConfig())
	assert.Equal(t, MatchSKU, got.Type)
	assert.Equal(t, target.SizeID, got.SizeID)
}

func TestResolveBySKUFiltersByRowCategory(t *testing.T) {
	harness := harnessCandidate("lumen", "niebieski", catalog.SizeM, "")
	leash := catalog.Candidate{
		SizeID:   id.New(),
		Category: catalog.CategoryLeash,
		Brand:    "Truelove",
		Series:   "lumen",
		Color:    "niebieski",
		Size:     catalog.SizeM,
	}

	row := InvoiceRow{
		Name:      "Smycz Truelove lumen",
		VendorSKU: "TL-SM-lum-M-NIE",
	}

	got := Resolve(row, []catalog.Candidate{harness, leash}, DefaultConfig())
	assert.Equal(t, MatchSKU, got.Type)
	assert.Equal(t, leash.SizeID, got.SizeID)
}

func TestResolveSKUColorToleratesInflection(t *testing.T) {
	// Catalog stores "czarna", SKU decodes to "czarny".
	target := harnessCandidate("blossom", "czarna", catalog.SizeL, "")

	row := InvoiceRow{VendorSKU: "TL-SZ-blos-L-CZA"}

	got := Resolve(row, []catalog.Candidate{target}, DefaultConfig())
	assert.Equal(t, MatchSKU, got.Type)
	assert.Equal(t, target.SizeID, got.SizeID)
}

func TestResolveFuzzy(t *testing.T) {
	target := harnessCandidate("front line", "czarny", catalog.SizeXL, "")
	otherSize := harnessCandidate("front line", "czarny", catalog.SizeM, "")

	row := InvoiceRow{
		Name: "Szelki dla psa Truelove front line czarne",
		Size: "XL",
	}

	got := Resolve(row, []catalog.Candidate{otherSize, target}, DefaultConfig())
	assert.Equal(t, MatchFuzzy, got.Type)
	assert.Equal(t, target.SizeID, got.SizeID)
}

func TestResolveFuzzyAgainstLegacyName(t *testing.T) {
	legacy := catalog.Candidate{
		SizeID:     id.New(),
		LegacyName: "Szelki Truelove czerwone odblaskowe",
		Size:       catalog.SizeM,
	}

	row := InvoiceRow{
		Name: "Szelki Truelove czerwone odblaskowe",
		Size: "M",
	}

	got := Resolve(row, []catalog.Candidate{legacy}, DefaultConfig())
	assert.Equal(t, MatchFuzzy, got.Type)
	assert.Equal(t, legacy.SizeID, got.SizeID)
}

func TestResolveNoneBelowThreshold(t *testing.T) {
	candidate := harnessCandidate("front line", "czarny", catalog.SizeM, "")

	row := InvoiceRow{Name: "Zabawka piszcząca kaczka żółta"}

	got := Resolve(row, []catalog.Candidate{candidate}, DefaultConfig())
	assert.Equal(t, MatchNone, got.Type)
	assert.True(t, id.IsNil(got.SizeID))
}

func TestResolveNoneOnEmptyRow(t *testing.T) {
	candidate := harnessCandidate("front line", "czarny", catalog.SizeM, "")

	got := Resolve(InvoiceRow{}, []catalog.Candidate{candidate}, DefaultConfig())
	assert.Equal(t, MatchNone, got.Type)
}

func TestResolveFuzzyTieKeepsFirstCandidate(t *testing.T) {
	first := harnessCandidate("front line", "czarny", catalog.SizeXL, "")
	second := harnessCandidate("front line", "czarny", catalog.SizeXL, "")

	row := InvoiceRow{
		Name: "Szelki Truelove front line czarne",
		Size: "XL",
	}

	got := Resolve(row, []catalog.Candidate{first, second}, DefaultConfig())
	assert.Equal(t, MatchFuzzy, got.Type)
	assert.Equal(t, first.SizeID, got.SizeID)

	// Reversed order flips the winner: determinism comes from input order.
	got = Resolve(row, []catalog.Candidate{second, first}, DefaultConfig())
	assert.Equal(t, second.SizeID, got.SizeID)
}

func TestResolveFuzzyHardColorFilter(t *testing.T) {
	red := harnessCandidate("front line", "czerwony", catalog.SizeM, "")

	row := InvoiceRow{
		Name:  "Szelki Truelove front line",
		Color: "czarny",
		Size:  "M",
	}

	got := Resolve(row, []catalog.Candidate{red}, DefaultConfig())
	assert.Equal(t, MatchNone, got.Type)
}

func TestMatchTypeString(t *testing.T) {
	assert.Equal(t, "NONE", MatchNone.String())
	assert.Equal(t, "EAN", MatchEAN.String())
	assert.Equal(t, "SKU", MatchSKU.String())
	assert.Equal(t, "FUZZY", MatchFuzzy.String())
}
