package match

import (
	"strings"

	"magazyn/internal/domain/catalog"
)

// Config carries the fuzzy-match thresholds and bonuses. Passing it
// explicitly keeps the engine testable and tunable per call instead of
// hiding the knobs in module-level constants.
type Config struct {
	// ScoreThreshold is the minimum fuzzy score for acceptance.
	ScoreThreshold float64

	// SeriesBonus is added when both sides carry the same detected series.
	SeriesBonus float64

	// BrandBonus is added when the row mentions the candidate's brand.
	BrandBonus float64

	// SizeBonus is added when the row's size equals the candidate's size.
	SizeBonus float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold: 0.5,
		SeriesBonus:    0.5,
		BrandBonus:     0.2,
		SizeBonus:      0.3,
	}
}

// Resolve maps an invoice row onto a candidate (product, size) row.
// Strategies run in strict priority order - barcode, vendor SKU, fuzzy
// name scoring - and the first success wins; later strategies are not
// attempted. A Result with MatchNone is a normal outcome, not an error.
func Resolve(row InvoiceRow, candidates []catalog.Candidate, cfg Config) Result {
	if r, ok := resolveByBarcode(row, candidates); ok {
		return r
	}
	if r, ok := resolveBySKU(row, candidates); ok {
		return r
	}
	if r, ok := resolveFuzzy(row, candidates, cfg); ok {
		return r
	}
	return Result{Type: MatchNone}
}

// resolveByBarcode performs the exact EAN match.
func resolveByBarcode(row InvoiceRow, candidates []catalog.Candidate) (Result, bool) {
	barcode := strings.TrimSpace(row.Barcode)
	if barcode == "" {
		return Result{}, false
	}
	for _, c := range candidates {
		if c.Barcode != "" && c.Barcode == barcode {
			return Result{SizeID: c.SizeID, Type: MatchEAN}, true
		}
	}
	return Result{}, false
}

// resolveBySKU decodes the vendor SKU and matches structurally.
// The first candidate passing all filters wins; there is no scoring
// among multiple survivors.
func resolveBySKU(row InvoiceRow, candidates []catalog.Candidate) (Result, bool) {
	if strings.TrimSpace(row.VendorSKU) == "" {
		return Result{}, false
	}
	decoded := DecodeSKU(row.VendorSKU)
	if decoded.Series == "" {
		return Result{}, false
	}

	rowCategory := DetectCategory(row.Name)

	for _, c := range candidates {
		if rowCategory != "" && !strings.EqualFold(c.Category, rowCategory) {
			continue
		}
		if !strings.EqualFold(c.Series, decoded.Series) {
			continue
		}
		if c.Size != decoded.Size {
			continue
		}
		if decoded.Color != "" && !colorMatches(c.Color, decoded.Color) {
			continue
		}
		return Result{SizeID: c.SizeID, Type: MatchSKU}, true
	}
	return Result{}, false
}

// resolveFuzzy scores candidates by key-word overlap with bonuses.
// Ties keep the first-encountered candidate (strict greater-than), so
// resolution is deterministic for a fixed candidate ordering.
func resolveFuzzy(row InvoiceRow, candidates []catalog.Candidate, cfg Config) (Result, bool) {
	rowTokens := Keywords(row.Name)
	if len(rowTokens) == 0 {
		return Result{}, false
	}

	rowCategory := DetectCategory(row.Name)
	rowSeries := DetectSeries(row.Name)
	var rowSize catalog.Size
	if row.Size != "" {
		rowSize = catalog.NormalizeSize(row.Size)
	}

	var best *catalog.Candidate
	bestScore := 0.0

	for i := range candidates {
		c := &candidates[i]

		candCategory := c.Category
		if candCategory == "" {
			candCategory = DetectCategory(c.Name())
		}
		candSeries := c.Series
		if candSeries == "" {
			candSeries = DetectSeries(c.Name())
		}

		// Hard filters: category, size, series, color - each applied only
		// when both sides carry the attribute.
		if rowCategory != "" && candCategory != "" && !strings.EqualFold(rowCategory, candCategory) {
			continue
		}
		if rowSize != "" && c.Size != rowSize {
			continue
		}
		if rowSeries != "" && candSeries != "" && !strings.EqualFold(rowSeries, candSeries) {
			continue
		}
		if row.Color != "" && c.Color != "" && !colorMatches(row.Color, c.Color) {
			continue
		}

		score := jaccard(rowTokens, Keywords(c.Name()))

		if rowSeries != "" && candSeries != "" {
			score += cfg.SeriesBonus
		}
		if c.Brand != "" {
			if _, ok := rowTokens[strings.ToLower(c.Brand)]; ok {
				score += cfg.BrandBonus
			}
		}
		if rowSize != "" && c.Size == rowSize {
			score += cfg.SizeBonus
		}

		// Strict greater-than keeps the first candidate on ties.
		if score >= cfg.ScoreThreshold && score > bestScore {
			best = c
			bestScore = score
		}
	}

	if best == nil {
		return Result{}, false
	}
	return Result{SizeID: best.SizeID, Type: MatchFuzzy}, true
}
