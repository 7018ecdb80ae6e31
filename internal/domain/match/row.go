// Package match provides the product resolution engine: it maps a messy
// supplier-invoice line onto an existing catalog (product, size) row using a
// prioritized chain of strategies. Everything in this package is pure and
// side-effect free; it is safe to run concurrently against a point-in-time
// candidate snapshot.
package match

import (
	"magazyn/internal/core/id"
)

// MatchType identifies which strategy resolved a row.
type MatchType int

const (
	// MatchNone - no strategy succeeded; caller must create a new catalog entry
	MatchNone MatchType = iota
	// MatchEAN - exact barcode equality, highest confidence
	MatchEAN
	// MatchSKU - vendor SKU decoded to series/size/color and matched structurally
	MatchSKU
	// MatchFuzzy - name/color/size similarity scoring
	MatchFuzzy
)

// String implements fmt.Stringer.
func (t MatchType) String() string {
	switch t {
	case MatchEAN:
		return "EAN"
	case MatchSKU:
		return "SKU"
	case MatchFuzzy:
		return "FUZZY"
	default:
		return "NONE"
	}
}

// InvoiceRow is one parsed supplier-invoice line as handed over by the
// document-parsing component. All fields except Name are optional.
type InvoiceRow struct {
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
	VendorSKU string `json:"vendorSku,omitempty"`
}

// Result is the outcome of a resolution attempt.
// SizeID is nil when Type is MatchNone.
type Result struct {
	SizeID id.ID     `json:"sizeId"`
	Type   MatchType `json:"matchType"`
}
