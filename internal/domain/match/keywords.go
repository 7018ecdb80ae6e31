package match

import (
	"strings"
	"unicode"

	"magazyn/internal/domain/catalog"
)

// stopWords are filler words dropped during tokenization. Words of two
// characters or fewer are dropped regardless.
var stopWords = map[string]struct{}{
	"dla":     {},
	"psa":     {},
	"psów":    {},
	"kota":    {},
	"szt":     {},
	"sztuk":   {},
	"rozmiar": {},
	"kolor":   {},
	"oraz":    {},
	"typu":    {},
	"nowa":    {},
	"nowy":    {},
	"model":   {},
}

// knownSeries lists recognized model series phrases, most specific first.
// Order matters: "front line premium" must be tested before "front line".
var knownSeries = []string{
	"front line premium",
	"front line",
	"blossom",
	"lumen",
	"adventure",
	"tropical",
}

// categoryKeywords maps name fragments onto catalog categories.
// Checked in order; first hit wins.
var categoryKeywords = []struct {
	fragment string
	category string
}{
	{"szelki", catalog.CategoryHarness},
	{"harness", catalog.CategoryHarness},
	{"smycz", catalog.CategoryLeash},
	{"leash", catalog.CategoryLeash},
	{"obroż", catalog.CategoryCollar},
	{"obroz", catalog.CategoryCollar},
	{"collar", catalog.CategoryCollar},
}

// Keywords tokenizes a product name into its significant words:
// lower-cased, split on non-letter/non-digit runes, stop words and
// words of two runes or fewer removed.
func Keywords(name string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// DetectCategory infers the product category from free text.
// Returns empty string when no category keyword is present.
func DetectCategory(name string) string {
	lower := strings.ToLower(name)
	for _, ck := range categoryKeywords {
		if strings.Contains(lower, ck.fragment) {
			return ck.category
		}
	}
	return ""
}

// DetectSeries finds a known model series phrase in free text.
// Returns empty string when none is present.
func DetectSeries(name string) string {
	lower := strings.ToLower(name)
	for _, s := range knownSeries {
		if strings.Contains(lower, s) {
			return s
		}
	}
	return ""
}

// colorMatches implements the fuzzy color rule: substring containment in
// either direction, or equal first-four-rune prefixes. The prefix rule
// tolerates Polish inflectional suffixes (czarny/czarna/czarne).
func colorMatches(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) >= 4 && len(rb) >= 4 && string(ra[:4]) == string(rb[:4]) {
		return true
	}
	return false
}

// jaccard computes |a ∩ b| / |a ∪ b| over keyword sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
