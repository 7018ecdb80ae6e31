package match

import (
	"testing"

	"magazyn/internal/domain/catalog"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "drops stop words and short tokens",
			in:   "Szelki dla psa Truelove XL czarne",
			want: []string{"szelki", "truelove", "czarne"},
		},
		{
			name: "splits on punctuation",
			in:   "Smycz,nowa - model: Lumen (2m)",
			want: []string{"smycz", "lumen"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Keywords(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for _, w := range tt.want {
				if _, ok := got[w]; !ok {
					t.Errorf("Keywords(%q) missing token %q", tt.in, w)
				}
			}
		})
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Szelki dla psa front line", catalog.CategoryHarness},
		{"Dog harness adventure", catalog.CategoryHarness},
		{"Smycz Truelove 2m", catalog.CategoryLeash},
		{"Obroża odblaskowa", catalog.CategoryCollar},
		{"obroza odblaskowa", catalog.CategoryCollar},
		{"Zabawka piszcząca", ""},
	}
	for _, tt := range tests {
		if got := DetectCategory(tt.in); got != tt.want {
			t.Errorf("DetectCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectSeriesPrefersMostSpecific(t *testing.T) {
	if got := DetectSeries("Szelki front line premium czarne"); got != "front line premium" {
		t.Errorf("got %q, want front line premium", got)
	}
	if got := DetectSeries("Szelki front line czarne"); got != "front line" {
		t.Errorf("got %q, want front line", got)
	}
	if got := DetectSeries("Szelki bez serii"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestColorMatches(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"czarny", "czarny", true},
		{"czarny", "czarna", true},  // shared 4-rune prefix
		{"czarny", "czarne", true},  // inflected form
		{"różowy", "różowa", true},  // multi-byte runes
		{"czarny", "czerwony", false},
		{"niebieski", "niebieski ciemny", true}, // containment
		{"", "czarny", false},
		{"czarny", "", false},
	}
	for _, tt := range tests {
		if got := colorMatches(tt.a, tt.b); got != tt.want {
			t.Errorf("colorMatches(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	a := Keywords("szelki truelove front line")
	b := Keywords("szelki truelove front line")
	if got := jaccard(a, b); got != 1.0 {
		t.Errorf("identical sets: got %v, want 1.0", got)
	}
	c := Keywords("smycz lumen")
	if got := jaccard(a, c); got != 0 {
		t.Errorf("disjoint sets: got %v, want 0", got)
	}
	if got := jaccard(nil, nil); got != 0 {
		t.Errorf("empty sets: got %v, want 0", got)
	}
}
