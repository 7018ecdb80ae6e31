package catalog

import (
	"context"
	"testing"
)

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		in   string
		want Size
	}{
		{"XL", SizeXL},
		{"xl", SizeXL},
		{" m ", SizeM},
		{"XXL", Size2XL},
		{"xxl", Size2XL},
		{"XXXL", Size3XL},
		{"2XL", Size2XL},
		{"uniwersalny", SizeUniversal},
		{"UNI", SizeUniversal},
		{"GIGANT", Size("GIGANT")},
	}
	for _, tt := range tests {
		if got := NormalizeSize(tt.in); got != tt.want {
			t.Errorf("NormalizeSize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSize(t *testing.T) {
	for _, s := range []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, Size2XL, Size3XL, SizeUniversal} {
		if !IsValidSize(s) {
			t.Errorf("IsValidSize(%q) = false, want true", s)
		}
	}
	if IsValidSize("XXL") {
		t.Error("raw vendor alias must not validate without normalization")
	}
}

func TestProductDisplayName(t *testing.T) {
	p := NewProduct(CategoryHarness, "Truelove", "front line", "czarny")
	if got := p.DisplayName(); got != "Szelki Truelove front line czarny" {
		t.Errorf("DisplayName() = %q", got)
	}

	legacy := &Product{LegacyName: "Szelki stare model X"}
	if got := legacy.DisplayName(); got != "Szelki stare model X" {
		t.Errorf("legacy DisplayName() = %q", got)
	}
}

func TestProductValidate(t *testing.T) {
	ctx := context.Background()

	if err := NewProduct(CategoryLeash, "", "", "").Validate(ctx); err != nil {
		t.Errorf("structured product: unexpected error %v", err)
	}

	legacy := &Product{LegacyName: "Smycz bez kategorii"}
	if err := legacy.Validate(ctx); err != nil {
		t.Errorf("legacy product: unexpected error %v", err)
	}

	if err := (&Product{}).Validate(ctx); err == nil {
		t.Error("product without identity must not validate")
	}
}

func TestCandidateName(t *testing.T) {
	c := Candidate{Category: CategoryHarness, Brand: "Truelove", Series: "lumen", Color: "szary"}
	if got := c.Name(); got != "Szelki Truelove lumen szary" {
		t.Errorf("Name() = %q", got)
	}

	c.LegacyName = "Szelki odblaskowe"
	if got := c.Name(); got != "Szelki odblaskowe" {
		t.Errorf("legacy Name() = %q", got)
	}
}
