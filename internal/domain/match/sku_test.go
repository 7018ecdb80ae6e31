package match

import (
	"testing"

	"magazyn/internal/domain/catalog"
)

func TestDecodeSKU(t *testing.T) {
	tests := []struct {
		name string
		sku  string
		want DecodedSKU
	}{
		{
			name: "two-token series with color",
			sku:  "TL-SZ-frolin-prem-XL-CZA",
			want: DecodedSKU{Series: "front line premium", Size: catalog.SizeXL, Color: "czarny"},
		},
		{
			name: "single-token series with color",
			sku:  "TL-SM-lum-M-NIE",
			want: DecodedSKU{Series: "lumen", Size: catalog.SizeM, Color: "niebieski"},
		},
		{
			name: "four segments without color",
			sku:  "TL-OB-blos-XXL",
			want: DecodedSKU{Series: "blossom", Size: catalog.Size2XL},
		},
		{
			name: "vendor size alias normalized",
			sku:  "TL-SZ-adv-XXXL-ZIE",
			want: DecodedSKU{Series: "adventure", Size: catalog.Size3XL, Color: "zielony"},
		},
		{
			name: "case insensitive",
			sku:  "tl-sz-FROLIN-prem-xl-cza",
			want: DecodedSKU{Series: "front line premium", Size: catalog.SizeXL, Color: "czarny"},
		},
		{
			name: "unknown series keeps size and color hints",
			sku:  "TL-SZ-xyz-XL-CZA",
			want: DecodedSKU{Series: "", Size: catalog.SizeXL, Color: "czarny"},
		},
		{
			name: "unknown color code decodes to empty",
			sku:  "TL-SZ-trop-L-QQQ",
			want: DecodedSKU{Series: "tropical", Size: catalog.SizeL, Color: ""},
		},
		{
			name: "wrong prefix",
			sku:  "XX-SZ-frolin-XL-CZA",
			want: DecodedSKU{},
		},
		{
			name: "too few segments",
			sku:  "TL-SZ-frolin",
			want: DecodedSKU{},
		},
		{
			name: "empty input",
			sku:  "",
			want: DecodedSKU{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeSKU(tt.sku)
			if got != tt.want {
				t.Errorf("DecodeSKU(%q) = %+v, want %+v", tt.sku, got, tt.want)
			}
		})
	}
}
