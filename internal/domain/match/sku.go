package match

import (
	"strings"

	"magazyn/internal/domain/catalog"
)

// vendorPrefix is the first segment of every decodable vendor SKU.
const vendorPrefix = "TL"

// DecodedSKU carries the hints extracted from a vendor SKU.
// Any field may be empty; the decoder never fails.
type DecodedSKU struct {
	Series string
	Size   catalog.Size
	Color  string
}

// seriesCodes maps vendor series codes onto catalog series names.
// Series codes may themselves contain hyphens (two-token codes).
var seriesCodes = map[string]string{
	"frolin":      "front line",
	"frolin-prem": "front line premium",
	"blos":        "blossom",
	"lum":         "lumen",
	"adv":         "adventure",
	"trop":        "tropical",
}

// colorCodes maps vendor color codes onto Polish color names.
var colorCodes = map[string]string{
	"CZA": "czarny",
	"CZE": "czerwony",
	"NIE": "niebieski",
	"ZIE": "zielony",
	"ROZ": "różowy",
	"FIO": "fioletowy",
	"SZA": "szary",
	"POM": "pomarańczowy",
	"ZOL": "żółty",
	"BIA": "biały",
	"BRA": "brązowy",
	"GRA": "granatowy",
	"TUR": "turkusowy",
}

// DecodeSKU parses a vendor product code of the shape
// PREFIX-CATEGORY-SERIES[-SERIES2]-SIZE[-COLOR] into series/size/color hints.
//
// With five or more segments the last one is the color code and the
// second-to-last is the size; everything between the category and the size
// is the (possibly hyphenated) series code. With exactly four segments
// there is no color code. Unknown series or color codes decode to empty
// strings; the decoder never raises.
func DecodeSKU(sku string) DecodedSKU {
	segments := strings.Split(strings.TrimSpace(sku), "-")
	if len(segments) < 4 || !strings.EqualFold(segments[0], vendorPrefix) {
		return DecodedSKU{}
	}

	var seriesCode, sizeCode, colorCode string
	if len(segments) >= 5 {
		colorCode = segments[len(segments)-1]
		sizeCode = segments[len(segments)-2]
		seriesCode = strings.Join(segments[2:len(segments)-2], "-")
	} else {
		sizeCode = segments[3]
		seriesCode = segments[2]
	}

	decoded := DecodedSKU{
		Size: catalog.NormalizeSize(sizeCode),
	}
	decoded.Series = seriesCodes[strings.ToLower(seriesCode)]
	if colorCode != "" {
		decoded.Color = colorCodes[strings.ToUpper(colorCode)]
	}
	return decoded
}
