package dto

// CreateSizeRequest is one size row of a new product.
type CreateSizeRequest struct {
	Size    string `json:"size" binding:"required"`
	Barcode string `json:"barcode"`
}

// CreateProductRequest creates a catalog product. Either the structured
// fields or a legacy free-text name must be present.
type CreateProductRequest struct {
	Category   string `json:"category"`
	Brand      string `json:"brand"`
	Series     string `json:"series"`
	Color      string `json:"color"`
	LegacyName string `json:"legacyName"`

	Sizes []CreateSizeRequest `json:"sizes" binding:"dive"`
}

// AddSizeRequest adds a size row to an existing product.
type AddSizeRequest struct {
	Size    string `json:"size" binding:"required"`
	Barcode string `json:"barcode"`
}
