package dto

import (
	"time"

	"magazyn/internal/core/types"
)

// InvoiceRowRequest is one parsed invoice line.
type InvoiceRowRequest struct {
	Name      string      `json:"name" binding:"required"`
	Color     string      `json:"color"`
	Size      string      `json:"size"`
	Barcode   string      `json:"barcode"`
	VendorSKU string      `json:"vendorSku"`
	Quantity  int         `json:"quantity" binding:"required,gt=0"`
	UnitPrice types.Money `json:"unitPrice" binding:"required"`
}

// ImportInvoiceRequest imports a parsed supplier invoice.
type ImportInvoiceRequest struct {
	Supplier      string              `json:"supplier"`
	InvoiceNumber string              `json:"invoiceNumber" binding:"required"`
	InvoiceDate   time.Time           `json:"invoiceDate"`
	Rows          []InvoiceRowRequest `json:"rows" binding:"required,min=1,dive"`
}

// ResolveRequest runs the resolution engine against one row without
// touching stock. Used to preview what an import would do.
type ResolveRequest struct {
	Name      string `json:"name" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Barcode   string `json:"barcode"`
	VendorSKU string `json:"vendorSku"`
}

// ResolveResponse is the resolution outcome.
type ResolveResponse struct {
	MatchType string `json:"matchType"`
	SizeID    string `json:"sizeId,omitempty"`
	ProductID string `json:"productId,omitempty"`
}
