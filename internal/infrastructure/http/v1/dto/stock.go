package dto

import (
	"time"

	"magazyn/internal/core/types"
)

// PurchaseRequest records one delivery into the batch ledger.
type PurchaseRequest struct {
	ProductID string      `json:"productId" binding:"required,uuid"`
	Size      string      `json:"size" binding:"required"`
	Quantity  int         `json:"quantity" binding:"required,gt=0"`
	UnitPrice types.Money `json:"unitPrice" binding:"required"`

	PurchaseDate  time.Time `json:"purchaseDate"`
	Barcode       string    `json:"barcode"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Supplier      string    `json:"supplier"`
}

// ConsumeRequest depletes stock for a (product, size) pair.
type ConsumeRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`

	SalePrice     types.Money `json:"salePrice"`
	ShippingCost  types.Money `json:"shippingCost"`
	CommissionFee types.Money `json:"commissionFee"`
	SaleDate      time.Time   `json:"saleDate"`
}

// ConsumeResponse reports the actual depletion.
type ConsumeResponse struct {
	Requested int  `json:"requested"`
	Consumed  int  `json:"consumed"`
	Short     bool `json:"short"`
}

// PriceRequest records a purchase price outside a delivery.
type PriceRequest struct {
	ProductID string      `json:"productId" binding:"required,uuid"`
	Size      string      `json:"size" binding:"required"`
	Price     types.Money `json:"price" binding:"required"`
}
