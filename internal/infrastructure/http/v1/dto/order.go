package dto

import (
	"time"

	"magazyn/internal/core/types"
)

// OrderLineRequest is one marketplace order position.
type OrderLineRequest struct {
	Name      string      `json:"name" binding:"required"`
	EAN       string      `json:"ean"`
	Size      string      `json:"size"`
	Quantity  int         `json:"quantity" binding:"required,gt=0"`
	UnitPrice types.Money `json:"unitPrice" binding:"required"`

	Attributes map[string]string `json:"attributes"`
}

// FulfillOrderRequest fulfills a marketplace order from stock.
type FulfillOrderRequest struct {
	OrderNumber  string             `json:"orderNumber" binding:"required"`
	SaleDate     time.Time          `json:"saleDate"`
	ShippingCost types.Money        `json:"shippingCost"`
	Lines        []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}
