// Package ledger provides the purchase batch ledger and the stock
// consumption engine. Stock is tracked as discrete, price-tagged delivery
// batches so cost of goods sold stays correct when the same product/size
// was bought at different prices over time.
package ledger

import (
	"time"

	"magazyn/internal/core/id"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
)

// PurchaseBatch is one delivery's worth of stock at one unit price - an
// immutable cost layer with a mutable remaining counter. Remaining starts
// equal to Quantity and only ever decreases; a batch at zero remaining is
// deleted. A batch with Quantity zero is a price placeholder created when
// an operator records a purchase price outside a delivery.
type PurchaseBatch struct {
	ID        id.ID        `db:"id" json:"id"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	Size      catalog.Size `db:"size" json:"size"`

	// Quantity is the originally delivered count (immutable)
	Quantity int `db:"quantity" json:"quantity"`

	// Remaining is the still-consumable count (monotonically non-increasing)
	Remaining int `db:"remaining_quantity" json:"remainingQuantity"`

	// Price is the unit cost of this delivery
	Price types.Money `db:"price" json:"price"`

	PurchaseDate time.Time `db:"purchase_date" json:"purchaseDate"`

	// Optional provenance
	Barcode       string `db:"barcode" json:"barcode,omitempty"`
	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber,omitempty"`
	Supplier      string `db:"supplier" json:"supplier,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewPurchaseBatch creates a cost layer with remaining equal to quantity.
func NewPurchaseBatch(productID id.ID, size catalog.Size, quantity int, price types.Money, purchaseDate time.Time) *PurchaseBatch {
	return &PurchaseBatch{
		ID:           id.New(),
		ProductID:    productID,
		Size:         size,
		Quantity:     quantity,
		Remaining:    quantity,
		Price:        price,
		PurchaseDate: purchaseDate,
		CreatedAt:    time.Now().UTC(),
	}
}

// SaleContext carries the monetary context of one consumption event.
// Commission is computed by the caller (fixed-percentage marketplace math);
// the ledger only records it.
type SaleContext struct {
	SalePrice     types.Money `json:"salePrice"`
	ShippingCost  types.Money `json:"shippingCost"`
	CommissionFee types.Money `json:"commissionFee"`
	SaleDate      time.Time   `json:"saleDate"`
}

// Sale is one row per consumption event, used only for reporting.
// PurchaseCost is the quantity-weighted average unit cost drawn from the
// batches depleted by that event. Immutable once created.
type Sale struct {
	ID        id.ID        `db:"id" json:"id"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	Size      catalog.Size `db:"size" json:"size"`
	Quantity  int          `db:"quantity" json:"quantity"`
	SaleDate  time.Time    `db:"sale_date" json:"saleDate"`

	PurchaseCost  types.Money `db:"purchase_cost" json:"purchaseCost"`
	SalePrice     types.Money `db:"sale_price" json:"salePrice"`
	ShippingCost  types.Money `db:"shipping_cost" json:"shippingCost"`
	CommissionFee types.Money `db:"commission_fee" json:"commissionFee"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ValuationRow is one line of the stock valuation report:
// on-hand count and remaining-batch value per (product, size).
type ValuationRow struct {
	ProductID id.ID        `db:"product_id" json:"productId"`
	Size      catalog.Size `db:"size" json:"size"`
	OnHand    int          `db:"on_hand" json:"onHand"`
	Value     types.Money  `db:"value" json:"value"`
}
