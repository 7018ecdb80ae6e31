// Package fulfillment processes marketplace orders against the stock
// ledger: each order line is resolved to a catalog (product, size) row and
// consumed from the cheapest purchase batches. Short fills are reported,
// never raised.
package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/domain/match"
	"magazyn/pkg/logger"
)

// sizeAttribute is the marketplace attribute key carrying the size.
const sizeAttribute = "rozmiar"

// CandidateSource yields the resolution candidate snapshot.
type CandidateSource interface {
	Candidates(ctx context.Context) ([]catalog.Candidate, error)
}

// Line is one order position as exported by the marketplace.
type Line struct {
	Name      string      `json:"name"`
	EAN       string      `json:"ean,omitempty"`
	Size      string      `json:"size,omitempty"`
	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`

	// Attributes carries marketplace offer attributes; the size often
	// arrives here under "rozmiar" instead of a dedicated field.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// SizeHint returns the line's size, falling back to the size attribute.
func (l Line) SizeHint() string {
	if l.Size != "" {
		return l.Size
	}
	for k, v := range l.Attributes {
		if strings.EqualFold(strings.TrimSpace(k), sizeAttribute) {
			return v
		}
	}
	return ""
}

// Order is one marketplace order to fulfill.
type Order struct {
	OrderNumber  string      `json:"orderNumber"`
	SaleDate     time.Time   `json:"saleDate"`
	ShippingCost types.Money `json:"shippingCost"`
	Lines        []Line      `json:"lines"`
}

// LineResult reports the stock outcome of one order line.
type LineResult struct {
	Name      string `json:"name"`
	MatchType string `json:"matchType"`

	ProductID id.ID        `json:"productId,omitempty"`
	SizeID    id.ID        `json:"sizeId,omitempty"`
	Size      catalog.Size `json:"size,omitempty"`

	Requested int `json:"requested"`
	Consumed  int `json:"consumed"`

	// Short is true when fewer units were on hand than the line ordered.
	Short bool `json:"short"`

	Error string `json:"error,omitempty"`
}

// Result is the outcome of one order. Line failures never abort the order.
type Result struct {
	OrderNumber string       `json:"orderNumber"`
	Lines       []LineResult `json:"lines"`

	Fulfilled int `json:"fulfilled"`
	ShortItem int `json:"short"`
	Failed    int `json:"failed"`
}

// Service fulfills orders against the catalog and the batch ledger.
type Service struct {
	catalog    catalog.Repository
	ledger     *ledger.Service
	candidates CandidateSource
	cfg        match.Config

	// commissionPct is the marketplace fee in percent of the line total.
	commissionPct decimal.Decimal
}

// NewService creates a fulfillment service. commissionPct is the
// marketplace commission in percent, e.g. 11.5.
func NewService(catalogRepo catalog.Repository, ledgerSvc *ledger.Service, candidates CandidateSource, cfg match.Config, commissionPct float64) *Service {
	return &Service{
		catalog:       catalogRepo,
		ledger:        ledgerSvc,
		candidates:    candidates,
		cfg:           cfg,
		commissionPct: decimal.NewFromFloat(commissionPct),
	}
}

// FulfillOrder consumes stock for every line of an order. Lines are
// processed independently; shipping cost is recorded on the first line
// that actually consumed stock so per-order costs are not double counted.
func (s *Service) FulfillOrder(ctx context.Context, order Order) (*Result, error) {
	if len(order.Lines) == 0 {
		return nil, apperror.NewValidation("order has no lines").
			WithDetail("orderNumber", order.OrderNumber)
	}
	if order.SaleDate.IsZero() {
		order.SaleDate = time.Now().UTC()
	}

	result := &Result{
		OrderNumber: order.OrderNumber,
		Lines:       make([]LineResult, 0, len(order.Lines)),
	}

	shippingCharged := false
	for _, line := range order.Lines {
		lr := s.fulfillLine(ctx, order, line, &shippingCharged)
		lr.Name = line.Name
		lr.Requested = line.Quantity

		switch {
		case lr.Error != "":
			result.Failed++
		case lr.Short:
			result.ShortItem++
		default:
			result.Fulfilled++
		}
		result.Lines = append(result.Lines, lr)
	}

	logger.Info(ctx, "order fulfilled",
		"order", order.OrderNumber,
		"lines", len(order.Lines),
		"fulfilled", result.Fulfilled,
		"short", result.ShortItem,
		"failed", result.Failed)

	return result, nil
}

func (s *Service) fulfillLine(ctx context.Context, order Order, line Line, shippingCharged *bool) LineResult {
	if line.Quantity <= 0 {
		return LineResult{Error: "quantity must be positive"}
	}

	ps, matchType, err := s.resolveLine(ctx, line)
	if err != nil {
		return LineResult{Error: err.Error()}
	}
	lr := LineResult{
		MatchType: matchType,
		ProductID: ps.ProductID,
		SizeID:    ps.ID,
		Size:      ps.Size,
	}

	lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	saleCtx := ledger.SaleContext{
		SalePrice:     line.UnitPrice,
		CommissionFee: lineTotal.Mul(s.commissionPct).Div(decimal.NewFromInt(100)).Round(2),
		SaleDate:      order.SaleDate,
	}
	if !*shippingCharged {
		saleCtx.ShippingCost = order.ShippingCost
	}

	consumed, err := s.ledger.ConsumeStock(ctx, ps.ProductID, ps.Size, line.Quantity, saleCtx)
	if err != nil {
		lr.Error = fmt.Sprintf("consume stock: %v", err)
		return lr
	}
	if consumed > 0 && !*shippingCharged {
		*shippingCharged = true
	}

	lr.Consumed = consumed
	lr.Short = consumed < line.Quantity
	return lr
}

// resolveLine finds the (product, size) row for an order line: exact EAN
// lookup first, then the name-based resolution chain with the size hint.
func (s *Service) resolveLine(ctx context.Context, line Line) (*catalog.ProductSize, string, error) {
	if ean := strings.TrimSpace(line.EAN); ean != "" {
		ps, err := s.catalog.GetSizeByBarcode(ctx, ean)
		if err == nil {
			return ps, match.MatchEAN.String(), nil
		}
		if !apperror.IsNotFound(err) {
			return nil, "", fmt.Errorf("barcode lookup: %w", err)
		}
	}

	candidates, err := s.candidates.Candidates(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load candidates: %w", err)
	}

	resolved := match.Resolve(match.InvoiceRow{
		Name: line.Name,
		Size: line.SizeHint(),
	}, candidates, s.cfg)
	if resolved.Type == match.MatchNone {
		return nil, "", fmt.Errorf("no catalog entry matches order line %q", line.Name)
	}

	ps, err := s.catalog.GetSize(ctx, resolved.SizeID)
	if err != nil {
		return nil, "", fmt.Errorf("load matched size row: %w", err)
	}
	return ps, resolved.Type.String(), nil
}
