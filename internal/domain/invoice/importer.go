// Package invoice provides the supplier-invoice import orchestrator: it
// resolves each parsed invoice line against the catalog, records the
// delivery in the batch ledger, creates catalog entries for unresolved
// lines, and reports the outcome row by row.
package invoice

import (
	"context"
	"fmt"
	"time"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/core/types"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/domain/match"
	"magazyn/pkg/logger"
)

// CandidateSource yields the resolution candidate snapshot, typically
// through a cache in front of the catalog repository. Invalidate is called
// after the importer creates a catalog entry so later rows of the same
// document can match it.
type CandidateSource interface {
	Candidates(ctx context.Context) ([]catalog.Candidate, error)
	Invalidate(ctx context.Context) error
}

// Row is one parsed invoice line with its commercial values.
type Row struct {
	match.InvoiceRow

	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
}

// Document is a parsed supplier invoice handed to the importer.
type Document struct {
	Supplier      string    `json:"supplier"`
	InvoiceNumber string    `json:"invoiceNumber"`
	InvoiceDate   time.Time `json:"invoiceDate"`
	Rows          []Row     `json:"rows"`
}

// RowResult reports what happened to one invoice line.
type RowResult struct {
	Line      int    `json:"line"`
	Name      string `json:"name"`
	MatchType string `json:"matchType"`

	ProductID id.ID        `json:"productId,omitempty"`
	SizeID    id.ID        `json:"sizeId,omitempty"`
	Size      catalog.Size `json:"size,omitempty"`
	Quantity  int          `json:"quantity"`

	// CreatedProduct is true when the line resolved to nothing and a new
	// catalog entry was created for it.
	CreatedProduct bool `json:"createdProduct"`

	// BarcodeAttached is true when the line's barcode was written onto a
	// previously barcode-less size row.
	BarcodeAttached bool `json:"barcodeAttached"`

	Error string `json:"error,omitempty"`
}

// Report is the outcome of one import: one result per input row plus
// counters. Row failures never abort the document.
type Report struct {
	InvoiceNumber string      `json:"invoiceNumber"`
	Supplier      string      `json:"supplier"`
	Rows          []RowResult `json:"rows"`

	Matched int `json:"matched"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// Importer wires the resolution engine, the catalog, and the batch ledger
// into the invoice import flow.
type Importer struct {
	catalog    catalog.Repository
	ledger     *ledger.Service
	candidates CandidateSource
	cfg        match.Config
}

// NewImporter creates an importer with the given fuzzy-match configuration.
func NewImporter(catalogRepo catalog.Repository, ledgerSvc *ledger.Service, candidates CandidateSource, cfg match.Config) *Importer {
	return &Importer{
		catalog:    catalogRepo,
		ledger:     ledgerSvc,
		candidates: candidates,
		cfg:        cfg,
	}
}

// Import processes a parsed supplier invoice. Each row is resolved and
// recorded independently; a failing row is reported and skipped, the rest
// of the document continues.
func (im *Importer) Import(ctx context.Context, doc Document) (*Report, error) {
	if len(doc.Rows) == 0 {
		return nil, apperror.NewValidation("invoice has no rows").
			WithDetail("invoiceNumber", doc.InvoiceNumber)
	}
	if doc.InvoiceDate.IsZero() {
		doc.InvoiceDate = time.Now().UTC()
	}

	report := &Report{
		InvoiceNumber: doc.InvoiceNumber,
		Supplier:      doc.Supplier,
		Rows:          make([]RowResult, 0, len(doc.Rows)),
	}

	for i, row := range doc.Rows {
		res := im.importRow(ctx, doc, row)
		res.Line = i + 1
		res.Name = row.Name
		res.Quantity = row.Quantity

		switch {
		case res.Error != "":
			report.Failed++
		case res.CreatedProduct:
			report.Created++
		default:
			report.Matched++
		}
		report.Rows = append(report.Rows, res)
	}

	logger.Info(ctx, "invoice imported",
		"invoice", doc.InvoiceNumber,
		"supplier", doc.Supplier,
		"rows", len(doc.Rows),
		"matched", report.Matched,
		"created", report.Created,
		"failed", report.Failed)

	return report, nil
}

func (im *Importer) importRow(ctx context.Context, doc Document, row Row) RowResult {
	if row.Quantity <= 0 {
		return RowResult{Error: "quantity must be positive"}
	}

	candidates, err := im.candidates.Candidates(ctx)
	if err != nil {
		return RowResult{Error: fmt.Sprintf("load candidates: %v", err)}
	}

	resolved := match.Resolve(row.InvoiceRow, candidates, im.cfg)
	result := RowResult{MatchType: resolved.Type.String()}

	if resolved.Type == match.MatchNone {
		return im.createAndRecord(ctx, doc, row, result)
	}

	ps, err := im.catalog.GetSize(ctx, resolved.SizeID)
	if err != nil {
		result.Error = fmt.Sprintf("load matched size row: %v", err)
		return result
	}
	result.ProductID = ps.ProductID
	result.SizeID = ps.ID
	result.Size = ps.Size

	if _, err := im.ledger.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID:     ps.ProductID,
		Size:          ps.Size,
		Quantity:      row.Quantity,
		UnitPrice:     row.UnitPrice,
		PurchaseDate:  doc.InvoiceDate,
		Barcode:       row.Barcode,
		InvoiceNumber: doc.InvoiceNumber,
		Supplier:      doc.Supplier,
	}); err != nil {
		result.Error = fmt.Sprintf("record purchase: %v", err)
		return result
	}

	// A scanned barcode on a row matched by SKU or fuzzy name upgrades the
	// size row for exact matching next time.
	if row.Barcode != "" && ps.BarcodeValue() == "" {
		if err := im.catalog.SetSizeBarcode(ctx, ps.ID, row.Barcode); err != nil {
			logger.Warn(ctx, "barcode backfill skipped",
				"size_id", ps.ID,
				"barcode", row.Barcode,
				"error", err)
		} else {
			result.BarcodeAttached = true
			if err := im.candidates.Invalidate(ctx); err != nil {
				logger.Warn(ctx, "candidate cache invalidation failed", "error", err)
			}
		}
	}

	return result
}

// createAndRecord handles the NONE outcome: a new catalog entry is created
// from whatever structure the row's name yields, then the delivery is
// recorded against it.
func (im *Importer) createAndRecord(ctx context.Context, doc Document, row Row, result RowResult) RowResult {
	size := catalog.SizeUniversal
	if row.Size != "" {
		size = catalog.NormalizeSize(row.Size)
		if !catalog.IsValidSize(size) {
			result.Error = fmt.Sprintf("unknown size %q", row.Size)
			return result
		}
	}

	product := catalog.NewProduct(
		match.DetectCategory(row.Name),
		"",
		match.DetectSeries(row.Name),
		row.Color,
	)
	if product.Category == "" {
		// Nothing structured could be extracted; keep the raw name.
		product.LegacyName = row.Name
	}
	if err := product.Validate(ctx); err != nil {
		result.Error = fmt.Sprintf("new product invalid: %v", err)
		return result
	}
	if err := im.catalog.CreateProduct(ctx, product); err != nil {
		result.Error = fmt.Sprintf("create product: %v", err)
		return result
	}
	result.ProductID = product.ID
	result.Size = size
	result.CreatedProduct = true

	if _, err := im.ledger.RecordPurchase(ctx, ledger.PurchaseInput{
		ProductID:     product.ID,
		Size:          size,
		Quantity:      row.Quantity,
		UnitPrice:     row.UnitPrice,
		PurchaseDate:  doc.InvoiceDate,
		Barcode:       row.Barcode,
		InvoiceNumber: doc.InvoiceNumber,
		Supplier:      doc.Supplier,
	}); err != nil {
		result.Error = fmt.Sprintf("record purchase: %v", err)
		return result
	}

	if ps, err := im.catalog.GetSizeForUpdate(ctx, product.ID, size); err == nil {
		result.SizeID = ps.ID
	}

	// Later rows of this document must be able to match the new entry.
	if err := im.candidates.Invalidate(ctx); err != nil {
		logger.Warn(ctx, "candidate cache invalidation failed", "error", err)
	}

	return result
}
