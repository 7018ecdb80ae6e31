package handlers

import (
	"github.com/gin-gonic/gin"

	"magazyn/internal/domain/invoice"
	"magazyn/internal/domain/match"
	"magazyn/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler serves invoice import and resolution preview endpoints.
type InvoiceHandler struct {
	*BaseHandler
	imp        *invoice.Importer
	candidates invoice.CandidateSource
	cfg        match.Config
}

// NewInvoiceHandler creates an invoice handler.
func NewInvoiceHandler(base *BaseHandler, importer *invoice.Importer, candidates invoice.CandidateSource, cfg match.Config) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, imp: importer, candidates: candidates, cfg: cfg}
}

// Import handles POST /invoices/import.
func (h *InvoiceHandler) Import(c *gin.Context) {
	var req dto.ImportInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := invoice.Document{
		Supplier:      req.Supplier,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		Rows:          make([]invoice.Row, 0, len(req.Rows)),
	}
	for _, r := range req.Rows {
		doc.Rows = append(doc.Rows, invoice.Row{
			InvoiceRow: match.InvoiceRow{
				Name:      r.Name,
				Color:     r.Color,
				Size:      r.Size,
				Barcode:   r.Barcode,
				VendorSKU: r.VendorSKU,
			},
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		})
	}

	report, err := h.imp.Import(c.Request.Context(), doc)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Resolve handles POST /invoices/resolve: a dry run of the resolution
// engine against one row.
func (h *InvoiceHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	candidates, err := h.candidates.Candidates(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	result := match.Resolve(match.InvoiceRow{
		Name:      req.Name,
		Color:     req.Color,
		Size:      req.Size,
		Barcode:   req.Barcode,
		VendorSKU: req.VendorSKU,
	}, candidates, h.cfg)

	resp := dto.ResolveResponse{MatchType: result.Type.String()}
	if result.Type != match.MatchNone {
		resp.SizeID = result.SizeID.String()
		for _, cand := range candidates {
			if cand.SizeID == result.SizeID {
				resp.ProductID = cand.ProductID.String()
				break
			}
		}
	}
	h.OK(c, resp)
}
