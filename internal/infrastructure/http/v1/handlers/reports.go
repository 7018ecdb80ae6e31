package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"magazyn/internal/core/apperror"
	"magazyn/internal/domain/ledger"
)

// ReportsHandler serves reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *ledger.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// StockValuation handles GET /reports/stock-valuation.
func (h *ReportsHandler) StockValuation(c *gin.Context) {
	rows, err := h.service.StockValuation(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": rows, "count": len(rows)})
}

// Sales handles GET /reports/sales?from=...&to=...
// Dates are RFC 3339 or YYYY-MM-DD; to defaults to now, from to 30 days
// before to.
func (h *ReportsHandler) Sales(c *gin.Context) {
	to, ok := h.parseDate(c, "to", time.Now().UTC())
	if !ok {
		return
	}
	from, ok := h.parseDate(c, "from", to.AddDate(0, 0, -30))
	if !ok {
		return
	}

	sales, err := h.service.SalesBetween(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": sales, "count": len(sales), "from": from, "to": to})
}

func (h *ReportsHandler) parseDate(c *gin.Context, key string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	h.Error(c, apperror.NewValidation("invalid date").
		WithDetail("param", key).
		WithDetail("value", raw))
	return time.Time{}, false
}
