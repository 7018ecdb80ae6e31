package handlers

import (
	"github.com/gin-gonic/gin"

	"magazyn/internal/core/apperror"
	"magazyn/internal/core/id"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/domain/ledger"
	"magazyn/internal/infrastructure/http/v1/dto"
)

// StockHandler serves purchase and consumption endpoints.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// RecordPurchase handles POST /stock/purchases.
func (h *StockHandler) RecordPurchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", req.ProductID))
		return
	}

	batch, err := h.service.RecordPurchase(c.Request.Context(), ledger.PurchaseInput{
		ProductID:     productID,
		Size:          catalog.NormalizeSize(req.Size),
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		PurchaseDate:  req.PurchaseDate,
		Barcode:       req.Barcode,
		InvoiceNumber: req.InvoiceNumber,
		Supplier:      req.Supplier,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, batch.ID.String())
}

// Consume handles POST /stock/consumptions.
func (h *StockHandler) Consume(c *gin.Context) {
	var req dto.ConsumeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", req.ProductID))
		return
	}

	consumed, err := h.service.ConsumeStock(c.Request.Context(), productID, catalog.NormalizeSize(req.Size), req.Quantity, ledger.SaleContext{
		SalePrice:     req.SalePrice,
		ShippingCost:  req.ShippingCost,
		CommissionFee: req.CommissionFee,
		SaleDate:      req.SaleDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ConsumeResponse{
		Requested: req.Quantity,
		Consumed:  consumed,
		Short:     consumed < req.Quantity,
	})
}

// SetPrice handles POST /stock/prices.
func (h *StockHandler) SetPrice(c *gin.Context) {
	var req dto.PriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", req.ProductID))
		return
	}

	if err := h.service.SetCurrentPrice(c.Request.Context(), productID, catalog.NormalizeSize(req.Size), req.Price); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "price recorded")
}

// ListBatches handles GET /stock/batches?productId=...&size=...
func (h *StockHandler) ListBatches(c *gin.Context) {
	productID, err := id.Parse(c.Query("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", c.Query("productId")))
		return
	}

	batches, err := h.service.Batches(c.Request.Context(), productID, catalog.NormalizeSize(c.Query("size")))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": batches, "count": len(batches)})
}
