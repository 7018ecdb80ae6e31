package handlers

import (
	"github.com/gin-gonic/gin"

	"magazyn/internal/domain/fulfillment"
	"magazyn/internal/infrastructure/http/v1/dto"
)

// OrderHandler serves order fulfillment endpoints.
type OrderHandler struct {
	*BaseHandler
	service *fulfillment.Service
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(base *BaseHandler, service *fulfillment.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// Fulfill handles POST /orders/fulfill.
func (h *OrderHandler) Fulfill(c *gin.Context) {
	var req dto.FulfillOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order := fulfillment.Order{
		OrderNumber:  req.OrderNumber,
		SaleDate:     req.SaleDate,
		ShippingCost: req.ShippingCost,
		Lines:        make([]fulfillment.Line, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		order.Lines = append(order.Lines, fulfillment.Line{
			Name:       l.Name,
			EAN:        l.EAN,
			Size:       l.Size,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Attributes: l.Attributes,
		})
	}

	result, err := h.service.FulfillOrder(c.Request.Context(), order)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
