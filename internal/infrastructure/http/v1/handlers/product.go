package handlers

import (
	"github.com/gin-gonic/gin"

	"magazyn/internal/core/apperror"
	"magazyn/internal/domain/catalog"
	"magazyn/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves catalog product endpoints.
type ProductHandler struct {
	*BaseHandler
	service *catalog.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *catalog.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product := catalog.NewProduct(req.Category, req.Brand, req.Series, req.Color)
	product.LegacyName = req.LegacyName
	for _, sr := range req.Sizes {
		size := catalog.NormalizeSize(sr.Size)
		if !catalog.IsValidSize(size) {
			h.Error(c, apperror.NewValidation("invalid size").
				WithDetail("field", "sizes").
				WithDetail("value", sr.Size))
			return
		}
		ps := catalog.NewProductSize(product.ID, size)
		if sr.Barcode != "" {
			barcode := sr.Barcode
			ps.Barcode = &barcode
		}
		product.Sizes = append(product.Sizes, *ps)
	}

	if err := h.service.CreateProduct(c.Request.Context(), product); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, product.ID.String())
}

// Get handles GET /catalog/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, product)
}

// List handles GET /catalog/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": products, "count": len(products)})
}

// Delete handles DELETE /catalog/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// AddSize handles POST /catalog/products/:id/sizes.
func (h *ProductHandler) AddSize(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddSizeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ps, err := h.service.AddSize(c.Request.Context(), productID, catalog.NormalizeSize(req.Size), req.Barcode)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, ps.ID.String())
}

// GetByBarcode handles GET /catalog/barcodes/:barcode.
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	ps, err := h.service.FindByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, ps)
}
