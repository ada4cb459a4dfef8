package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "products-api/internal/domain/product"
	"products-api/internal/usecase/product"
	"products-api/pkg/logger"
)

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	uc  product.Usecase
	log *zap.Logger
}

// NewProductHandler creates a new ProductHandler instance
func NewProductHandler(uc product.Usecase, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		uc:  uc,
		log: log,
	}
}

// ProductRequest represents the HTTP request body for creating or updating
// a product. ID is ignored on create.
type ProductRequest struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Category domain.Category `json:"category"`
}

// ProductResponse represents the HTTP response for product data
type ProductResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Category domain.Category `json:"category"`
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.uc.List(c.Request.Context())
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("List products failed", zap.Error(err))
		handleError(c, err)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}

	p, err := h.uc.Create(c.Request.Context(), product.CreateProductRequest{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		log.Warn("Create product failed", zap.Error(err))
		handleError(c, err)
		return
	}

	log.Info("Product created", zap.String("id", p.ID.String()))
	c.JSON(http.StatusOK, toProductResponse(p))
}

// Update handles PUT /products
func (h *ProductHandler) Update(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update product request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}

	p, err := h.uc.Update(c.Request.Context(), product.UpdateProductRequest{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		log.Warn("Update product failed", zap.String("id", req.ID.String()), zap.Error(err))
		handleError(c, err)
		return
	}

	log.Info("Product updated", zap.String("id", p.ID.String()))
	c.JSON(http.StatusOK, toProductResponse(p))
}

// Delete handles DELETE /products?Id={uuid}
func (h *ProductHandler) Delete(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	idStr := c.Query("Id")
	if idStr == "" {
		idStr = c.Query("id")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", idStr), zap.Error(err))
		badRequest(c, "Id must be a valid UUID")
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		log.Warn("Delete product failed", zap.String("id", id.String()), zap.Error(err))
		handleError(c, err)
		return
	}

	log.Info("Product deleted", zap.String("id", id.String()))
	c.Status(http.StatusNoContent)
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
	}
}
