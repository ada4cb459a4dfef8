package product

import (
	"github.com/google/uuid"

	domain "products-api/internal/domain/product"
)

// CreateProductRequest represents the request payload for adding a product.
type CreateProductRequest struct {
	Name     string
	Price    float64
	Category domain.Category `validate:"category"`
}

// UpdateProductRequest represents the request payload for replacing the
// mutable fields of an existing product.
type UpdateProductRequest struct {
	ID       uuid.UUID
	Name     string
	Price    float64
	Category domain.Category `validate:"category"`
}
