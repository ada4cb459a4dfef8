package product

import (
	"context"

	"github.com/google/uuid"

	domain "products-api/internal/domain/product"
)

// Usecase defines the catalog operations exposed to transports.
type Usecase interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in CreateProductRequest) (*domain.Product, error)
	Update(ctx context.Context, in UpdateProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
