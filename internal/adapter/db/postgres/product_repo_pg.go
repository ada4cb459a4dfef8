package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"products-api/internal/domain/product"
	apperrors "products-api/pkg/errors"
)

// ProductRepoPG implements the product Repository interface using GORM.
type ProductRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProductRepoPG creates a new instance of ProductRepoPG.
func NewProductRepoPG(db *gorm.DB, log *zap.Logger) *ProductRepoPG {
	return &ProductRepoPG{db: db, log: log}
}

// Create inserts p. Any ID set by the caller is discarded.
func (r *ProductRepoPG) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	if p == nil {
		return nil, errors.New("product cannot be nil")
	}

	model := ProductSchema{
		Name:     p.Name,
		Price:    roundPrice(p.Price),
		Category: int(p.Category),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create product in db", zap.Error(err), zap.String("name", p.Name))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.log.Info("product created in db", zap.String("id", model.ID.String()))
	return toDomainProduct(model), nil
}

// GetByID retrieves a product by ID or returns a NotFoundError.
func (r *ProductRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var model ProductSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("product not found", zap.String("id", id.String()))
			return nil, apperrors.NewNotFoundError("product", "")
		}
		r.log.Error("failed to get product from db", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return toDomainProduct(model), nil
}

// Update overwrites name, price and category of the product with p.ID.
func (r *ProductRepoPG) Update(ctx context.Context, p *product.Product) (*product.Product, error) {
	if p == nil {
		return nil, errors.New("product cannot be nil")
	}

	price := roundPrice(p.Price)

	// A map keeps zero values (price 0, category Food) in the UPDATE.
	res := r.db.WithContext(ctx).
		Model(&ProductSchema{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":     p.Name,
			"price":    price,
			"category": int(p.Category),
		})
	if res.Error != nil {
		r.log.Error("failed to update product in db", zap.Error(res.Error), zap.String("id", p.ID.String()))
		return nil, fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("product", "")
	}

	r.log.Info("product updated in db", zap.String("id", p.ID.String()))
	updated := *p
	updated.Price = price
	return &updated, nil
}

// Delete removes the product with the given ID or returns a NotFoundError.
func (r *ProductRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete product in db", zap.Error(res.Error), zap.String("id", id.String()))
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("product", "")
	}

	r.log.Info("product deleted in db", zap.String("id", id.String()))
	return nil
}

// roundPrice rounds half away from zero to the two decimals of the price
// column, so the value handed back from a write matches what List reads.
func roundPrice(p float64) float64 {
	return decimal.NewFromFloat(p).Round(2).InexactFloat64()
}

// List returns every product ordered by name.
func (r *ProductRepoPG) List(ctx context.Context) ([]product.Product, error) {
	var models []ProductSchema
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list products from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]product.Product, len(models))
	for i, m := range models {
		products[i] = *toDomainProduct(m)
	}
	return products, nil
}

func toDomainProduct(m ProductSchema) *product.Product {
	return &product.Product{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		Category: product.Category(m.Category),
	}
}
