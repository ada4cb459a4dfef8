package cached

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"products-api/internal/adapter/cache"
	domain "products-api/internal/domain/product"
	"products-api/internal/usecase/product"
)

// ProductRepository implements product.Repository with a cached List.
// It wraps a persistent repository (DB) and a cache implementation.
type ProductRepository struct {
	dbRepo product.Repository
	cache  cache.ProductCache
	log    *zap.Logger
	group  singleflight.Group
}

var _ product.Repository = (*ProductRepository)(nil)

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(dbRepo product.Repository, c cache.ProductCache, log *zap.Logger) *ProductRepository {
	return &ProductRepository{
		dbRepo: dbRepo,
		cache:  c,
		log:    log,
	}
}

// Create inserts through the DB repository and invalidates the list.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created, err := r.dbRepo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

// GetByID delegates to the DB repository.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.dbRepo.GetByID(ctx, id)
}

// Update writes through the DB repository and invalidates the list.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	updated, err := r.dbRepo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return updated, nil
}

// Delete removes through the DB repository and invalidates the list.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// List serves the product list using the cache-aside pattern. Concurrent
// misses share a single database query.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	if products, ok := r.fromCache(ctx); ok {
		return products, nil
	}

	result, err, _ := r.group.Do(cache.ProductListKey, func() (any, error) {
		// Another caller may have filled the cache while we waited.
		if products, ok := r.fromCache(ctx); ok {
			return products, nil
		}

		products, err := r.dbRepo.List(ctx)
		if err != nil {
			return nil, err
		}

		if err := r.cache.SetList(ctx, products); err != nil {
			r.log.Warn("failed to cache product list", zap.Error(err))
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]domain.Product), nil
}

func (r *ProductRepository) fromCache(ctx context.Context) ([]domain.Product, bool) {
	products, hit, err := r.cache.GetList(ctx)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Error(err))
		return nil, false
	}
	return products, hit
}

func (r *ProductRepository) invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		r.log.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}
