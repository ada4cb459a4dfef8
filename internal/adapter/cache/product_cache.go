package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "products-api/internal/domain/product"
)

// ProductListKey is the Redis key holding the cached product list.
const ProductListKey = "products:all"

// ProductCache defines the caching operations for the product list.
type ProductCache interface {
	// GetList returns the cached list. hit is false on a cache miss.
	GetList(ctx context.Context) (products []domain.Product, hit bool, err error)

	// SetList stores the list with the configured TTL.
	SetList(ctx context.Context, products []domain.Product) error

	// Invalidate drops the cached list.
	Invalidate(ctx context.Context) error
}

// RedisProductCache implements ProductCache using Redis as the backing store.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisProductCache creates a new Redis-backed product cache.
func NewRedisProductCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisProductCache {
	return &RedisProductCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// GetList retrieves the product list from Redis.
func (c *RedisProductCache) GetList(ctx context.Context) ([]domain.Product, bool, error) {
	data, err := c.client.Get(ctx, ProductListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("product list cache miss")
		return nil, false, nil
	}
	if err != nil {
		c.log.Error("failed to get product list from cache", zap.Error(err))
		return nil, false, err
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.log.Error("failed to unmarshal cached product list", zap.Error(err))
		return nil, false, err
	}

	c.log.Debug("product list cache hit", zap.Int("count", len(products)))
	return products, true, nil
}

// SetList stores the product list in Redis with TTL.
func (c *RedisProductCache) SetList(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal product list: %w", err)
	}

	if err := c.client.Set(ctx, ProductListKey, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set product list cache", zap.Error(err))
		return err
	}

	c.log.Debug("cached product list", zap.Int("count", len(products)), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate removes the cached product list.
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, ProductListKey).Err(); err != nil {
		c.log.Error("failed to invalidate product list cache", zap.Error(err))
		return err
	}
	return nil
}
