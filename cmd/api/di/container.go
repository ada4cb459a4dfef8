package di

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"products-api/cmd/api/infrastructure"
	"products-api/internal/adapter/cache"
	"products-api/internal/adapter/db/postgres"
	ginhandler "products-api/internal/adapter/gin/handler"
	"products-api/internal/adapter/gin/router"
	"products-api/internal/adapter/repository/cached"
	"products-api/internal/config"
	"products-api/internal/usecase/product"
	"products-api/internal/usecase/user"
	redisclient "products-api/pkg/redis"
	"products-api/pkg/security"
	"products-api/pkg/token"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *gorm.DB
	RedisClient    *redisclient.Client
	Tokens         *token.Manager
	UserUC         user.Usecase
	ProductUC      product.Usecase
	AuthHandler    *ginhandler.AuthHandler
	ProductHandler *ginhandler.ProductHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	tokens, err := token.NewManager([]byte(cfg.Auth.JWTSecret), token.WithTTL(cfg.Auth.JWTTTL()))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: l,
		DB:     db,
		Tokens: tokens,
	}

	// Initialize repositories
	var productRepo product.Repository = postgres.NewProductRepoPG(db, l)
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		productCache := cache.NewRedisProductCache(rdb.Client, cfg.Redis.CacheTTL(), l)
		productRepo = cached.NewProductRepository(productRepo, productCache, l)
	}
	userRepo := postgres.NewUserRepoPG(db, l)

	// Initialize use cases
	c.UserUC = user.New(userRepo, security.NewPasswordHasher(cfg.Auth.BcryptCost), tokens, l)
	c.ProductUC = product.New(productRepo, l)

	// Initialize Gin handlers
	c.AuthHandler = ginhandler.NewAuthHandler(c.UserUC, l)
	c.ProductHandler = ginhandler.NewProductHandler(c.ProductUC, l)

	return c, nil
}

// HealthChecks returns a health check per backing service.
func (c *Container) HealthChecks() map[string]router.HealthCheck {
	checks := map[string]router.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient.Healthy
	}
	return checks
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
