package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"products-api/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DB: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			SQLitePath:   filepath.Join(t.TempDir(), "products.db"),
			MaxOpenConns: 1,
			AutoMigrate:  true,
		},
		App:    config.AppConfig{HTTPPort: "0"},
		Auth:   config.AuthConfig{JWTSecret: "secret", JWTTTLMinutes: 60, BcryptCost: bcrypt.MinCost},
		Logger: config.LoggerConfig{Level: "info"},
	}
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.NotNil(t, c.AuthHandler)
	assert.NotNil(t, c.ProductHandler)
	assert.Nil(t, c.RedisClient)

	checks := c.HealthChecks()
	require.Contains(t, checks, "database")
	assert.NoError(t, checks["database"](context.Background()))
	assert.NotContains(t, checks, "redis")
}

func TestNewContainer_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mr.Port(), CacheTTLSeconds: 60}

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NotNil(t, c.RedisClient)
	assert.NoError(t, c.HealthChecks()["redis"](context.Background()))

	_, err = c.ProductUC.List(context.Background())
	require.NoError(t, err)
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = ""

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "JWT_SECRET")
}
