package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"products-api/api/swagger"
	"products-api/internal/adapter/gin/handler"
	"products-api/internal/adapter/gin/middleware"
	"products-api/pkg/token"
)

// SpecPath is where the OpenAPI document is served.
const SpecPath = "/openapi/products.json"

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds the router settings.
type Config struct {
	ServiceName    string
	Mode           string
	AllowedOrigins []string
	HealthChecks   map[string]HealthCheck
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	validator token.Validator,
	cfg Config,
	log *zap.Logger,
) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", healthHandler(cfg))

	// API documentation
	router.GET(SpecPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", swagger.Spec)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SpecPath))))

	router.POST("/account", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	router.GET("/products", productHandler.List)
	protected := router.Group("/products", middleware.Auth(validator, log))
	{
		protected.POST("", productHandler.Create)
		protected.PUT("", productHandler.Update)
		protected.DELETE("", productHandler.Delete)
	}

	return router
}

func healthHandler(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(cfg.HealthChecks))
		for name, check := range cfg.HealthChecks {
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		body := gin.H{
			"status":  "healthy",
			"service": cfg.ServiceName,
		}
		if status != http.StatusOK {
			body["status"] = "unhealthy"
		}
		if len(checks) > 0 {
			body["checks"] = checks
		}
		c.JSON(status, body)
	}
}
