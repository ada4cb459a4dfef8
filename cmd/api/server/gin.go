package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "products-api/internal/adapter/gin/handler"
	ginrouter "products-api/internal/adapter/gin/router"
	"products-api/pkg/token"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	authHandler *ginhandler.AuthHandler,
	productHandler *ginhandler.ProductHandler,
	validator token.Validator,
	routerCfg ginrouter.Config,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(authHandler, productHandler, validator, routerCfg, l)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))
	l.Info("Swagger UI available at", zap.String("url", "http://localhost"+ginAddr+"/swagger/index.html"))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ginMode maps APP_ENV onto a Gin mode.
func ginMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
