package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"products-api/pkg/logger"
	"products-api/pkg/token"
)

const bearerScheme = "Bearer"

// Auth returns a Gin middleware that requires a valid bearer token.
// The token carries no identity, so nothing is attached to the context.
func Auth(validator token.Validator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.WithContext(c.Request.Context(), log)

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reqLog.Debug("missing bearer token", zap.String("path", c.Request.URL.Path))
			abortUnauthenticated(c)
			return
		}

		if err := validator.Validate(raw); err != nil {
			reqLog.Info("rejected bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abortUnauthenticated(c)
			return
		}

		c.Next()
	}
}

// bearerToken extracts the credentials of an Authorization header using the
// Bearer scheme. The scheme name is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	return credentials, credentials != ""
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", bearerScheme)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
}
