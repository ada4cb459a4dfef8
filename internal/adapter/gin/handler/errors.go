package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "products-api/pkg/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var internalErrorResponse = ErrorResponse{
	Error:   "internal_error",
	Message: "An internal error occurred",
}

// handleError maps application errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	var (
		validationErr   *apperrors.ValidationError
		notFoundErr     *apperrors.NotFoundError
		conflictErr     *apperrors.ConflictError
		unauthorizedErr *apperrors.UnauthorizedError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(validationErr.HTTPStatus(), ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		c.Status(notFoundErr.HTTPStatus())
	case errors.As(err, &conflictErr):
		// No detail: callers must not learn whether the name or the email collided.
		c.JSON(conflictErr.HTTPStatus(), ErrorResponse{Error: "conflict"})
	case errors.As(err, &unauthorizedErr):
		c.JSON(unauthorizedErr.HTTPStatus(), ErrorResponse{Error: "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, internalErrorResponse)
	}
}

// badRequest responds to a body or query that could not be decoded.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
