package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"products-api/internal/usecase/user"
	"products-api/pkg/logger"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc user.Usecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		log: log,
	}
}

// RegisterRequest represents the HTTP request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the HTTP request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents the public view of a user
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// RegisterResponse represents the HTTP response for a new account
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// LoginResponse represents the HTTP response for a successful login
type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /account
func (h *AuthHandler) Register(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid register request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}

	log.Info("Register request", zap.String("name", req.Name))

	resp, err := h.uc.Register(c.Request.Context(), user.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Warn("Register failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, RegisterResponse{User: toUserResponse(*resp)})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), user.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Info("Login failed", zap.Error(err))
		handleError(c, err)
		return
	}

	log.Info("Login succeeded", zap.String("user_id", resp.User.ID.String()))
	c.JSON(http.StatusOK, LoginResponse{
		User:  toUserResponse(resp.User),
		Token: resp.Token,
	})
}

func toUserResponse(u user.PublicUser) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
