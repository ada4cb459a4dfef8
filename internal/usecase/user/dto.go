package user

import "github.com/google/uuid"

// RegisterRequest represents the request payload for creating an account.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// LoginRequest represents the credentials submitted at login.
type LoginRequest struct {
	Email    string
	Password string
}

// PublicUser is the projection of a user that is safe to return to clients.
// It never carries the password or its hash.
type PublicUser struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// LoginResponse represents the result of a successful login.
type LoginResponse struct {
	User  PublicUser
	Token string
}
