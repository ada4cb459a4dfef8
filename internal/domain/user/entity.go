package user

import "github.com/google/uuid"

// User represents a registered account.
type User struct {
	ID           uuid.UUID // ID is assigned by the store on insert
	Name         string    // Name is unique across users
	Email        string    // Email is unique across users
	PasswordHash string    // PasswordHash is a bcrypt hash, never the plaintext
}
