package user

import "context"

// Usecase defines the account operations exposed to transports.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*PublicUser, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
}
