package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "products-api/internal/domain/user"
	apperrors "products-api/pkg/errors"
	"products-api/pkg/logger"
)

// Repository defines the data access operations needed for accounts.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // nil, nil when absent
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer mints bearer tokens handed out on login.
type TokenIssuer interface {
	Issue() (string, error)
}

// Service implements Usecase.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
	log    *zap.Logger
}

// New creates a Service.
func New(r Repository, h PasswordHasher, t TokenIssuer, log *zap.Logger) *Service {
	return &Service{repo: r, hasher: h, tokens: t, log: log}
}

// Register creates an account unless the name or the email is already taken.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*PublicUser, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("registering user", zap.String("name", in.Name))

	taken, err := s.repo.ExistsByNameOrEmail(ctx, in.Name, in.Email)
	if err != nil {
		log.Error("failed to check user uniqueness", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to register user", err)
	}
	if taken {
		log.Warn("name or email already registered", zap.String("name", in.Name))
		return nil, apperrors.NewConflictError("user")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to register user", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		var conflict *apperrors.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to register user", err)
	}

	return toPublicUser(created), nil
}

// Login verifies the credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	log := logger.WithContext(ctx, s.log)

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to look up user for login", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to log in", err)
	}
	if u == nil || !s.hasher.Compare(u.PasswordHash, in.Password) {
		log.Warn("login rejected")
		return nil, apperrors.ErrUnauthorized
	}

	tok, err := s.tokens.Issue()
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to log in", err)
	}

	log.Info("user logged in", zap.String("id", u.ID.String()))
	return &LoginResponse{User: *toPublicUser(u), Token: tok}, nil
}

func toPublicUser(u *domain.User) *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
