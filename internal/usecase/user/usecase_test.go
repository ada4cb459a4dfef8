package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	domain "products-api/internal/domain/user"
	apperrors "products-api/pkg/errors"
	"products-api/pkg/security"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	args := m.Called(ctx, name, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockIssuer is a mock implementation of TokenIssuer
type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository, *MockIssuer, *security.PasswordHasher) {
	repo := new(MockRepository)
	issuer := new(MockIssuer)
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	return New(repo, hasher, issuer, zaptest.NewLogger(t)), repo, issuer, hasher
}

// ==================== REGISTER ====================

func TestRegister_Success(t *testing.T) {
	svc, repo, _, hasher := setupTestService(t)
	ctx := context.Background()
	id := uuid.New()

	repo.On("ExistsByNameOrEmail", ctx, "ana", "ana@x.com").Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "ana" && u.Email == "ana@x.com" &&
			u.PasswordHash != "p1" && hasher.Compare(u.PasswordHash, "p1")
	})).Return(&domain.User{ID: id, Name: "ana", Email: "ana@x.com", PasswordHash: "hash"}, nil)

	got, err := svc.Register(ctx, RegisterRequest{Name: "ana", Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, &PublicUser{ID: id, Name: "ana", Email: "ana@x.com"}, got)

	repo.AssertExpectations(t)
}

func TestRegister_Conflict(t *testing.T) {
	tests := []struct {
		name  string
		uName string
		email string
	}{
		{name: "same email different name", uName: "bob", email: "ana@x.com"},
		{name: "same name different email", uName: "ana", email: "bob@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := setupTestService(t)
			ctx := context.Background()

			repo.On("ExistsByNameOrEmail", ctx, tt.uName, tt.email).Return(true, nil)

			got, err := svc.Register(ctx, RegisterRequest{Name: tt.uName, Email: tt.email, Password: "p"})
			assert.Nil(t, got)

			var conflict *apperrors.ConflictError
			require.True(t, errors.As(err, &conflict))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_LookupFailure(t *testing.T) {
	svc, repo, _, _ := setupTestService(t)
	ctx := context.Background()

	repo.On("ExistsByNameOrEmail", ctx, "ana", "ana@x.com").Return(false, errors.New("db down"))

	_, err := svc.Register(ctx, RegisterRequest{Name: "ana", Email: "ana@x.com", Password: "p1"})
	var internal *apperrors.InternalError
	require.True(t, errors.As(err, &internal))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_CreateConflictPassesThrough(t *testing.T) {
	svc, repo, _, _ := setupTestService(t)
	ctx := context.Background()

	repo.On("ExistsByNameOrEmail", ctx, "ana", "ana@x.com").Return(false, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil, apperrors.NewConflictError("user"))

	_, err := svc.Register(ctx, RegisterRequest{Name: "ana", Email: "ana@x.com", Password: "p1"})
	var conflict *apperrors.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestRegister_CreateFailure(t *testing.T) {
	svc, repo, _, _ := setupTestService(t)
	ctx := context.Background()

	repo.On("ExistsByNameOrEmail", ctx, "ana", "ana@x.com").Return(false, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Register(ctx, RegisterRequest{Name: "ana", Email: "ana@x.com", Password: "p1"})
	var internal *apperrors.InternalError
	assert.True(t, errors.As(err, &internal))
}

// ==================== LOGIN ====================

func TestLogin_Success(t *testing.T) {
	svc, repo, issuer, hasher := setupTestService(t)
	ctx := context.Background()
	id := uuid.New()

	hash, err := hasher.Hash("p1")
	require.NoError(t, err)

	repo.On("GetByEmail", ctx, "ana@x.com").Return(&domain.User{ID: id, Name: "ana", Email: "ana@x.com", PasswordHash: hash}, nil)
	issuer.On("Issue").Return("signed.jwt.token", nil)

	got, err := svc.Login(ctx, LoginRequest{Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", got.Token)
	assert.Equal(t, PublicUser{ID: id, Name: "ana", Email: "ana@x.com"}, got.User)

	issuer.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, issuer, hasher := setupTestService(t)
	ctx := context.Background()

	hash, err := hasher.Hash("p1")
	require.NoError(t, err)
	repo.On("GetByEmail", ctx, "ana@x.com").Return(&domain.User{ID: uuid.New(), Email: "ana@x.com", PasswordHash: hash}, nil)

	got, err := svc.Login(ctx, LoginRequest{Email: "ana@x.com", Password: "wrong"})
	assert.Nil(t, got)

	var unauthorized *apperrors.UnauthorizedError
	require.True(t, errors.As(err, &unauthorized))
	issuer.AssertNotCalled(t, "Issue")
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, repo, issuer, _ := setupTestService(t)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "nobody@x.com").Return(nil, nil)

	got, err := svc.Login(ctx, LoginRequest{Email: "nobody@x.com", Password: "p1"})
	assert.Nil(t, got)

	var unauthorized *apperrors.UnauthorizedError
	require.True(t, errors.As(err, &unauthorized))
	issuer.AssertNotCalled(t, "Issue")
}

func TestLogin_IssueFailure(t *testing.T) {
	svc, repo, issuer, hasher := setupTestService(t)
	ctx := context.Background()

	hash, err := hasher.Hash("p1")
	require.NoError(t, err)
	repo.On("GetByEmail", ctx, "ana@x.com").Return(&domain.User{ID: uuid.New(), Email: "ana@x.com", PasswordHash: hash}, nil)
	issuer.On("Issue").Return("", errors.New("sign failed"))

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@x.com", Password: "p1"})
	var internal *apperrors.InternalError
	assert.True(t, errors.As(err, &internal))
}

func TestLogin_RepositoryFailure(t *testing.T) {
	svc, repo, _, _ := setupTestService(t)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ana@x.com").Return(nil, errors.New("db down"))

	_, err := svc.Login(ctx, LoginRequest{Email: "ana@x.com", Password: "p1"})
	var internal *apperrors.InternalError
	assert.True(t, errors.As(err, &internal))
}

// ==================== LOGGING ====================

func TestLogging_EmailNotLoggedAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	repo := new(MockRepository)
	issuer := new(MockIssuer)
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	svc := New(repo, hasher, issuer, zap.New(core))
	ctx := context.Background()

	hash, err := hasher.Hash("p1")
	require.NoError(t, err)
	repo.On("ExistsByNameOrEmail", ctx, "ana", "ana@x.com").Return(true, nil)
	repo.On("GetByEmail", ctx, "ana@x.com").Return(&domain.User{ID: uuid.New(), Email: "ana@x.com", PasswordHash: hash}, nil)

	_, err = svc.Register(ctx, RegisterRequest{Name: "ana", Email: "ana@x.com", Password: "p1"})
	require.Error(t, err)
	_, err = svc.Login(ctx, LoginRequest{Email: "ana@x.com", Password: "wrong"})
	require.Error(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			assert.NotEqual(t, "email", key, "entry %q", entry.Message)
			assert.NotContains(t, fmt.Sprint(value), "ana@x.com", "entry %q", entry.Message)
		}
	}
}
