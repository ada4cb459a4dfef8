// Package token issues and validates the HS256 bearer tokens handed out at
// login. Tokens carry only registered time claims (exp, iat, nbf).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = time.Hour

// Time claims are encoded with millisecond fractions. At whole-second
// precision a token issued at T+0.9s would carry exp=T+TTL and expire up to a
// second early.
func init() {
	jwt.TimePrecision = time.Millisecond
}

var (
	// ErrEmptySecret is returned when a Manager is built without a signing key.
	ErrEmptySecret = errors.New("token signing secret must not be empty")
	// ErrMissingToken is returned when Validate is called with an empty string.
	ErrMissingToken = errors.New("token is missing")
)

// Issuer mints signed tokens.
type Issuer interface {
	Issue() (string, error)
}

// Validator verifies tokens produced by an Issuer sharing the same secret.
type Validator interface {
	Validate(tokenString string) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for both issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager signs and verifies tokens with a single symmetric key.
// It is immutable after construction and safe for concurrent use.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewManager creates a Manager for the given secret.
func NewManager(secret []byte, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	m := &Manager{
		secret: key,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	// No issuer or audience checks, and no leeway: a token is rejected as soon
	// as its exp has been reached.
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)

	return m, nil
}

// TTL returns the lifetime applied to issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a compact JWS expiring TTL from now.
func (m *Manager) Issue() (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and time claims of tokenString.
func (m *Manager) Validate(tokenString string) error {
	if tokenString == "" {
		return ErrMissingToken
	}

	var claims jwt.RegisteredClaims
	tkn, err := m.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !tkn.Valid {
		return errors.New("invalid token")
	}
	return nil
}
