package jwtadapter

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "eshop/contexts/identity/domain/errors"
	"eshop/contexts/identity/ports"
)

// AccessClaims is the signed token payload. The shop frontend routes callers
// by the isAdmin flag, so it travels inside the token alongside the subject.
type AccessClaims struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 access tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	clock  ports.Clock
}

func NewManager(secret []byte, ttl time.Duration, clock ports.Clock) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}
	return &Manager{secret: secret, ttl: ttl, clock: clock}, nil
}

func (m *Manager) Issue(userID string, isAdmin bool) (string, error) {
	now := m.clock.Now()
	claims := AccessClaims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Verify(token string) (ports.Claims, error) {
	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.Claims{}, domainerrors.ErrTokenExpired
		}
		return ports.Claims{}, domainerrors.ErrTokenInvalid
	}
	if !parsed.Valid || claims.UserID == "" {
		return ports.Claims{}, domainerrors.ErrTokenInvalid
	}
	return ports.Claims{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}
