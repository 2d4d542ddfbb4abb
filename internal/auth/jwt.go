// Package auth issues and verifies session tokens and hashes passwords.
// It knows nothing about storage; the service layer combines it with the
// user repository.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Claims are the JWT claims of a session token. The user ID travels in the
// standard "sub" claim.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager signs and validates HMAC session tokens.
type TokenManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a TokenManager using algorithm (HS256, HS384 or
// HS512) and issuing tokens that expire after ttl.
func NewTokenManager(secret, algorithm string, ttl time.Duration) (*TokenManager, error) {
	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("auth.NewTokenManager: %w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	if secret == "" {
		return nil, errors.New("auth.NewTokenManager: secret must not be empty")
	}
	return &TokenManager{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Generate issues a token for userID.
func (m *TokenManager) Generate(userID, email string) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth.TokenManager.Generate: sign: %w", err)
	}
	return signed, nil
}

// Validate parses token and returns its claims. Any failure, including a
// token signed with a different algorithm, yields ErrInvalidToken.
func (m *TokenManager) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
