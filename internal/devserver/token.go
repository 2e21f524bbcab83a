// Package devserver is an in-memory TaskBuddy backend stub. It speaks the
// same REST and WebSocket contract as the production API so the client SDK
// and CLI can be exercised end to end without external services.
package devserver

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// Tokens issues and verifies the HS256 bearer tokens the stub hands out.
type Tokens struct {
	secret string
	ttl    time.Duration
}

// NewTokens builds a token codec. A non-positive ttl defaults to 24h.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: secret, ttl: ttl}
}

// Issue signs a token for the given account.
func (t *Tokens) Issue(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"exp":      time.Now().Add(t.ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(t.secret))
}

// Identity is the verified content of a bearer token.
type Identity struct {
	UserID   int64
	Username string
	Role     domain.Role
}

// Verify parses and validates a token string.
func (t *Tokens) Verify(raw string) (*Identity, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(t.secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrNotAuthenticated
	}

	id := &Identity{}
	if sub, ok := claims["sub"].(float64); ok {
		id.UserID = int64(sub)
	}
	if name, ok := claims["username"].(string); ok {
		id.Username = name
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = domain.Role(role)
	}
	if id.UserID == 0 || !id.Role.Valid() {
		return nil, domain.ErrNotAuthenticated
	}
	return id, nil
}
