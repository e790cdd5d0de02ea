package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	"chat-api/errors"

	"github.com/golang-jwt/jwt/v5"
)

const issuerName = "chat-api"

// Identity is the decoded, verified result of a bearer credential.
// It is a per-request value, never persisted.
type Identity struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidAt reports whether the identity covers the given instant.
func (i Identity) ValidAt(t time.Time) bool {
	return !t.Before(i.IssuedAt) && t.Before(i.ExpiresAt)
}

// Claims is the JWT payload carried by every issued token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with a process-wide
// secret. The secret is injected once at construction and the value is
// immutable afterwards; nothing in this package holds it globally.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(secret []byte, duration time.Duration) TokenIssuer {
	return TokenIssuer{secret: secret, duration: duration}
}

// Generate creates a signed HS256 token for a user id, valid from now
// for the configured duration.
func (t TokenIssuer) Generate(userID string) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
			Issuer:    issuerName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return signed, nil
}

// Validate parses a token string, checks the HMAC signature and the
// expiry, and returns the caller identity. Every failure collapses to
// ErrInvalidToken: a client cannot distinguish a forged token from an
// expired one beyond the generic message.
func (t TokenIssuer) Validate(tokenString string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		// Keep the jwt cause in the chain for logging; the client-facing
		// sentinel stays generic.
		return Identity{}, fmt.Errorf("%w: %w", errors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return Identity{}, errors.ErrInvalidToken
	}

	if claims.IssuedAt == nil || claims.ExpiresAt == nil ||
		!claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return Identity{}, errors.ErrInvalidToken
	}

	return Identity{
		UserID:    claims.UserID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IsExpired reports whether a validation failure was caused by expiry.
// Kept for logging; clients always receive the generic message.
func IsExpired(err error) bool {
	return stderrors.Is(err, jwt.ErrTokenExpired)
}
