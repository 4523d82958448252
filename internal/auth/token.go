// Package auth handles the recruiter session: logging in, storing the bearer
// token, and noticing when it expires.
//
// Tokens are parsed without verifying their signature. The backend verifies
// them; the client only reads the expiry to end the session on time.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Auth errors.
var (
	ErrNoToken       = errors.New("not logged in")
	ErrInvalidToken  = errors.New("invalid session token")
	ErrTokenExpired  = errors.New("session token expired")
	ErrLoginRejected = errors.New("login rejected: check email and password")
)

// Token is a parsed bearer token.
type Token struct {
	Raw     string
	Subject string
	Email   string
	// ExpiresAt is zero when the token carries no exp claim.
	ExpiresAt time.Time
}

// ParseToken reads raw's claims without verifying its signature.
func ParseToken(raw string) (Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Token{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	tok := Token{Raw: raw}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if exp != nil {
		tok.ExpiresAt = exp.Time
	}
	tok.Subject, _ = claims.GetSubject()
	if email, ok := claims["email"].(string); ok {
		tok.Email = email
	}
	return tok, nil
}

// Expired reports whether the token is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Remaining returns the time left before expiry, or 0 when expired or when
// the token never expires.
func (t Token) Remaining(now time.Time) time.Duration {
	if t.ExpiresAt.IsZero() {
		return 0
	}
	return max(t.ExpiresAt.Sub(now), 0)
}
