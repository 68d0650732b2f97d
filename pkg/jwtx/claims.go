package jwtx

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRefreshWindow is how long before expiry a token should be refreshed.
const DefaultRefreshWindow = 5 * time.Minute

// TokenTypeRefresh marks a refresh token in the "type" claim.
const TokenTypeRefresh = "refresh"

// ErrMalformed reports a token whose payload could not be read.
var ErrMalformed = errors.New("jwtx: malformed token")

// Claims are the claims the backend places in its access and refresh
// tokens. They are read for UX and expiry decisions only, the signature is
// never checked on this side of the wire.
type Claims struct {
	jwt.RegisteredClaims

	// UPN is the user principal name (the login e-mail on this backend)
	UPN string `json:"upn,omitempty"`

	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`

	// Type is "refresh" for refresh tokens and empty for access tokens
	Type string `json:"type,omitempty"`
}

var parser = jwt.NewParser()

// Parse reads the payload segment of token without verifying it.
func Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMalformed
	}

	// Only the payload is read. The header and signature may be anything.
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, ErrMalformed
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	return &claims, nil
}

// Decode is Parse without the error: malformed input yields nil.
func Decode(token string) *Claims {
	claims, err := Parse(token)
	if err != nil {
		return nil
	}
	return claims
}

// IsRefresh reports whether the claims describe a refresh token.
func (c *Claims) IsRefresh() bool {
	return c != nil && c.Type == TokenTypeRefresh
}

// ExpiredAt reports whether the token is expired at now. A token without
// an "exp" claim counts as expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// DueAt reports whether the token has entered its refresh window at now.
// A token without an "exp" claim is never due.
func (c *Claims) DueAt(now time.Time, window time.Duration) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Add(-window))
}

// IsExpired decodes token and reports whether it is expired at now.
// Undecodable tokens count as expired.
func IsExpired(token string, now time.Time) bool {
	return Decode(token).ExpiredAt(now)
}

// ShouldRefresh decodes token and reports whether it expires within the
// default refresh window. Undecodable tokens are never due.
func ShouldRefresh(token string, now time.Time) bool {
	return Decode(token).DueAt(now, DefaultRefreshWindow)
}
