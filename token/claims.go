package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
)

// Claims is the part of the backend's bearer token the client reads.
// The signature is never checked here; the backend does that on every request.
type Claims struct {
	Email string `json:"email,omitempty"` // Email of the logged in user
	Role  string `json:"role,omitempty"`  // Role granted by the backend, e.g. ROLE_ADMIN
	jwtlib.RegisteredClaims
}

// Decode reads the claims segment of a three part token without verifying it.
func Decode(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" || strings.Count(rawToken, ".") != 2 {
		return nil, apperrors.ErrInvalidToken
	}

	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	return claims, nil
}

// Expiry returns the exp claim and whether it was present.
func (c *Claims) Expiry() (time.Time, bool) {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// ExpiredAt reports whether the token is expired at now, comparing in
// milliseconds. A token without exp counts as expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	exp, ok := c.Expiry()
	if !ok {
		return true
	}
	return exp.Unix()*1000 < now.UnixMilli()
}
