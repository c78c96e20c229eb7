package auth

import (
	"context"

	"github.com/jrsteele09/go-storefront-client/token"
)

// Admin role names the backend issues.
const (
	RoleAdmin       = "ROLE_ADMIN"
	RoleAdminLegacy = "ADMIN"
)

// SessionStore is the part of token.Store the gate reads and purges.
type SessionStore interface {
	Token(ctx context.Context) (string, error)
	Role(ctx context.Context) (string, error)
	IsExpired(rawToken string) bool
	ClearSession(ctx context.Context) error
}

var _ SessionStore = (*token.Store)(nil)

// Session is the auth state derived from storage. It is recomputed on every
// check and never cached.
type Session struct {
	IsAuthenticated bool
	IsAdmin         bool
	Role            string
	Email           string
}

// IsAdminRole reports whether role grants the admin views.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleAdminLegacy
}

// Evaluate reads the stored token and role. It has no side effects: an expired
// token simply yields an unauthenticated session.
func Evaluate(ctx context.Context, store SessionStore) Session {
	rawToken, err := store.Token(ctx)
	if err != nil || store.IsExpired(rawToken) {
		return Session{}
	}
	role, _ := store.Role(ctx)

	s := Session{
		IsAuthenticated: true,
		IsAdmin:         IsAdminRole(role),
		Role:            role,
	}
	if claims, err := token.Decode(rawToken); err == nil {
		s.Email = claims.Email
	}
	return s
}
