package token

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource adapts the store for an oauth2.Transport so every outgoing request
// carries the stored bearer token. It fails before any network I/O when the
// session is gone or expired.
func (s *Store) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: s}
}

type storeTokenSource struct {
	ctx   context.Context
	store *Store
}

func (ts *storeTokenSource) Token() (*oauth2.Token, error) {
	rawToken, claims, err := ts.store.Validate(ts.ctx)
	if err != nil {
		return nil, err
	}
	expiry, _ := claims.Expiry()
	return &oauth2.Token{
		AccessToken: rawToken,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}
