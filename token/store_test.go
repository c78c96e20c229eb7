package token_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	fakestoragerepo "github.com/jrsteele09/go-storefront-client/storage/repofake"
	"github.com/jrsteele09/go-storefront-client/token"
	"github.com/jrsteele09/go-storefront-client/token/tokenfake"
	"github.com/stretchr/testify/require"
)

const testEmail = "jane@example.com"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, options ...token.StoreOption) (*token.Store, *fakestoragerepo.FakeStorageRepo) {
	t.Helper()

	repo := fakestoragerepo.NewFakeStorageRepo()
	options = append([]token.StoreOption{token.WithNowFunc(func() time.Time { return fixedNow })}, options...)
	return token.NewStore(repo, options...), repo
}

func TestIsExpired(t *testing.T) {
	store, _ := newTestStore(t)

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{name: "fresh token one hour ahead", token: tokenfake.Mint(testEmail, "USER", fixedNow.Add(time.Hour)), expired: false},
		{name: "expired one second ago", token: tokenfake.Mint(testEmail, "USER", fixedNow.Add(-time.Second)), expired: true},
		{name: "expires this second", token: tokenfake.Mint(testEmail, "USER", fixedNow), expired: false},
		{name: "missing exp", token: tokenfake.MintWithoutExpiry(testEmail), expired: true},
		{name: "empty", token: "", expired: true},
		{name: "two segments", token: "abc.def", expired: true},
		{name: "garbage payload", token: "aaa.!!!.ccc", expired: true},
		{name: "undecodable header", token: withHeader("!!!", tokenfake.Mint(testEmail, "USER", fixedNow.Add(time.Hour))), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expired, store.IsExpired(tt.token))
		})
	}
}

func withHeader(header, raw string) string {
	return header + raw[strings.Index(raw, "."):]
}

func TestDecode_Claims(t *testing.T) {
	raw := tokenfake.Mint(testEmail, "ROLE_ADMIN", fixedNow.Add(time.Hour))

	claims, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims.Email)
	require.Equal(t, testEmail, claims.Subject)
	require.Equal(t, "ROLE_ADMIN", claims.Role)

	exp, ok := claims.Expiry()
	require.True(t, ok)
	require.Equal(t, fixedNow.Add(time.Hour).Unix(), exp.Unix())
}

func TestSetSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	raw := tokenfake.Mint(testEmail, "USER", fixedNow.Add(time.Hour))

	require.NoError(t, store.SetSession(ctx, raw, "USER"))

	got, err := store.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, raw, got)

	role, err := store.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, "USER", role)
}

func TestSetSession_RejectsMalformedToken(t *testing.T) {
	store, repo := newTestStore(t)

	err := store.SetSession(context.Background(), "not-a-token", "USER")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	require.Equal(t, 0, repo.Len())
}

func TestSetSession_RoleWriteFailureRollsBack(t *testing.T) {
	store, repo := newTestStore(t)
	repo.FailSet(token.RoleKey, errors.New("disk full"))

	err := store.SetSession(context.Background(), tokenfake.Mint(testEmail, "USER", fixedNow.Add(time.Hour)), "USER")
	require.Error(t, err)
	require.Equal(t, 0, repo.Len())
}

func TestClearSession(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetSession(ctx, tokenfake.Mint(testEmail, "USER", fixedNow.Add(time.Hour)), "USER"))

	require.NoError(t, store.ClearSession(ctx))
	require.Equal(t, 0, repo.Len())

	_, err := store.Token(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoToken)
	_, err = store.Role(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoRole)

	// clearing an empty session is fine
	require.NoError(t, store.ClearSession(ctx))
}

func TestValidate(t *testing.T) {
	var reasons []error
	store, repo := newTestStore(t, token.WithExpiryHook(func(reason error) {
		reasons = append(reasons, reason)
	}))
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		raw := tokenfake.Mint(testEmail, "USER", fixedNow.Add(time.Hour))
		require.NoError(t, store.SetSession(ctx, raw, "USER"))

		got, claims, err := store.Validate(ctx)
		require.NoError(t, err)
		require.Equal(t, raw, got)
		require.Equal(t, testEmail, claims.Email)
		require.Empty(t, reasons)
	})

	t.Run("expired token purges the session", func(t *testing.T) {
		require.NoError(t, store.SetSession(ctx, tokenfake.Mint(testEmail, "USER", fixedNow.Add(-time.Minute)), "USER"))

		_, _, err := store.Validate(ctx)
		require.ErrorIs(t, err, apperrors.ErrTokenExpired)
		require.Equal(t, 0, repo.Len())
		require.Len(t, reasons, 1)
		require.ErrorIs(t, reasons[0], apperrors.ErrTokenExpired)
	})

	t.Run("malformed stored token purges the session", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, token.TokenKey, "x.y.z"))
		require.NoError(t, repo.Set(ctx, token.RoleKey, "USER"))

		_, _, err := store.Validate(ctx)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
		require.Equal(t, 0, repo.Len())
	})

	t.Run("missing token", func(t *testing.T) {
		_, _, err := store.Validate(ctx)
		require.ErrorIs(t, err, apperrors.ErrNoToken)
	})
}

func TestTokenSource(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	raw := tokenfake.Mint(testEmail, "USER", fixedNow.Add(time.Hour))
	require.NoError(t, store.SetSession(ctx, raw, "USER"))

	tok, err := store.TokenSource(ctx).Token()
	require.NoError(t, err)
	require.Equal(t, raw, tok.AccessToken)
	require.Equal(t, "Bearer", tok.Type())
	require.Equal(t, fixedNow.Add(time.Hour).Unix(), tok.Expiry.Unix())

	require.NoError(t, store.ClearSession(ctx))
	_, err = store.TokenSource(ctx).Token()
	require.ErrorIs(t, err, apperrors.ErrNoToken)
}
