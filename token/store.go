package token

import (
	"context"
	"time"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/storage"
	"github.com/rs/zerolog/log"
)

const (
	// TokenKey is the storage key of the bearer token
	TokenKey = "token"
	// RoleKey is the storage key of the role string returned at login
	RoleKey = "role"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Store keeps the bearer token and role in persistent storage and decides
// whether the token is still usable.
type Store struct {
	repo     storage.Repo
	nowFunc  func() time.Time
	onExpire func(reason error)
}

type StoreOption func(*Store)

func WithNowFunc(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = now
	}
}

// WithExpiryHook registers fn to run every time the store purges a session
// because the token was missing, undecodable or expired.
func WithExpiryHook(fn func(reason error)) StoreOption {
	return func(s *Store) {
		s.onExpire = fn
	}
}

func NewStore(repo storage.Repo, options ...StoreOption) *Store {
	s := &Store{repo: repo}
	for _, opt := range options {
		opt(s)
	}
	if s.nowFunc == nil {
		s.nowFunc = func() time.Time { return NowTimeFunc() }
	}
	return s
}

// Token returns the stored bearer token or ErrNoToken.
func (s *Store) Token(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, TokenKey)
	if apperrors.Is(err, storage.ErrNotFound) || (err == nil && value == "") {
		return "", apperrors.ErrNoToken
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "Store.Token")
	}
	return value, nil
}

// Role returns the stored role or ErrNoRole.
func (s *Store) Role(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, RoleKey)
	if apperrors.Is(err, storage.ErrNotFound) || (err == nil && value == "") {
		return "", apperrors.ErrNoRole
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "Store.Role")
	}
	return value, nil
}

// IsExpired is fail-closed: anything that cannot be decoded is expired.
func (s *Store) IsExpired(rawToken string) bool {
	claims, err := Decode(rawToken)
	if err != nil {
		return true
	}
	return claims.ExpiredAt(s.nowFunc())
}

// SetSession stores a freshly issued token and its role. A token that does
// not decode is refused and nothing is written.
func (s *Store) SetSession(ctx context.Context, rawToken, role string) error {
	if _, err := Decode(rawToken); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, TokenKey, rawToken); err != nil {
		return apperrors.Wrapf(err, "Store.SetSession token")
	}
	if err := s.repo.Set(ctx, RoleKey, role); err != nil {
		// no half session: drop the token written above
		if rmErr := s.repo.Remove(ctx, TokenKey); rmErr != nil {
			log.Err(rmErr).Msg("Store.SetSession: failed to roll back token")
		}
		return apperrors.Wrapf(err, "Store.SetSession role")
	}
	return nil
}

// ClearSession removes both entries. Both removals are attempted.
func (s *Store) ClearSession(ctx context.Context) error {
	return apperrors.Join(
		s.repo.Remove(ctx, TokenKey),
		s.repo.Remove(ctx, RoleKey),
	)
}

// Validate returns the stored token and its claims. When the token is missing,
// malformed or expired the session is purged, the expiry hook runs and the
// matching error is returned.
func (s *Store) Validate(ctx context.Context) (string, *Claims, error) {
	rawToken, err := s.Token(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNoToken) {
			s.expire(ctx, err)
		}
		return "", nil, err
	}

	claims, err := Decode(rawToken)
	if err != nil {
		s.expire(ctx, err)
		return "", nil, err
	}
	if claims.ExpiredAt(s.nowFunc()) {
		s.expire(ctx, apperrors.ErrTokenExpired)
		return "", nil, apperrors.ErrTokenExpired
	}
	return rawToken, claims, nil
}

func (s *Store) expire(ctx context.Context, reason error) {
	if err := s.ClearSession(ctx); err != nil {
		log.Err(err).Msg("Store: failed to clear session")
	}
	log.Debug().AnErr("reason", reason).Msg("Store: session purged")
	if s.onExpire != nil {
		s.onExpire(reason)
	}
}
