package auth

import (
	"context"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// SessionWriter is the part of token.Store a login writes to.
type SessionWriter interface {
	SetSession(ctx context.Context, rawToken, role string) error
	ClearSession(ctx context.Context) error
}

// Service signs users in and out, keeping the stored session in step.
type Service struct {
	api   *API
	store SessionWriter
}

func NewService(api *API, store SessionWriter) *Service {
	return &Service{api: api, store: store}
}

func (s *Service) API() *API {
	return s.api
}

// Login authenticates against the backend and persists the returned token and
// role.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if email == "" || password == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "Service.Login: email and password are required")
	}
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, apperrors.Wrapf(err, "Service.Login")
	}
	if err := s.store.SetSession(ctx, resp.Token, resp.Role); err != nil {
		return nil, apperrors.Wrapf(err, "Service.Login")
	}
	log.Info().Str("email", email).Str("role", resp.Role).Msg("signed in")
	return resp, nil
}

// Logout tells the backend, then clears the local session whatever the
// backend said.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("Service.Logout: backend logout failed, clearing local session anyway")
	}
	return apperrors.Wrapf(s.store.ClearSession(ctx), "Service.Logout")
}
