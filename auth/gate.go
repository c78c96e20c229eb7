package auth

import (
	"context"
	"errors"
	"slices"
	"sync"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/rest"
	"github.com/rs/zerolog/log"
)

// Routes a decision can send the user to.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

type State int

const (
	StateLoading State = iota
	StateAuthorized
	StateUnauthorized
	StateRedirectLogin
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateAuthorized:
		return "AUTHORIZED"
	case StateUnauthorized:
		return "UNAUTHORIZED"
	case StateRedirectLogin:
		return "REDIRECT_LOGIN"
	default:
		return "UNKNOWN"
	}
}

// Requirement restricts a protected screen to a set of roles. The zero value
// admits any authenticated session.
type Requirement struct {
	Roles []string
}

// RequireAdmin admits both admin role spellings.
var RequireAdmin = Requirement{Roles: []string{RoleAdmin, RoleAdminLegacy}}

// SatisfiedBy reports whether role meets the requirement.
func (r Requirement) SatisfiedBy(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// Decision is the outcome of one gate check. Route is set for both redirect
// states.
type Decision struct {
	State   State
	Route   string
	Session Session
}

// Allowed reports whether the protected screen may render.
func (d Decision) Allowed() bool {
	return d.State == StateAuthorized
}

// Err maps a refused decision onto the error catalogue.
func (d Decision) Err() error {
	switch d.State {
	case StateAuthorized:
		return nil
	case StateUnauthorized:
		return apperrors.ErrForbidden
	case StateRedirectLogin:
		return apperrors.ErrSessionExpired
	default:
		return errors.New("session check still in progress")
	}
}

// Validator asks the backend whether the stored token is still accepted.
type Validator func(ctx context.Context) error

// Gate decides whether a protected screen may render.
type Gate struct {
	store     SessionStore
	validator Validator

	mu    sync.RWMutex
	ready bool
}

type GateOption func(*Gate)

// WithValidator makes Bootstrap confirm the token with the backend. A 401
// there purges the session.
func WithValidator(v Validator) GateOption {
	return func(g *Gate) {
		g.validator = v
	}
}

func NewGate(store SessionStore, options ...GateOption) *Gate {
	g := &Gate{store: store}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Ready reports whether Bootstrap has completed.
func (g *Gate) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// Bootstrap is the app start session check. Until it returns every Check
// answers StateLoading. Locally expired tokens are left for Check to purge.
// A validator failure other than 401 keeps the session and is returned.
func (g *Gate) Bootstrap(ctx context.Context) error {
	defer func() {
		g.mu.Lock()
		g.ready = true
		g.mu.Unlock()
	}()

	if g.validator == nil {
		return nil
	}
	rawToken, err := g.store.Token(ctx)
	if err != nil || g.store.IsExpired(rawToken) {
		return nil
	}

	if err := g.validator(ctx); err != nil {
		if rest.IsUnauthorized(err) {
			log.Info().Msg("Gate.Bootstrap: backend rejected stored token")
			if clearErr := g.store.ClearSession(ctx); clearErr != nil {
				log.Err(clearErr).Msg("Gate.Bootstrap: failed to clear session")
			}
			return nil
		}
		log.Warn().Err(err).Msg("Gate.Bootstrap: could not validate session")
		return apperrors.Wrapf(err, "Gate.Bootstrap")
	}
	return nil
}

// Check runs on every navigation into a protected screen. A missing or expired
// token clears the session and redirects to login; a role mismatch redirects
// home and leaves the session alone.
func (g *Gate) Check(ctx context.Context, req Requirement) Decision {
	if !g.Ready() {
		return Decision{State: StateLoading}
	}

	rawToken, err := g.store.Token(ctx)
	if err != nil || g.store.IsExpired(rawToken) {
		if clearErr := g.store.ClearSession(ctx); clearErr != nil {
			log.Err(clearErr).Msg("Gate.Check: failed to clear session")
		}
		return Decision{State: StateRedirectLogin, Route: LoginRoute}
	}

	session := Evaluate(ctx, g.store)
	if !req.SatisfiedBy(session.Role) {
		log.Debug().Str("role", session.Role).Strs("required", req.Roles).Msg("Gate.Check: role not permitted")
		return Decision{State: StateUnauthorized, Route: HomeRoute, Session: session}
	}
	return Decision{State: StateAuthorized, Session: session}
}
