package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-storefront-client/auth"
	"github.com/jrsteele09/go-storefront-client/cart"
	"github.com/jrsteele09/go-storefront-client/catalog"
	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/pricing"
	"github.com/jrsteele09/go-storefront-client/rest"
	"github.com/jrsteele09/go-storefront-client/token"
	"github.com/rs/zerolog/log"
)

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}

// Deps are the collaborators App composes. Store and Remote are required.
type Deps struct {
	Store   *token.Store
	Remote  cart.Remote
	Auth    *auth.Service
	Catalog *catalog.PublicClient
	Admin   *catalog.AdminClient
}

// Summary is the cart as the cart screen shows it.
type Summary struct {
	Items        []cart.LineItem `json:"items"`
	Totals       pricing.Totals  `json:"totals"`
	PromoApplied bool            `json:"promoApplied"`
}

// App is the application state container: it owns the session, the cart and
// the promo state of one signed in user and applies the session expiry policy
// to every failure.
type App struct {
	store   *token.Store
	gate    *auth.Gate
	auth    *auth.Service
	catalog *catalog.PublicClient
	admin   *catalog.AdminClient
	cart    *cart.Synchronizer

	policy        pricing.Policy
	promo         *pricing.PromoEvaluator
	nav           Navigator
	onSummary     func(Summary)
	validateOnRun bool

	mu           sync.Mutex
	discount     float64
	promoApplied bool
}

type Option func(*App)

func WithPolicy(policy pricing.Policy) Option {
	return func(a *App) {
		a.policy = policy
	}
}

func WithPromo(promo *pricing.PromoEvaluator) Option {
	return func(a *App) {
		a.promo = promo
	}
}

func WithNavigator(nav Navigator) Option {
	return func(a *App) {
		a.nav = nav
	}
}

// WithOnSummary registers fn to receive a fresh Summary whenever the cart or
// the discount changes.
func WithOnSummary(fn func(Summary)) Option {
	return func(a *App) {
		a.onSummary = fn
	}
}

// WithSessionValidation makes Bootstrap confirm the stored token with the
// backend's profile endpoint.
func WithSessionValidation() Option {
	return func(a *App) {
		a.validateOnRun = true
	}
}

func New(deps Deps, options ...Option) (*App, error) {
	if deps.Store == nil {
		return nil, errors.New("[app.New] token store is required")
	}
	if deps.Remote == nil {
		return nil, errors.New("[app.New] cart remote is required")
	}

	a := &App{
		store:   deps.Store,
		auth:    deps.Auth,
		catalog: deps.Catalog,
		admin:   deps.Admin,
		policy:  pricing.DefaultPolicy,
		promo:   pricing.DefaultPromo,
		nav:     NavigatorFunc(func(string) {}),
	}
	for _, opt := range options {
		opt(a)
	}

	var gateOptions []auth.GateOption
	if a.validateOnRun && a.auth != nil {
		gateOptions = append(gateOptions, auth.WithValidator(a.auth.API().ValidateSession))
	}
	a.gate = auth.NewGate(a.store, gateOptions...)
	a.cart = cart.NewSynchronizer(deps.Remote, cart.WithOnChange(func([]cart.LineItem) {
		a.publish()
	}))
	return a, nil
}

// Bootstrap runs the app start session check.
func (a *App) Bootstrap(ctx context.Context) error {
	return a.gate.Bootstrap(ctx)
}

// Session is the current auth state, recomputed from storage.
func (a *App) Session(ctx context.Context) auth.Session {
	return auth.Evaluate(ctx, a.store)
}

// Check runs the gate for a protected screen and follows its redirect.
func (a *App) Check(ctx context.Context, req auth.Requirement) error {
	d := a.gate.Check(ctx, req)
	if d.Allowed() {
		return nil
	}
	if d.State == auth.StateRedirectLogin {
		a.resetCartSession()
	}
	if d.Route != "" {
		a.nav.Navigate(d.Route)
	}
	return d.Err()
}

func (a *App) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	if a.auth == nil {
		return nil, errors.New("[App.Login] auth service not configured")
	}
	resp, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.resetCartSession()
	return resp, nil
}

// Logout ends the session locally even when the backend call fails.
func (a *App) Logout(ctx context.Context) error {
	var err error
	if a.auth != nil {
		err = a.auth.Logout(ctx)
	} else {
		err = a.store.ClearSession(ctx)
	}
	a.resetCartSession()
	a.nav.Navigate(auth.LoginRoute)
	return err
}

// LoadCart fetches the cart once per session.
func (a *App) LoadCart(ctx context.Context) error {
	if err := a.Check(ctx, auth.Requirement{}); err != nil {
		return err
	}
	return a.handle(ctx, a.cart.EnsureLoaded(ctx))
}

// RefreshCart fetches the cart again, replacing the local copy.
func (a *App) RefreshCart(ctx context.Context) error {
	if err := a.Check(ctx, auth.Requirement{}); err != nil {
		return err
	}
	return a.handle(ctx, a.cart.Load(ctx))
}

func (a *App) AddToCart(ctx context.Context, p cart.Product) error {
	if err := a.LoadCart(ctx); err != nil {
		return err
	}
	return a.handle(ctx, a.cart.AddToCart(ctx, p))
}

// AddProduct looks the product up in the public catalog and adds one unit.
func (a *App) AddProduct(ctx context.Context, productID int64) error {
	if a.catalog == nil {
		return errors.New("[App.AddProduct] catalog not configured")
	}
	p, err := a.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}
	return a.AddToCart(ctx, p.CartProduct())
}

func (a *App) RemoveFromCart(ctx context.Context, id int64) error {
	if err := a.LoadCart(ctx); err != nil {
		return err
	}
	return a.handle(ctx, a.cart.RemoveFromCart(ctx, id))
}

func (a *App) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if err := a.LoadCart(ctx); err != nil {
		return err
	}
	return a.handle(ctx, a.cart.UpdateQuantity(ctx, id, quantity))
}

// ClearCart empties the cart and, on success, makes the promo code
// applicable again.
func (a *App) ClearCart(ctx context.Context) error {
	if err := a.LoadCart(ctx); err != nil {
		return err
	}
	if err := a.handle(ctx, a.cart.ClearCart(ctx)); err != nil {
		return err
	}
	a.resetPromo()
	return nil
}

// ApplyPromo applies a code to the current subtotal. The discount amount is
// fixed at that moment. A cart session takes one code; a second attempt is
// ErrPromoAlreadyApplied. Codes are checked before the cart is loaded.
func (a *App) ApplyPromo(ctx context.Context, code string) (pricing.PromoResult, error) {
	if !a.promo.Matches(code) {
		return pricing.PromoResult{}, apperrors.ErrInvalidPromoCode
	}
	if err := a.LoadCart(ctx); err != nil {
		return pricing.PromoResult{}, err
	}

	a.mu.Lock()
	if a.promoApplied {
		a.mu.Unlock()
		return pricing.PromoResult{}, apperrors.ErrPromoAlreadyApplied
	}
	result, err := a.promo.Apply(code, pricing.Subtotal(a.cart.Items()))
	if err != nil {
		a.mu.Unlock()
		return result, err
	}
	a.discount = result.Discount
	a.promoApplied = true
	a.mu.Unlock()

	log.Info().Float64("discount", result.Discount).Msg("promo code applied")
	a.publish()
	return result, nil
}

// Summary computes the cart totals from the current lines and discount.
func (a *App) Summary() Summary {
	items := a.cart.Items()
	a.mu.Lock()
	discount, applied := a.discount, a.promoApplied
	a.mu.Unlock()

	return Summary{
		Items:        items,
		Totals:       a.policy.Compute(items, discount),
		PromoApplied: applied,
	}
}

// Admin runs fn against the admin catalog once the gate admits an admin.
func (a *App) Admin(ctx context.Context, fn func(admin *catalog.AdminClient) error) error {
	if a.admin == nil {
		return errors.New("[App.Admin] admin client not configured")
	}
	if err := a.Check(ctx, auth.RequireAdmin); err != nil {
		return err
	}
	return a.handle(ctx, fn(a.admin))
}

// IsSessionExpiry reports whether err means the session is gone: a 401 from
// the backend or a token that is missing, undecodable or expired.
func IsSessionExpiry(err error) bool {
	return rest.IsUnauthorized(err) ||
		apperrors.Is(err, apperrors.ErrTokenExpired) ||
		apperrors.Is(err, apperrors.ErrNoToken) ||
		apperrors.Is(err, apperrors.ErrInvalidToken)
}

// handle applies the expiry policy: clear the session, send the user to login
// and report ErrSessionExpired. Other errors pass through.
func (a *App) handle(ctx context.Context, err error) error {
	if err == nil || !IsSessionExpiry(err) {
		return err
	}
	log.Info().Err(err).Msg("session expired")
	if clearErr := a.store.ClearSession(ctx); clearErr != nil {
		log.Err(clearErr).Msg("App: failed to clear session")
	}
	a.resetCartSession()
	a.nav.Navigate(auth.LoginRoute)
	return fmt.Errorf("%w: %w", apperrors.ErrSessionExpired, err)
}

func (a *App) resetCartSession() {
	a.cart.Reset()
	a.resetPromo()
}

func (a *App) resetPromo() {
	a.mu.Lock()
	a.discount = 0
	a.promoApplied = false
	a.mu.Unlock()
	a.publish()
}

func (a *App) publish() {
	if a.onSummary != nil {
		a.onSummary(a.Summary())
	}
}
