package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/rest"
)

// LoginResponse is what POST /auth/login answers with.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the signed in user as GET /user/profile returns it.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verification struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type passwordReset struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type emailOnly struct {
	Email string `json:"email"`
}

// API is the backend's /auth route group plus the profile lookup used to
// validate a stored token.
type API struct {
	auth *rest.Client // .../auth, no bearer
	user *rest.Client // .../user, bearer attached
}

func NewAPI(authClient, userClient *rest.Client) *API {
	return &API{auth: authClient, user: userClient}
}

func (a *API) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := a.auth.Post(ctx, "/login", credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidResponse, "API.Login: no token in response")
	}
	return &resp, nil
}

func (a *API) Register(ctx context.Context, reg Registration) (string, error) {
	return a.post(ctx, "/register", reg)
}

func (a *API) VerifyEmail(ctx context.Context, email, otp string) (string, error) {
	return a.post(ctx, "/verify", verification{Email: email, OTP: otp})
}

func (a *API) ForgotPassword(ctx context.Context, email string) (string, error) {
	return a.post(ctx, "/forgot-password", emailOnly{Email: email})
}

func (a *API) ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error) {
	return a.post(ctx, "/reset-password", passwordReset{Email: email, OTP: otp, NewPassword: newPassword})
}

func (a *API) Logout(ctx context.Context) error {
	_, err := a.auth.DoRaw(ctx, http.MethodPost, "/logout", nil)
	return err
}

// Profile fetches the signed in user. It fails with a 401 StatusError when the
// backend no longer accepts the token.
func (a *API) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := a.user.Get(ctx, "/profile", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidateSession is a Validator backed by Profile.
func (a *API) ValidateSession(ctx context.Context) error {
	_, err := a.Profile(ctx)
	return err
}

// post returns the backend's message, which is either a JSON {"message": ...}
// or plain text.
func (a *API) post(ctx context.Context, path string, in any) (string, error) {
	body, err := a.auth.DoRaw(ctx, http.MethodPost, path, in)
	if err != nil {
		return "", err
	}
	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
		return msg.Message, nil
	}
	return strings.Trim(strings.TrimSpace(string(body)), `"`), nil
}
