package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
)

const (
	// RequestIDHeader carries a per-request id the backend can log
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 4 << 20
)

// Client is a JSON client for one backend route group, e.g. http://host/user.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	timeout     time.Duration
	breaker     *gobreaker.CircuitBreaker[[]byte]
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Its transport is kept as
// the base transport when a token source is configured.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every call; zero disables the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTokenSource attaches "Authorization: Bearer <token>" to every request.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithBreaker opens the circuit after maxFailures consecutive transport or 5xx
// failures and keeps it open for openTimeout.
func WithBreaker(name string, maxFailures uint32, openTimeout time.Duration) Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    name,
			Timeout: openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: countsAsSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		})
	}
}

func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.tokenSource != nil {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		authed := *c.httpClient
		authed.Transport = &oauth2.Transport{Source: c.tokenSource, Base: base}
		c.httpClient = &authed
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends in as JSON and decodes a 2xx body into out. out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	body, err := c.DoRaw(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, apperrors.ErrInvalidResponse, err)
	}
	return nil
}

// DoRaw is Do without decoding; it returns the raw 2xx body.
func (c *Client) DoRaw(ctx context.Context, method, path string, in any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return nil, fmt.Errorf("%s %s: marshal request: %w", method, path, err)
		}
	}

	requestID := uuid.New().String()
	send := func() ([]byte, error) {
		return c.send(ctx, method, path, payload, requestID)
	}

	started := time.Now()
	var body []byte
	var err error
	if c.breaker != nil {
		body, err = c.breaker.Execute(send)
	} else {
		body, err = send()
	}

	log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Dur("elapsed", time.Since(started)).Msg("rest request")

	if err != nil {
		var statusErr *StatusError
		if apperrors.As(err, &statusErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, requestID string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}
	return body, nil
}

// countsAsSuccess keeps client side problems out of the breaker's failure count:
// 4xx answers, cancelled calls and a missing or expired session say nothing
// about the backend's health.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var statusErr *StatusError
	if apperrors.As(err, &statusErr) {
		return statusErr.StatusCode < 500
	}
	return apperrors.Is(err, context.Canceled) ||
		apperrors.Is(err, apperrors.ErrNoToken) ||
		apperrors.Is(err, apperrors.ErrTokenExpired) ||
		apperrors.Is(err, apperrors.ErrInvalidToken)
}
