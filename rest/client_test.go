package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/rest"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type payload struct {
	Name string `json:"name"`
}

type errTokenSource struct{ err error }

func (e errTokenSource) Token() (*oauth2.Token, error) { return nil, e.err }

func TestClient_BearerAndJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer abc.def.ghi", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get(rest.RequestIDHeader))
		require.Equal(t, "/user/things", r.URL.Path)

		var in payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(payload{Name: in.Name + "-ack"})
	}))
	defer srv.Close()

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc.def.ghi", TokenType: "Bearer"})
	client := rest.New(srv.URL+"/user/", rest.WithTokenSource(ts))

	var out payload
	require.NoError(t, client.Post(context.Background(), "/things", payload{Name: "x"}, &out))
	require.Equal(t, "x-ack", out.Name)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid auth token"}`))
	}))
	defer srv.Close()

	err := rest.New(srv.URL).Get(context.Background(), "/cart", nil)
	require.Error(t, err)
	require.True(t, rest.IsUnauthorized(err))
	require.False(t, rest.IsServerError(err))

	var statusErr *rest.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, "invalid auth token", statusErr.Message)
	require.Equal(t, http.MethodGet, statusErr.Method)
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out payload
	err := rest.New(srv.URL).Get(context.Background(), "/x", &out)
	require.ErrorIs(t, err, apperrors.ErrInvalidResponse)

	// without a target the body is not decoded
	require.NoError(t, rest.New(srv.URL).Get(context.Background(), "/x", nil))
}

func TestClient_TokenSourceFailureSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := rest.New(srv.URL, rest.WithTokenSource(errTokenSource{err: apperrors.ErrTokenExpired}))
	err := client.Delete(context.Background(), "/cart", nil)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
	require.Equal(t, int32(0), hits.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := rest.New(srv.URL, rest.WithTimeout(50*time.Millisecond)).Get(context.Background(), "/slow", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := rest.New(srv.URL, rest.WithBreaker("test", 2, time.Minute))
	ctx := context.Background()

	require.True(t, rest.IsServerError(client.Get(ctx, "/a", nil)))
	require.True(t, rest.IsServerError(client.Get(ctx, "/a", nil)))

	err := client.Get(ctx, "/a", nil)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, int32(2), hits.Load())
}

func TestClient_BreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := rest.New(srv.URL, rest.WithBreaker("test", 1, time.Minute))
	for i := 0; i < 3; i++ {
		err := client.Get(context.Background(), "/missing", nil)
		require.True(t, rest.IsStatus(err, http.StatusNotFound))
	}
}
