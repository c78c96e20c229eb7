package storage

import (
	"context"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = apperrors.ErrNotFound

// Repo is the persistent key/value storage the session lives in.
// Values are plain strings; there is no transaction across keys.
type Repo interface {
	// Get returns the value stored under key or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Remove deletes key; removing a missing key is not an error
	Remove(ctx context.Context, key string) error
}
