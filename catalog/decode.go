package catalog

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/rest"
)

// list decodes a JSON array. null is an empty list; any other non-array body
// is ErrInvalidResponse.
func list[T any](ctx context.Context, client *rest.Client, path string) ([]T, error) {
	var out []T
	if err := client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// notFound folds a 404 into ErrNotFound so callers need not know about HTTP.
func notFound(err error, kind string, id int64) error {
	if rest.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, apperrors.ErrNotFound)
	}
	return err
}
