package cart

import "context"

// Remote is the backend's cart API. Each call is one request; none are retried.
// A rejected bearer token comes back as an error like any other failure; the
// caller decides what it means for the session.
type Remote interface {
	// FetchCart returns the current lines; an empty cart is an empty slice and no error
	FetchCart(ctx context.Context) ([]LineItem, error)

	// AddItem adds quantity of productID
	AddItem(ctx context.Context, productID int64, quantity int) (Ack, error)

	// UpdateItem sets the quantity of a line; callers guarantee quantity >= 1
	UpdateItem(ctx context.Context, itemID int64, quantity int) (Ack, error)

	// RemoveItem deletes a line
	RemoveItem(ctx context.Context, itemID int64) (Ack, error)

	// ClearCart deletes every line
	ClearCart(ctx context.Context) (Ack, error)
}
