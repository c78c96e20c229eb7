package cart

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// Synchronizer holds the session's copy of the cart and keeps it in step with
// the backend. Local state only changes after the backend acknowledged the
// mutation, so a failed call leaves the cart exactly as it was.
//
// Calls are not serialised: two mutations in flight complete in the order their
// responses arrive and the last one to land wins.
type Synchronizer struct {
	remote   Remote
	onChange func(items []LineItem)

	mu     sync.Mutex
	items  []LineItem
	loaded bool
}

type SyncOption func(*Synchronizer)

// WithOnChange registers fn to receive a copy of the cart after every change.
func WithOnChange(fn func(items []LineItem)) SyncOption {
	return func(s *Synchronizer) {
		s.onChange = fn
	}
}

func NewSynchronizer(remote Remote, options ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		remote: remote,
		items:  []LineItem{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Items returns a copy of the current lines.
func (s *Synchronizer) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Loaded reports whether a fetch has succeeded in this session.
func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load replaces the cart with the backend's copy. On failure the cart keeps its
// previous contents, which on first use is the empty cart.
func (s *Synchronizer) Load(ctx context.Context) error {
	items, err := s.remote.FetchCart(ctx)
	if err != nil {
		return s.fail(OpFetch, 0, err)
	}

	s.mutate(func([]LineItem) []LineItem {
		return cloneItems(items)
	}, true)
	return nil
}

// EnsureLoaded fetches the cart unless a fetch already succeeded.
func (s *Synchronizer) EnsureLoaded(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}
	return s.Load(ctx)
}

// AddToCart adds one unit of p. It waits for the backend before touching the
// cart: an existing line for the product is incremented, otherwise a new line
// with quantity 1 is appended. When the new line's id cannot be told apart
// from an existing line's, the cart is reloaded instead.
func (s *Synchronizer) AddToCart(ctx context.Context, p Product) error {
	if p.ID <= 0 || p.Price < 0 {
		return s.fail(OpAdd, p.ID, apperrors.ErrInvalidInput)
	}

	ack, err := s.remote.AddItem(ctx, p.ID, 1)
	if err != nil {
		return s.fail(OpAdd, p.ID, err)
	}

	reload := false
	s.mutate(func(items []LineItem) []LineItem {
		for i := range items {
			if items[i].ProductID == p.ID {
				items[i].Quantity++
				return items
			}
		}
		lineID := ack.ItemID
		if lineID == 0 {
			lineID = p.ID
		}
		for _, item := range items {
			if item.ID == lineID {
				// the backend's id for the new line is unknown
				reload = true
				return items
			}
		}
		return append(items, LineItem{
			ID:          lineID,
			ProductID:   p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Quantity:    1,
			Image:       p.Image,
			Description: p.Description,
		})
	}, false)
	if reload {
		return s.Load(ctx)
	}
	return nil
}

// RemoveFromCart deletes a line. If the backend call fails the line stays.
func (s *Synchronizer) RemoveFromCart(ctx context.Context, id int64) error {
	if _, err := s.remote.RemoveItem(ctx, id); err != nil {
		return s.fail(OpRemove, id, err)
	}

	s.mutate(func(items []LineItem) []LineItem {
		kept := items[:0]
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return kept
	}, false)
	return nil
}

// UpdateQuantity sets a line's quantity. Quantities below 1 and unknown lines
// are refused without a backend call; deleting a line is RemoveFromCart's job.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity < 1 {
		return &OpError{Op: OpUpdate, ItemID: id, Err: apperrors.ErrInvalidQuantity}
	}
	if !s.has(id) {
		return &OpError{Op: OpUpdate, ItemID: id, Err: apperrors.ErrItemNotFound}
	}

	if _, err := s.remote.UpdateItem(ctx, id, quantity); err != nil {
		return s.fail(OpUpdate, id, err)
	}

	s.mutate(func(items []LineItem) []LineItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
			}
		}
		return items
	}, false)
	return nil
}

// ClearCart empties the cart on the backend and then locally.
func (s *Synchronizer) ClearCart(ctx context.Context) error {
	if _, err := s.remote.ClearCart(ctx); err != nil {
		return s.fail(OpClear, 0, err)
	}

	s.mutate(func([]LineItem) []LineItem {
		return []LineItem{}
	}, false)
	return nil
}

// Reset drops the local copy without a backend call, e.g. on logout.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.items = []LineItem{}
	s.loaded = false
	s.mu.Unlock()
	s.notify([]LineItem{})
}

func (s *Synchronizer) has(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// mutate applies fn to a private copy and swaps it in.
func (s *Synchronizer) mutate(fn func(items []LineItem) []LineItem, markLoaded bool) {
	s.mu.Lock()
	s.items = fn(cloneItems(s.items))
	if markLoaded {
		s.loaded = true
	}
	snapshot := cloneItems(s.items)
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *Synchronizer) notify(snapshot []LineItem) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

func (s *Synchronizer) fail(op Op, id int64, err error) error {
	log.Err(err).Str("op", string(op)).Int64("item_id", id).Msg("cart operation failed, local cart unchanged")
	return &OpError{Op: op, ItemID: id, Err: err}
}
