package fakecartremote

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-storefront-client/cart"
)

var _ cart.Remote = (*FakeRemote)(nil)

// Call records one request made against the fake backend.
type Call struct {
	Op       cart.Op
	ID       int64 // Product id for add, line id for update and remove
	Quantity int
}

// FakeRemote is an in-memory cart backend. It records every call in the order
// it was made and can be told to fail individual operations.
type FakeRemote struct {
	lines    []cart.LineItem
	products map[int64]cart.Product
	calls    []Call
	failures map[cart.Op]error
	lock     sync.Mutex
}

func NewFakeRemote(lines ...cart.LineItem) *FakeRemote {
	return &FakeRemote{
		lines:    append([]cart.LineItem{}, lines...),
		products: make(map[int64]cart.Product),
		failures: make(map[cart.Op]error),
	}
}

// AddProduct makes name, price and image of p known to AddItem.
func (f *FakeRemote) AddProduct(p cart.Product) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.products[p.ID] = p
}

// Fail makes op return err until Fail(op, nil) is called.
func (f *FakeRemote) Fail(op cart.Op, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// Calls returns the recorded calls.
func (f *FakeRemote) Calls() []Call {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]Call{}, f.calls...)
}

// Lines returns the backend's copy of the cart.
func (f *FakeRemote) Lines() []cart.LineItem {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]cart.LineItem{}, f.lines...)
}

func (f *FakeRemote) FetchCart(_ context.Context) ([]cart.LineItem, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, Call{Op: cart.OpFetch})
	if err := f.failures[cart.OpFetch]; err != nil {
		return nil, err
	}
	return append([]cart.LineItem{}, f.lines...), nil
}

func (f *FakeRemote) AddItem(_ context.Context, productID int64, quantity int) (cart.Ack, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, Call{Op: cart.OpAdd, ID: productID, Quantity: quantity})
	if err := f.failures[cart.OpAdd]; err != nil {
		return cart.Ack{}, err
	}
	for i := range f.lines {
		if f.lines[i].ProductID == productID {
			f.lines[i].Quantity += quantity
			return cart.Ack{Message: "updated"}, nil
		}
	}
	p := f.products[productID]
	f.lines = append(f.lines, cart.LineItem{
		ID:          f.nextLineID(productID),
		ProductID:   productID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    quantity,
		Image:       p.Image,
		Description: p.Description,
	})
	return cart.Ack{Message: "added"}, nil
}

func (f *FakeRemote) UpdateItem(_ context.Context, itemID int64, quantity int) (cart.Ack, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, Call{Op: cart.OpUpdate, ID: itemID, Quantity: quantity})
	if err := f.failures[cart.OpUpdate]; err != nil {
		return cart.Ack{}, err
	}
	for i := range f.lines {
		if f.lines[i].ID == itemID {
			f.lines[i].Quantity = quantity
			return cart.Ack{Message: "updated"}, nil
		}
	}
	return cart.Ack{}, errors.New("not found")
}

func (f *FakeRemote) RemoveItem(_ context.Context, itemID int64) (cart.Ack, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, Call{Op: cart.OpRemove, ID: itemID})
	if err := f.failures[cart.OpRemove]; err != nil {
		return cart.Ack{}, err
	}
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.ID != itemID {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	return cart.Ack{Message: "removed"}, nil
}

func (f *FakeRemote) ClearCart(_ context.Context) (cart.Ack, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, Call{Op: cart.OpClear})
	if err := f.failures[cart.OpClear]; err != nil {
		return cart.Ack{}, err
	}
	f.lines = nil
	return cart.Ack{Message: "cleared"}, nil
}

// nextLineID prefers the product id and falls back to one past the highest
// line id in use.
func (f *FakeRemote) nextLineID(productID int64) int64 {
	var highest int64
	taken := false
	for _, line := range f.lines {
		taken = taken || line.ID == productID
		highest = max(highest, line.ID)
	}
	if !taken {
		return productID
	}
	return highest + 1
}
