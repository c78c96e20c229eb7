package cart

import (
	"fmt"
)

// LineItem is one row of the cart. IDs are unique within a cart.
type LineItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`    // Unit price, never negative
	Quantity    int     `json:"quantity"` // At least 1
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// LineTotal is price times quantity.
func (l LineItem) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Product is what the storefront hands the cart when the user adds something.
type Product struct {
	ID          int64
	Name        string
	Price       float64
	Image       string
	Description string
}

// Ack is the backend's acknowledgement of a cart mutation.
type Ack struct {
	ItemID  int64  // Line id assigned by the backend, zero when it did not say
	Message string // Raw acknowledgement text, if any
}

// Op names a cart operation in errors and logs.
type Op string

const (
	OpFetch  Op = "fetch"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// OpError is returned by every failed Synchronizer operation. The cart is left
// exactly as it was before the operation.
type OpError struct {
	Op     Op
	ItemID int64 // Line or product id the operation targeted, zero for fetch and clear
	Err    error
}

func (e *OpError) Error() string {
	if e.ItemID != 0 {
		return fmt.Sprintf("cart %s %d: %v", e.Op, e.ItemID, e.Err)
	}
	return fmt.Sprintf("cart %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
