package pricing

import "github.com/jrsteele09/go-storefront-client/cart"

// Policy holds the shipping and tax rules totals are computed with.
type Policy struct {
	FreeShippingThreshold float64 // Shipping is free when the subtotal is above this
	FlatShipping          float64
	TaxRate               float64 // Fraction of the subtotal, e.g. 0.08
}

// DefaultPolicy is free shipping over 50, 5.99 flat otherwise and 8% tax.
var DefaultPolicy = Policy{
	FreeShippingThreshold: 50,
	FlatShipping:          5.99,
	TaxRate:               0.08,
}

// Totals is derived from the cart and never stored.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Negative reports a total below zero, which only a misconfigured discount produces.
func (t Totals) Negative() bool {
	return t.Total < 0
}

// ComputeTotals applies DefaultPolicy.
func ComputeTotals(items []cart.LineItem, discount float64) Totals {
	return DefaultPolicy.Compute(items, discount)
}

// Compute sums the lines and applies shipping, tax and discount. Lines with a
// zero or negative price or quantity contribute nothing. The total is not clamped.
func (p Policy) Compute(items []cart.LineItem, discount float64) Totals {
	subtotal := Subtotal(items)

	shipping := p.FlatShipping
	if subtotal > p.FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * p.TaxRate

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal + shipping + tax - discount,
	}
}

// Subtotal is the sum of price times quantity.
func Subtotal(items []cart.LineItem) float64 {
	var subtotal float64
	for _, item := range items {
		if item.Price <= 0 || item.Quantity <= 0 {
			continue
		}
		subtotal += item.LineTotal()
	}
	return subtotal
}
