package pricing_test

import (
	"testing"

	"github.com/jrsteele09/go-storefront-client/cart"
	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/pricing"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []cart.LineItem
		discount float64
		want     pricing.Totals
	}{
		{
			name: "empty cart pays flat shipping",
			want: pricing.Totals{Shipping: 5.99, Total: 5.99},
		},
		{
			name:  "below threshold",
			items: []cart.LineItem{{ID: 1, Price: 10, Quantity: 2}},
			want:  pricing.Totals{Subtotal: 20, Shipping: 5.99, Tax: 1.6, Total: 27.59},
		},
		{
			name:  "exactly at threshold still pays shipping",
			items: []cart.LineItem{{ID: 1, Price: 25, Quantity: 2}},
			want:  pricing.Totals{Subtotal: 50, Shipping: 5.99, Tax: 4, Total: 59.99},
		},
		{
			name:     "above threshold ships free",
			items:    []cart.LineItem{{ID: 1, Price: 60, Quantity: 1}},
			discount: 6,
			want:     pricing.Totals{Subtotal: 60, Shipping: 0, Tax: 4.8, Discount: 6, Total: 58.8},
		},
		{
			name:  "lines without price or quantity contribute nothing",
			items: []cart.LineItem{{ID: 1, Price: 10, Quantity: 1}, {ID: 2, Quantity: 3}, {ID: 3, Price: 4}},
			want:  pricing.Totals{Subtotal: 10, Shipping: 5.99, Tax: 0.8, Total: 16.79},
		},
		{
			name:     "oversized discount goes negative",
			items:    []cart.LineItem{{ID: 1, Price: 10, Quantity: 1}},
			discount: 100,
			want:     pricing.Totals{Subtotal: 10, Shipping: 5.99, Tax: 0.8, Discount: 100, Total: -83.21},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.ComputeTotals(tt.items, tt.discount)
			require.InDelta(t, tt.want.Subtotal, got.Subtotal, delta)
			require.InDelta(t, tt.want.Shipping, got.Shipping, delta)
			require.InDelta(t, tt.want.Tax, got.Tax, delta)
			require.InDelta(t, tt.want.Discount, got.Discount, delta)
			require.InDelta(t, tt.want.Total, got.Total, delta)
			require.Equal(t, tt.want.Total < 0, got.Negative())
		})
	}
}

func TestComputeTotals_TotalIdentity(t *testing.T) {
	items := []cart.LineItem{
		{ID: 1, Price: 12.5, Quantity: 3},
		{ID: 2, Price: 7.25, Quantity: 2},
		{ID: 3, Price: 0.99, Quantity: 10},
	}
	for _, discount := range []float64{0, 1.5, 20} {
		got := pricing.ComputeTotals(items, discount)
		subtotal := 12.5*3 + 7.25*2 + 0.99*10
		shipping := 5.99
		if subtotal > 50 {
			shipping = 0
		}
		require.InDelta(t, subtotal+shipping+subtotal*0.08-discount, got.Total, delta)
	}
}

func TestPolicy_Custom(t *testing.T) {
	policy := pricing.Policy{FreeShippingThreshold: 100, FlatShipping: 10, TaxRate: 0.2}

	got := policy.Compute([]cart.LineItem{{ID: 1, Price: 60, Quantity: 1}}, 0)
	require.InDelta(t, 10, got.Shipping, delta)
	require.InDelta(t, 12, got.Tax, delta)
	require.InDelta(t, 82, got.Total, delta)
}

func TestPromoScenario(t *testing.T) {
	items := []cart.LineItem{{ID: 1, Price: 50, Quantity: 2}}
	subtotal := pricing.Subtotal(items)
	require.InDelta(t, 100, subtotal, delta)

	result, err := pricing.DefaultPromo.Apply("AYURVEDH10", subtotal)
	require.NoError(t, err)
	require.True(t, result.Applied)
	require.InDelta(t, 10, result.Discount, delta)

	totals := pricing.ComputeTotals(items, result.Discount)
	require.InDelta(t, 0, totals.Shipping, delta)
	require.InDelta(t, 8, totals.Tax, delta)
	require.InDelta(t, 98, totals.Total, delta)
}

func TestPromo_CaseInsensitive(t *testing.T) {
	result, err := pricing.DefaultPromo.Apply("ayurvedh10", 40)
	require.NoError(t, err)
	require.InDelta(t, 4, result.Discount, delta)
}

func TestPromo_Mismatch(t *testing.T) {
	for _, code := range []string{"", "AYURVEDH", "AYURVEDH100", "SAVE10"} {
		result, err := pricing.DefaultPromo.Apply(code, 100)
		require.ErrorIs(t, err, apperrors.ErrInvalidPromoCode)
		require.False(t, result.Applied)
		require.Zero(t, result.Discount)
		require.False(t, pricing.DefaultPromo.Matches(code))
	}
	require.True(t, pricing.DefaultPromo.Matches("ayurvedh10"))
	require.False(t, pricing.NewPromoEvaluator("", 0.1).Matches(""))
}

func TestPromo_Stateless(t *testing.T) {
	first, err := pricing.DefaultPromo.Apply("AYURVEDH10", 100)
	require.NoError(t, err)
	second, err := pricing.DefaultPromo.Apply("AYURVEDH10", 100)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
