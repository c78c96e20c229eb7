package pricing

import (
	"strings"

	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
)

// DefaultPromo is the storefront's one promo code: 10% off the subtotal.
var DefaultPromo = NewPromoEvaluator("AYURVEDH10", 0.10)

// PromoResult is the outcome of applying a code.
type PromoResult struct {
	Discount float64
	Applied  bool
}

// PromoEvaluator checks a code against a single fixed code. It keeps no state:
// applying a code only once per cart is the caller's rule.
type PromoEvaluator struct {
	code string
	rate float64
}

func NewPromoEvaluator(code string, rate float64) *PromoEvaluator {
	return &PromoEvaluator{code: code, rate: rate}
}

// Code returns the accepted code.
func (e *PromoEvaluator) Code() string {
	return e.code
}

// Matches compares code case-insensitively with the accepted code.
func (e *PromoEvaluator) Matches(code string) bool {
	return e.code != "" && strings.EqualFold(code, e.code)
}

// Apply yields rate times subtotal for a matching code; anything else is
// ErrInvalidPromoCode with Applied false.
func (e *PromoEvaluator) Apply(code string, subtotal float64) (PromoResult, error) {
	if !e.Matches(code) {
		return PromoResult{}, apperrors.ErrInvalidPromoCode
	}
	return PromoResult{
		Discount: subtotal * e.rate,
		Applied:  true,
	}, nil
}
