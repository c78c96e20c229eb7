package errors

import (
	"errors"
	"fmt"
)

// Common error types for the storefront client
var (
	// Token errors
	ErrNoToken      = errors.New("no token available")
	ErrNoRole       = errors.New("no role available")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Session errors
	ErrSessionExpired = errors.New("session expired")
	ErrForbidden      = errors.New("insufficient role")

	// Cart errors
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("cart item not found")

	// Promo errors
	ErrInvalidPromoCode    = errors.New("invalid promo code")
	ErrPromoAlreadyApplied = errors.New("promo code already applied")

	// Transport errors
	ErrInvalidResponse = errors.New("invalid response shape")

	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, nil if all are nil
func Join(errs ...error) error {
	return errors.Join(errs...)
}
