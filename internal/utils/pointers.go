package utils

// Value dereferences v; nil yields the zero value.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Coalesce returns the first non-nil pointer, or nil.
func Coalesce[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// FirstNonZero returns the first value that is set and not the zero value.
// Wire formats that send "" for absent fields rely on it.
func FirstNonZero[T comparable](values ...*T) T {
	var zero T
	for _, v := range values {
		if v != nil && *v != zero {
			return *v
		}
	}
	return zero
}
