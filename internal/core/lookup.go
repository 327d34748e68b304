package core

// Lookup is the result of a lookup-by-id against a cached collection.
type Lookup[T any] struct {
	value T
	found bool
}

// Found wraps a matched value.
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{value: v, found: true}
}

// NotFound is the empty lookup result.
func NotFound[T any]() Lookup[T] {
	return Lookup[T]{}
}

// Get returns the value and whether it was found.
func (l Lookup[T]) Get() (T, bool) {
	return l.value, l.found
}

// OK reports whether the lookup matched.
func (l Lookup[T]) OK() bool {
	return l.found
}

// OrElse returns the value when found and fallback otherwise.
func (l Lookup[T]) OrElse(fallback T) T {
	if l.found {
		return l.value
	}
	return fallback
}

// Find scans items linearly and returns the first match.
func Find[T any](items []T, match func(T) bool) Lookup[T] {
	for _, item := range items {
		if match(item) {
			return Found(item)
		}
	}
	return NotFound[T]()
}
