package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *Error) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: backend status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Is makes every 401 match ErrUnauthorized.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// ErrUnauthorized is returned when the session is not authenticated or the
// backend rejected the token.
var ErrUnauthorized = &Error{Status: http.StatusUnauthorized, Message: "unauthorized"}

// IsUnauthorized reports whether err is, or wraps, a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusOf returns the HTTP status carried by err: 200 for nil, the
// backend status for *Error and 0 for transport failures and anything else.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
