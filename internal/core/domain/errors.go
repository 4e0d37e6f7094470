package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrKeyNotFound     = errors.New("key not found")
	ErrInvalidLineItem = errors.New("invalid line item")
	ErrEmptyEnvelope   = errors.New("response has no data payload")
	ErrRouteNotFound   = errors.New("route not found")
	ErrRedirectLoop    = errors.New("too many navigation redirects")
)

// NetworkError reports a request that never received a response.
type NetworkError struct {
	Message string
	Cause   error
}

func (e *NetworkError) Error() string { return e.Message }

func (e *NetworkError) Unwrap() error { return e.Cause }

// HTTPError reports a response outside the 2xx range. A 401 matches
// ErrUnauthorized under errors.Is.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err carries a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
