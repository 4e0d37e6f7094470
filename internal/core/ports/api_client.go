package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/forestplants/storefront/internal/core/domain"
)

// Response is a completed 2xx call to the backend.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the whole JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DecodeData unmarshals the payload of a {"data": ...} envelope into v.
func (r *Response) DecodeData(v any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := r.Decode(&env); err != nil {
		return err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return domain.ErrEmptyEnvelope
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// RequestOption adjusts an outbound request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		q.Add(key, value)
		r.URL.RawQuery = q.Encode()
	}
}

// APIClient is the single outbound gateway to the storefront backend.
type APIClient interface {
	Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
}

// UnauthorizedHandler reacts to a 401 from the backend.
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context)
}
