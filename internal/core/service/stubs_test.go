package service

import (
	"context"
	"net/http"

	"github.com/forestplants/storefront/internal/core/ports"
)

// memStorage is a ports.Storage over a plain map that records removals.
type memStorage struct {
	values  map[string]string
	removed []string
}

func newMemStorage(seed map[string]string) *memStorage {
	s := &memStorage{values: make(map[string]string)}
	for k, v := range seed {
		s.values[k] = v
	}
	return s
}

func (s *memStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *memStorage) Set(key, value string) { s.values[key] = value }

func (s *memStorage) Remove(key string) {
	delete(s.values, key)
	s.removed = append(s.removed, key)
}

func (s *memStorage) has(key string) bool {
	_, ok := s.values[key]
	return ok
}

type stubAPI struct {
	getFn  func(ctx context.Context, path string) (*ports.Response, error)
	postFn func(ctx context.Context, path string, body any) (*ports.Response, error)
}

func (a *stubAPI) Get(ctx context.Context, path string, _ ...ports.RequestOption) (*ports.Response, error) {
	return a.getFn(ctx, path)
}

func (a *stubAPI) Post(ctx context.Context, path string, body any, _ ...ports.RequestOption) (*ports.Response, error) {
	return a.postFn(ctx, path, body)
}

func (a *stubAPI) Put(context.Context, string, any, ...ports.RequestOption) (*ports.Response, error) {
	panic("unexpected Put")
}

func (a *stubAPI) Patch(context.Context, string, any, ...ports.RequestOption) (*ports.Response, error) {
	panic("unexpected Patch")
}

func (a *stubAPI) Delete(context.Context, string, ...ports.RequestOption) (*ports.Response, error) {
	panic("unexpected Delete")
}

func jsonResponse(body string) *ports.Response {
	return &ports.Response{Status: http.StatusOK, Header: http.Header{}, Body: []byte(body)}
}

type stubNavigator struct {
	current string
	visits  []string
}

func (n *stubNavigator) CurrentPath() string { return n.current }

func (n *stubNavigator) HardNavigate(path string) {
	n.visits = append(n.visits, path)
	n.current = path
}
