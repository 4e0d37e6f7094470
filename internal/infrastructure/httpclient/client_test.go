package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

type countingHandler struct{ calls int }

func (h *countingHandler) HandleUnauthorized(context.Context) { h.calls++ }

func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func TestNew_ResolvesRelativeBaseAgainstOrigin(t *testing.T) {
	c, err := New(Config{Origin: "http://localhost:5173"})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5173/api", c.BaseURL())
	require.True(t, c.UsesDefaultBase())

	c, err = New(Config{BaseURL: "https://backend.example.com/api/"})
	require.NoError(t, err)
	require.Equal(t, "https://backend.example.com/api", c.BaseURL())
	require.False(t, c.UsesDefaultBase())
}

func TestNew_RelativeBaseWithoutOrigin(t *testing.T) {
	_, err := New(Config{BaseURL: "/api"})
	require.Error(t, err)
}

func TestClient_AttachesCurrentTokenPerRequest(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		assert.NotEmpty(t, r.Header.Get(headerRequestID))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	token, present := "", false
	c, err := New(Config{BaseURL: srv.URL + "/api"}, WithTokenSource(func() (string, bool) { return token, present }))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/plants")
	require.NoError(t, err)

	token, present = "first", true
	_, err = c.Get(context.Background(), "/plants")
	require.NoError(t, err)

	token = "second"
	_, err = c.Get(context.Background(), "plants")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"", "Bearer first", "Bearer second"}, seen)
}

func TestClient_PostEncodesBodyAndDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "p1", in["plantId"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":7}}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	resp, err := c.Post(context.Background(), "/orders", map[string]any{"plantId": "p1"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Status)

	var out struct {
		ID domain.ID `json:"id"`
	}
	require.NoError(t, resp.DecodeData(&out))
	require.Equal(t, domain.ID("7"), out.ID)
}

func TestClient_QueryOption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ficus", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/plants", ports.WithQuery("search", "ficus"))
	require.NoError(t, err)
}

func TestClient_UnauthorizedRunsHandlerOnceAndStillFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	h := &countingHandler{}
	c, err := New(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	c.OnUnauthorized(h)

	resp, err := c.Get(context.Background(), "/auth/me")
	require.Nil(t, resp)
	require.Error(t, err)
	require.True(t, domain.IsUnauthorized(err))

	var herr *domain.HTTPError
	require.True(t, errors.As(err, &herr))
	require.Equal(t, http.StatusUnauthorized, herr.Status)
	require.Equal(t, 1, h.calls)
}

func TestClient_OtherHTTPErrorHasNoSideEffects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	h := &countingHandler{}
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	c.OnUnauthorized(h)

	_, err = c.Delete(context.Background(), "/admin/plants/1")
	require.Error(t, err)
	require.False(t, domain.IsUnauthorized(err))
	require.False(t, domain.IsNetwork(err))

	var herr *domain.HTTPError
	require.True(t, errors.As(err, &herr))
	require.Equal(t, http.StatusForbidden, herr.Status)
	require.Zero(t, h.calls)
}

func TestClient_NetworkErrorWithDefaultBaseReportsMissingConfig(t *testing.T) {
	h := &countingHandler{}
	c, err := New(Config{Origin: closedServerURL(t)})
	require.NoError(t, err)
	c.OnUnauthorized(h)

	_, err = c.Get(context.Background(), "/plants")
	require.Error(t, err)

	var nerr *domain.NetworkError
	require.True(t, errors.As(err, &nerr))
	require.Contains(t, nerr.Error(), "not configured")
	require.NotContains(t, nerr.Error(), "Cannot connect")
	require.Zero(t, h.calls)
}

func TestClient_NetworkErrorWithConfiguredBaseReportsUnreachable(t *testing.T) {
	base := closedServerURL(t) + "/api"
	c, err := New(Config{BaseURL: base})
	require.NoError(t, err)

	_, err = c.Put(context.Background(), "/orders/1", map[string]int{"quantity": 2})
	require.True(t, domain.IsNetwork(err))
	require.True(t, strings.Contains(err.Error(), "Cannot connect to backend at "+base))
}

func TestClient_CanceledContextIsNotANetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Patch(ctx, "/orders/1", map[string]string{"status": "paid"})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, domain.IsNetwork(err))
}

func TestClient_PingSendsNoCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	h := &countingHandler{}
	c, err := New(Config{BaseURL: srv.URL}, WithTokenSource(func() (string, bool) { return "tok", true }))
	require.NoError(t, err)
	c.OnUnauthorized(h)

	require.NoError(t, c.Ping(context.Background()))
	require.Zero(t, h.calls)
}

func TestClient_PingFailsOnGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	require.Error(t, c.Ping(context.Background()))

	c, err = New(Config{BaseURL: closedServerURL(t)})
	require.NoError(t, err)
	require.Error(t, c.Ping(context.Background()))
}
