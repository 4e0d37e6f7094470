package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
	"github.com/forestplants/storefront/internal/router"
)

type stubCart struct {
	items domain.Cart
	addFn func(plantID domain.ID, name string, price float64, quantity int) error
}

func (s *stubCart) Items() domain.Cart { return s.items }
func (s *stubCart) ItemCount() int     { return s.items.ItemCount() }
func (s *stubCart) Total() float64     { return s.items.Total() }
func (s *stubCart) AddItem(plantID domain.ID, name string, price float64, quantity int) error {
	return s.addFn(plantID, name, price, quantity)
}
func (s *stubCart) RemoveItem(domain.ID)       {}
func (s *stubCart) SetQuantity(domain.ID, int) {}
func (s *stubCart) Clear()                     { s.items = nil }

type stubSession struct {
	profile *domain.UserProfile
}

func (s *stubSession) IsLoggedIn() bool { return s.profile != nil }
func (s *stubSession) IsAdmin() bool    { return s.profile.IsAdmin() }
func (s *stubSession) Role() string {
	if s.profile == nil {
		return ""
	}
	return s.profile.Role
}
func (s *stubSession) Credential() string           { return "" }
func (s *stubSession) Profile() *domain.UserProfile { return s.profile }
func (s *stubSession) Logout()                      { s.profile = nil }
func (s *stubSession) Login(context.Context, string, string) (*domain.UserProfile, error) {
	return nil, errors.New("unexpected login")
}
func (s *stubSession) Register(context.Context, ports.RegisterInput) (*domain.UserProfile, error) {
	return nil, errors.New("unexpected register")
}
func (s *stubSession) RefreshProfile(context.Context) (*domain.UserProfile, error) {
	return nil, errors.New("unexpected refresh")
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCartHandler_AddItem_DefaultsQuantityToOne(t *testing.T) {
	stub := &stubCart{
		addFn: func(plantID domain.ID, name string, price float64, quantity int) error {
			if plantID != "42" || name != "Monstera" || price != 25 || quantity != 1 {
				t.Fatalf("unexpected args: %s %s %v %d", plantID, name, price, quantity)
			}
			return nil
		},
	}
	c, rec := newContext(http.MethodPost, "/_state/cart/items", `{"plantId":42,"name":"Monstera","price":25}`)

	if err := NewCartHandler(stub).AddItem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartHandler_AddItem_PropagatesStoreError(t *testing.T) {
	stub := &stubCart{
		addFn: func(domain.ID, string, float64, int) error { return domain.ErrInvalidLineItem },
	}
	c, _ := newContext(http.MethodPost, "/_state/cart/items", `{"plantId":"1","price":1}`)

	err := NewCartHandler(stub).AddItem(c)
	if !errors.Is(err, domain.ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem, got %v", err)
	}
}

func TestCartHandler_AddItem_RejectsMissingPlant(t *testing.T) {
	stub := &stubCart{
		addFn: func(domain.ID, string, float64, int) error {
			t.Fatalf("store should not be called")
			return nil
		},
	}
	c, _ := newContext(http.MethodPost, "/_state/cart/items", `{"name":"Fern"}`)

	err := NewCartHandler(stub).AddItem(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestCartHandler_Show_EmptyCartIsArray(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/_state/cart", "")

	if err := NewCartHandler(&stubCart{}).Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", rec.Body.String())
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Pinger{
		"storage": PingFunc(func(context.Context) error { return nil }),
		"backend": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	c, rec := newContext(http.MethodGet, "/health/ready", "")

	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Dependencies["storage"].Status != "ok" || resp.Dependencies["backend"].Error != "connection refused" {
		t.Fatalf("unexpected dependencies: %+v", resp.Dependencies)
	}
}

func TestPageHandler_Show_UsesTitleOfAdmittedNavigation(t *testing.T) {
	session := &stubSession{profile: &domain.UserProfile{ID: "1", Role: domain.RoleCustomer}}
	cart := &stubCart{items: domain.Cart{{PlantID: "p1", Name: "Fern", Price: 3, Quantity: 2}}}
	c, rec := newContext(http.MethodGet, "/plants/7", "")
	c.Set(ContextKeyRoute, router.Match{
		Route:  router.Route{Path: "/plants/:id", Name: "plant-detail", View: "PlantDetail", Meta: router.Meta{Title: "Plant Details", RequiresAuth: true}},
		Params: map[string]string{"id": "7"},
		Path:   "/plants/7",
		Title:  "Plant Details — Forest Plant Store",
	})

	if err := NewPageHandler(session, cart).Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Title != "Plant Details — Forest Plant Store" {
		t.Fatalf("unexpected title %q", resp.Title)
	}
	if resp.Name != "plant-detail" || resp.Params["id"] != "7" || resp.CartCount != 2 || resp.Role != "customer" {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestPageHandler_Show_WithoutAdmittedRoute(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/", "")

	err := NewPageHandler(&stubSession{}, &stubCart{}).Show(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
