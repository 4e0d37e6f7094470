package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forestplants/storefront/internal/core/ports"
	"github.com/forestplants/storefront/internal/router"
)

// ContextKeyRoute is where the page guard stores the route it admitted.
const ContextKeyRoute = "route"

type PageHandler struct {
	session ports.SessionService
	cart    ports.CartService
}

func NewPageHandler(session ports.SessionService, cart ports.CartService) *PageHandler {
	return &PageHandler{session: session, cart: cart}
}

type pageResponse struct {
	Name         string            `json:"name"`
	Path         string            `json:"path"`
	FullPath     string            `json:"fullPath"`
	View         string            `json:"view"`
	Title        string            `json:"title"`
	Params       map[string]string `json:"params,omitempty"`
	RequiresAuth bool              `json:"requiresAuth"`
	Admin        bool              `json:"admin"`
	LoggedIn     bool              `json:"loggedIn"`
	Role         string            `json:"role,omitempty"`
	CartCount    int               `json:"cartCount"`
}

// Show describes the page the guard admitted: the view to render and the
// navbar state around it.
//
// @Summary      Page navigation
// @Tags         pages
// @Produce      json
// @Param        path  path      string  true  "Page location"
// @Success      200   {object}  pageResponse
// @Success      302   "Redirect chosen by the route guard"
// @Router       /{path} [get]
func (h *PageHandler) Show(c echo.Context) error {
	m, ok := c.Get(ContextKeyRoute).(router.Match)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
	return c.JSON(http.StatusOK, pageResponse{
		Name:         m.Route.Name,
		Path:         m.Path,
		FullPath:     m.FullPath(),
		View:         m.Route.View,
		Title:        m.Title,
		Params:       m.Params,
		RequiresAuth: m.Route.Meta.RequiresAuth,
		Admin:        m.Route.Meta.Admin,
		LoggedIn:     h.session.IsLoggedIn(),
		Role:         h.session.Role(),
		CartCount:    h.cart.ItemCount(),
	})
}
