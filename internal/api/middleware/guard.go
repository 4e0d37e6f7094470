package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forestplants/storefront/internal/api/handler"
	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/router"
)

// PageNavigator runs a navigation through the route guard.
type PageNavigator interface {
	Navigate(location string) (router.Match, error)
}

// PageGuard treats the request as a page navigation. A location the guard
// redirects answers 302 to where the navigation ended; an unknown location
// answers 302 to home. Admitted routes reach next with the match in the
// context.
func PageGuard(nav PageNavigator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			m, err := nav.Navigate(req.URL.RequestURI())
			if errors.Is(err, domain.ErrRouteNotFound) {
				return c.Redirect(http.StatusFound, domain.PathHome)
			}
			if err != nil {
				return err
			}

			requested := req.URL.Path
			if requested == "" {
				requested = "/"
			}
			if m.Path != requested {
				return c.Redirect(http.StatusFound, m.FullPath())
			}

			c.Set(handler.ContextKeyRoute, m)
			return next(c)
		}
	}
}
