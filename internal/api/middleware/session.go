package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/forestplants/storefront/internal/core/domain"
)

// SessionState reports whether a shopper is signed in.
type SessionState interface {
	IsLoggedIn() bool
	Role() string
}

// RequireSession rejects requests made without a signed-in session and
// injects the role into context.
func RequireSession(session SessionState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !session.IsLoggedIn() {
				return domain.ErrNotLoggedIn
			}
			c.Set("role", session.Role())
			return next(c)
		}
	}
}
