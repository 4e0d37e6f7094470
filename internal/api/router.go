package api

import (
	"fmt"
	"net/url"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/api/handler"
	"github.com/forestplants/storefront/internal/api/middleware"
	"github.com/forestplants/storefront/internal/core/ports"
	"github.com/forestplants/storefront/internal/router"
)

// Deps is everything the shell server serves from.
type Deps struct {
	Session ports.SessionService
	Cart    ports.CartService
	Pages   *router.Router

	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handler.Pinger

	// ProxyTarget receives /api and /uploads. Empty disables proxying.
	ProxyTarget string

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Subsystem:  "shell",
		Registerer: d.Registerer,
	}))

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Backend proxy ---
	if d.ProxyTarget != "" {
		target, err := url.Parse(d.ProxyTarget)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid proxy target %q", d.ProxyTarget)
		}
		proxy := echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
			Balancer: echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{{URL: target}}),
		})
		for _, prefix := range []string{"/api", "/uploads"} {
			e.Any(prefix, echo.NotFoundHandler, changeOrigin(target), proxy)
			e.Any(prefix+"/*", echo.NotFoundHandler, changeOrigin(target), proxy)
		}
	}

	// --- Client state ---
	sessionHandler := handler.NewSessionHandler(d.Session)
	cartHandler := handler.NewCartHandler(d.Cart)

	state := e.Group("/_state")
	state.GET("/session", sessionHandler.Show)
	state.POST("/session", sessionHandler.Login)
	state.POST("/session/register", sessionHandler.Register)
	state.POST("/session/refresh", sessionHandler.Refresh, middleware.RequireSession(d.Session))
	state.DELETE("/session", sessionHandler.Logout)

	state.GET("/cart", cartHandler.Show)
	state.POST("/cart/items", cartHandler.AddItem)
	state.PUT("/cart/items/:plantId", cartHandler.SetQuantity)
	state.DELETE("/cart/items/:plantId", cartHandler.RemoveItem)
	state.DELETE("/cart", cartHandler.Clear)

	// --- Pages: everything else is a navigation ---
	pageHandler := handler.NewPageHandler(d.Session, d.Cart)
	guard := middleware.PageGuard(d.Pages)
	e.GET("/", pageHandler.Show, guard)
	e.GET("/*", pageHandler.Show, guard)

	return e, nil
}

// changeOrigin rewrites the Host header to the proxy target.
func changeOrigin(target *url.URL) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Request().Host = target.Host
			return next(c)
		}
	}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
