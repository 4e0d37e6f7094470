package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes backend statuses through, with the backend's message when it sent one.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Backend answered, but not with 2xx.
	var herr *domain.HTTPError
	if errors.As(err, &herr) {
		return herr.Status, backendMessage(herr)
	}

	// Backend never answered.
	var nerr *domain.NetworkError
	if errors.As(err, &nerr) {
		return http.StatusBadGateway, nerr.Message
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized, "not logged in"
	case errors.Is(err, domain.ErrInvalidLineItem):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRouteNotFound):
		return http.StatusNotFound, "page not found"
	case errors.Is(err, domain.ErrEmptyEnvelope):
		return http.StatusBadGateway, "unexpected backend response"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// backendMessage extracts {"message": "..."} or {"error": "..."} from a
// backend error body, falling back to the status text.
func backendMessage(herr *domain.HTTPError) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(herr.Body, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(herr.Status)
}
