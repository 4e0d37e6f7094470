package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/api/metrics"
	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

// SessionExpiry is the UnauthorizedHandler of the API client: a 401 outside
// the login screen ends the session and forces the shopper back to login.
// On the login screen itself a 401 is an ordinary failed attempt.
type SessionExpiry struct {
	session *SessionStore
	nav     ports.Navigator
	log     zerolog.Logger
}

var _ ports.UnauthorizedHandler = (*SessionExpiry)(nil)

func NewSessionExpiry(session *SessionStore, nav ports.Navigator, log zerolog.Logger) *SessionExpiry {
	return &SessionExpiry{session: session, nav: nav, log: log}
}

func (h *SessionExpiry) HandleUnauthorized(_ context.Context) {
	current := h.nav.CurrentPath()
	if strings.HasPrefix(current, domain.PathLogin) {
		return
	}
	h.session.Logout()
	metrics.SessionExpiriesTotal.Inc()
	h.log.Info().Str("from", current).Msg("session expired, redirecting to login")
	h.nav.HardNavigate(domain.PathLogin)
}
