// Package metrics defines the custom Prometheus metrics of the storefront
// client. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on package init and are
// exposed by the shell server at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// API outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
	OutcomeUnauthorized = "unauthorized"
	OutcomeHTTPError    = "http_error"
)

// ── Backend calls ─────────────────────────────────────────────────────────────

// APIRequestsTotal counts outbound calls to the backend.
// Labels:
//   - method: HTTP verb
//   - outcome: ok, network_error, unauthorized, http_error
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of backend API calls, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// APIRequestDuration measures backend round trips, including failed ones.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of backend API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionExpiriesTotal counts 401-triggered logouts.
var SessionExpiriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expiries_total",
		Help:      "Total number of sessions cleared because the backend answered 401.",
	},
)

// ── Navigation ────────────────────────────────────────────────────────────────

// NavigationsTotal counts route guard decisions.
// Labels:
//   - route: target route name
//   - decision: allow, redirect_login, redirect_home
var NavigationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigations_total",
		Help:      "Total number of route guard decisions, by target route and decision.",
	},
	[]string{"route", "decision"},
)

// ── Cart ──────────────────────────────────────────────────────────────────────

// CartMutationsTotal counts cart store actions.
// Label:
//   - action: add, remove, set_quantity, clear
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by action.",
	},
	[]string{"action"},
)

// CartItems tracks the current cart item count (sum of quantities).
var CartItems = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_items",
		Help:      "Current number of items in the cart.",
	},
)
