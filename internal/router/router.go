package router

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/api/metrics"
	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

const (
	defaultSiteTitle = "Forest Plant Store"
	maxRedirects     = 5
)

// Session is the state the guard reads on every navigation.
type Session interface {
	IsLoggedIn() bool
	IsAdmin() bool
}

// Router resolves locations against the route table, runs the guard and
// tracks the current location and document title.
type Router struct {
	routes    []Route
	byName    map[string]Route
	session   Session
	siteTitle string
	log       zerolog.Logger

	mu      sync.RWMutex
	current Match
	title   string
}

var _ ports.Navigator = (*Router)(nil)

// Option configures a Router.
type Option func(*Router)

// WithSiteTitle sets the suffix appended to every page title.
func WithSiteTitle(title string) Option {
	return func(r *Router) {
		if title != "" {
			r.siteTitle = title
		}
	}
}

// WithLogger sets the router logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) { r.log = log }
}

func New(routes []Route, session Session, opts ...Option) *Router {
	r := &Router{
		routes:    routes,
		byName:    make(map[string]Route, len(routes)),
		session:   session,
		siteTitle: defaultSiteTitle,
		log:       zerolog.Nop(),
	}
	for _, rt := range routes {
		r.byName[rt.Name] = rt
	}
	for _, opt := range opts {
		opt(r)
	}
	r.title = r.siteTitle
	return r
}

// Resolve matches a path (optionally with a query string) to a route.
func (r *Router) Resolve(location string) (Match, error) {
	u, err := url.Parse(location)
	if err != nil {
		return Match{}, fmt.Errorf("resolve %q: %w", location, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	segs := splitPath(path)

	best, bestStatic, found := Match{}, -1, false
	for _, rt := range r.routes {
		params, static, ok := match(splitPath(rt.Path), segs)
		if !ok || static <= bestStatic {
			continue
		}
		best = Match{Route: rt, Params: params, Path: path, Query: u.Query()}
		bestStatic, found = static, true
	}
	if !found {
		return Match{}, fmt.Errorf("resolve %q: %w", location, domain.ErrRouteNotFound)
	}
	return best, nil
}

// Href builds the location of a named route.
func (r *Router) Href(name string, params map[string]string, query url.Values) (string, error) {
	rt, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("route %q: %w", name, domain.ErrRouteNotFound)
	}
	p := build(rt.Path, params)
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return p, nil
}

// BeforeEach runs before every navigation: it sets the document title from
// the target route, then asks the guard.
func (r *Router) BeforeEach(to Match) Decision {
	r.setTitle(to.Route.Meta.Title)

	flags := SessionFlags{}
	if r.session != nil {
		flags = SessionFlags{LoggedIn: r.session.IsLoggedIn(), Admin: r.session.IsAdmin()}
	}
	d := Decide(to.Route.Meta, to.Route.Name, to.FullPath(), flags)
	metrics.NavigationsTotal.WithLabelValues(to.Route.Name, d.Outcome).Inc()
	if !d.Allowed() {
		r.log.Debug().Str("to", to.FullPath()).Str("redirect", d.To).Msg("navigation redirected")
	}
	return d
}

func (r *Router) setTitle(page string) {
	title := r.titleFor(page)
	r.mu.Lock()
	r.title = title
	r.mu.Unlock()
}

func (r *Router) titleFor(page string) string {
	if page == "" {
		return r.siteTitle
	}
	return page + " — " + r.siteTitle
}

// Navigate moves to location, following guard redirects. It returns the
// match finally displayed, carrying the title of that navigation.
func (r *Router) Navigate(location string) (Match, error) {
	for hop := 0; hop <= maxRedirects; hop++ {
		to, err := r.Resolve(location)
		if err != nil {
			return Match{}, err
		}
		d := r.BeforeEach(to)
		if d.Allowed() {
			to.Title = r.titleFor(to.Route.Meta.Title)
			r.mu.Lock()
			r.current = to
			r.mu.Unlock()
			return to, nil
		}
		if location, err = r.Href(d.To, nil, d.Query); err != nil {
			return Match{}, err
		}
	}
	return Match{}, fmt.Errorf("navigate: %w", domain.ErrRedirectLoop)
}

// Ready performs the initial navigation. A location that matches no route
// is replaced by home.
func (r *Router) Ready(initial string) (Match, error) {
	m, err := r.Navigate(initial)
	if err == nil {
		return m, nil
	}
	r.log.Debug().Err(err).Str("location", initial).Msg("initial location unusable, going home")
	return r.Navigate(domain.PathHome)
}

// HardNavigate forces a full navigation, as a page reload to location would.
func (r *Router) HardNavigate(location string) {
	if _, err := r.Ready(location); err != nil {
		r.log.Error().Err(err).Str("location", location).Msg("hard navigation failed")
	}
}

// CurrentPath is the full path of the displayed page, or "" before the first
// navigation.
func (r *Router) CurrentPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current.Path == "" {
		return ""
	}
	return r.current.FullPath()
}

// Current is the displayed route match.
func (r *Router) Current() Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Title is the current document title.
func (r *Router) Title() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.title
}
