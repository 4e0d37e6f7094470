// Package router maps page paths to routes and runs the route guard before
// every navigation.
package router

import (
	"net/url"
	"strings"
)

// Route names referenced by the guard.
const (
	NameHome     = "home"
	NameLogin    = "login"
	NameRegister = "register"
)

// Meta is what a route declares to the guard.
type Meta struct {
	Title        string
	RequiresAuth bool
	Admin        bool
}

// Route is one entry of the page table. View names the page component the
// presentation layer loads for it.
type Route struct {
	Path string
	Name string
	View string
	Meta Meta
}

// Routes is the storefront page table.
func Routes() []Route {
	return []Route{
		{Path: "/", Name: NameHome, View: "Landing", Meta: Meta{Title: "Forest Plant Store"}},
		{Path: "/about", Name: "about", View: "About", Meta: Meta{Title: "About"}},
		{Path: "/login", Name: NameLogin, View: "Login", Meta: Meta{Title: "Login"}},
		{Path: "/register", Name: NameRegister, View: "Register", Meta: Meta{Title: "Register"}},
		{Path: "/plants", Name: "plants", View: "Plants", Meta: Meta{Title: "Our Plants", RequiresAuth: true}},
		{Path: "/plants/:id", Name: "plant-detail", View: "PlantDetail", Meta: Meta{Title: "Plant Details", RequiresAuth: true}},
		{Path: "/checkout", Name: "checkout", View: "Checkout", Meta: Meta{Title: "Checkout", RequiresAuth: true}},
		{Path: "/orders", Name: "orders", View: "Orders", Meta: Meta{Title: "My Orders", RequiresAuth: true}},
		{Path: "/orders/:id/edit", Name: "order-edit", View: "OrderEdit", Meta: Meta{Title: "Edit Order", RequiresAuth: true}},
		{Path: "/admin", Name: "admin", View: "admin/Dashboard", Meta: Meta{Title: "Dashboard", RequiresAuth: true, Admin: true}},
		{Path: "/admin/plants", Name: "admin-plants", View: "admin/PlantsAdmin", Meta: Meta{Title: "Manage Plants", RequiresAuth: true, Admin: true}},
		{Path: "/admin/plants/new", Name: "admin-plant-new", View: "admin/AdminPlantNew", Meta: Meta{Title: "Add Plant", RequiresAuth: true, Admin: true}},
		{Path: "/admin/plants/:id", Name: "admin-plant-edit", View: "admin/AdminPlantEdit", Meta: Meta{Title: "Edit Plant", RequiresAuth: true, Admin: true}},
		{Path: "/admin/orders", Name: "admin-orders", View: "admin/OrdersAdmin", Meta: Meta{Title: "Manage Orders", RequiresAuth: true, Admin: true}},
		{Path: "/admin/users", Name: "admin-users", View: "admin/UsersAdmin", Meta: Meta{Title: "Manage Users", RequiresAuth: true, Admin: true}},
		{Path: "/admin/users/new", Name: "admin-user-new", View: "admin/AdminUserNew", Meta: Meta{Title: "Create User", RequiresAuth: true, Admin: true}},
	}
}

// Match is a route resolved against a concrete location.
type Match struct {
	Route  Route
	Params map[string]string
	Path   string
	Query  url.Values
	// Title is the document title set by the navigation that produced the
	// match. Resolve leaves it empty.
	Title string
}

// FullPath is the path with its query string, as typed in the address bar.
func (m Match) FullPath() string {
	if len(m.Query) == 0 {
		return m.Path
	}
	return m.Path + "?" + m.Query.Encode()
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// match reports whether path fits pattern and how many static segments
// matched; more static segments means a more specific route.
func match(pattern, path []string) (map[string]string, int, bool) {
	if len(pattern) != len(path) {
		return nil, 0, false
	}
	var params map[string]string
	static := 0
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return nil, 0, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, 0, false
		}
		static++
	}
	return params, static, true
}

// build fills :params of a route path.
func build(pattern string, params map[string]string) string {
	segs := splitPath(pattern)
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") {
			segs[i] = url.PathEscape(params[seg[1:]])
		}
	}
	return "/" + strings.Join(segs, "/")
}
