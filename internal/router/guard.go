package router

import "net/url"

// SessionFlags is the slice of session state the guard consults.
type SessionFlags struct {
	LoggedIn bool
	Admin    bool
}

// Decision outcomes.
const (
	DecisionAllow         = "allow"
	DecisionRedirectLogin = "redirect_login"
	DecisionRedirectHome  = "redirect_home"
)

// Decision is the guard verdict for one navigation. Redirect decisions name
// the target route and the query to carry.
type Decision struct {
	Outcome string
	To      string
	Query   url.Values
}

// Allowed reports whether the navigation proceeds.
func (d Decision) Allowed() bool { return d.Outcome == DecisionAllow }

// Decide evaluates the guard for a navigation to the named route. The first
// matching rule wins:
//  1. auth required, not logged in: login, carrying fullPath as ?redirect=
//  2. admin required, not admin: home
//  3. logged in and heading to login or register: home
//  4. otherwise allow
func Decide(meta Meta, name, fullPath string, flags SessionFlags) Decision {
	switch {
	case meta.RequiresAuth && !flags.LoggedIn:
		return Decision{Outcome: DecisionRedirectLogin, To: NameLogin, Query: url.Values{"redirect": {fullPath}}}
	case meta.Admin && !flags.Admin:
		return Decision{Outcome: DecisionRedirectHome, To: NameHome}
	case flags.LoggedIn && (name == NameLogin || name == NameRegister):
		return Decision{Outcome: DecisionRedirectHome, To: NameHome}
	default:
		return Decision{Outcome: DecisionAllow}
	}
}
