package domain

// Well-known page locations.
const (
	PathHome  = "/"
	PathLogin = "/login"
)
