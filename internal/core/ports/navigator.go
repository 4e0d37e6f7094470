package ports

// Navigator forces a full navigation, as a page reload would, and reports
// the current location path.
type Navigator interface {
	HardNavigate(path string)
	CurrentPath() string
}
