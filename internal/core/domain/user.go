package domain

import (
	"encoding/json"
	"fmt"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// UserProfile is the authenticated shopper as reported by the backend.
// Fields the client does not model are kept in Extra so a profile survives a
// persist/restore cycle unchanged.
type UserProfile struct {
	ID    ID     `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`

	Extra map[string]json.RawMessage `json:"-"`
}

var profileFields = map[string]struct{}{"id": {}, "name": {}, "email": {}, "role": {}}

// IsAdmin reports whether the profile carries the privileged role.
func (u *UserProfile) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+4)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["role"] = u.Role
	if u.Name != "" {
		out["name"] = u.Name
	}
	if u.Email != "" {
		out["email"] = u.Email
	}
	return json.Marshal(out)
}

func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("user profile: expected object, got null")
	}

	type known struct {
		ID    ID     `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return fmt.Errorf("user profile: %w", err)
	}

	*u = UserProfile{ID: k.ID, Name: k.Name, Email: k.Email, Role: k.Role}
	for key, v := range raw {
		if _, ok := profileFields[key]; ok {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage)
		}
		u.Extra[key] = v
	}
	return nil
}
