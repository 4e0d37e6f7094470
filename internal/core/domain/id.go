package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a backend record. The backend emits identifiers either as
// JSON strings or as JSON numbers; both decode to the same ID.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: expected string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
