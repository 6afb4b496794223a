package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a project's opaque JSON object (links, working directories,
// section ordering — owned by the UI layer, never interpreted here). It is
// stored as serialized TEXT; a stored value that fails to parse degrades to
// an empty object on read rather than failing the caller, since malformed
// JSON in a single-owner local store indicates corruption, not contention.
type Metadata json.RawMessage

// EmptyMetadata is the canonical empty object.
func EmptyMetadata() Metadata { return Metadata("{}") }

// Value implements driver.Valuer, serializing to a TEXT column.
func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 || !json.Valid(m) {
		return "{}", nil
	}
	return string(m), nil
}

// Scan implements sql.Scanner. Unparseable stored values become {}.
func (m *Metadata) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case string:
		raw = []byte(v)
	case []byte:
		raw = append([]byte(nil), v...)
	default:
		return fmt.Errorf("models: scan metadata: unsupported type %T", value)
	}
	if len(raw) == 0 || !json.Valid(raw) {
		*m = Metadata("{}")
		return nil
	}
	*m = raw
	return nil
}

// MarshalJSON emits the raw object, defaulting to {}.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return m, nil
}

// UnmarshalJSON keeps the raw bytes verbatim so metadata round-trips exactly.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	*m = append((*m)[0:0], data...)
	return nil
}
