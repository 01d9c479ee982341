package dqfid

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// LocalID is a client-generated correlation key. The remote service echoes it
// back as "clientId", which lets responses be matched to local objects
// independently of their position.
type LocalID struct {
	value uuid.UUID
}

// NewLocalID generates a new random (v4) correlation key.
func NewLocalID() LocalID {
	return LocalID{value: uuid.New()}
}

// MustParseLocalID parses a LocalID from string, panicking on error.
// Useful for test fixtures.
func MustParseLocalID(s string) LocalID {
	id, err := ParseLocalID(s)
	if err != nil {
		panic(fmt.Sprintf("invalid local id: %s: %v", s, err))
	}
	return id
}

// ParseLocalID parses a LocalID (e.g., "550e8400-e29b-41d4-a716-446655440000").
// Accepts standard UUID formats (with or without hyphens).
func ParseLocalID(s string) (LocalID, error) {
	if s == "" {
		return LocalID{}, fmt.Errorf("local id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return LocalID{}, fmt.Errorf("invalid local id format: %w", err)
	}
	return LocalID{value: u}, nil
}

// String returns the canonical lowercase hyphenated form, or "" for the zero value.
func (id LocalID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.value.String()
}

// IsZero returns true if no correlation key has been assigned.
func (id LocalID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equal returns true if two ids are equal.
func (id LocalID) Equal(other LocalID) bool {
	return id.value == other.value
}

// MarshalJSON implements json.Marshaler. The zero value is serialized as null.
func (id LocalID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *LocalID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = LocalID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("local id must be a string: %w", err)
	}
	if s == "" {
		*id = LocalID{}
		return nil
	}
	parsed, err := ParseLocalID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
