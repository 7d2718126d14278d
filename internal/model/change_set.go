package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ChangeSet maps an entity field name to its proposed textual value.
// Stored as jsonb.
type ChangeSet map[string]string

func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *ChangeSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = ChangeSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("change set: unsupported column type")
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*c = m
	return nil
}

// Clone returns an independent copy so callers cannot mutate a stored change set.
func (c ChangeSet) Clone() ChangeSet {
	out := make(ChangeSet, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
