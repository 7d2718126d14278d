package changeset

import "nightlife/internal/model"

// Patch is a validated change set: column name to typed value, ready to apply.
// A nil value clears the column.
type Patch struct {
	EntityType model.EntityType
	values     map[string]interface{}
}

// Columns returns a copy of the column/value pairs.
func (p Patch) Columns() map[string]interface{} {
	out := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Value returns the typed value staged for a column.
func (p Patch) Value(column string) (interface{}, bool) {
	v, ok := p.values[column]
	return v, ok
}

func (p Patch) Len() int { return len(p.values) }
