// Package changeset turns user-submitted field changes into typed entity patches.
// It never touches storage.
package changeset

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Locale-independent number shapes: optional sign, ASCII digits, '.' as the only separator.
var (
	integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
)

var (
	minLatitude  = decimal.NewFromInt(-90)
	maxLatitude  = decimal.NewFromInt(90)
	minLongitude = decimal.NewFromInt(-180)
	maxLongitude = decimal.NewFromInt(180)
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Validate coerces a change set against an existing entity's schema.
func Validate(entityType model.EntityType, changeSet map[string]string) (Patch, error) {
	schema, err := SchemaFor(entityType)
	if err != nil {
		verr := &ValidationError{EntityType: entityType}
		verr.add("entity_type", "unsupported entity type")
		return Patch{}, verr
	}

	verr := &ValidationError{EntityType: entityType}
	if len(changeSet) == 0 {
		verr.add("fields", "at least one field is required")
		return Patch{}, verr.orNil()
	}

	patch := Patch{EntityType: entityType, values: make(map[string]interface{}, len(changeSet))}
	for _, key := range sortedKeys(changeSet) {
		field, ok := schema.Field(key)
		if !ok {
			verr.add(key, "unknown field")
			continue
		}
		if field.CreateOnly {
			verr.add(key, "cannot be changed after creation")
			continue
		}
		v, msg := coerce(field, changeSet[key])
		if msg != "" {
			verr.add(key, msg)
			continue
		}
		patch.values[field.Column] = v
	}

	if err := verr.orNil(); err != nil {
		return Patch{}, err
	}
	return patch, nil
}

// ValidateNew coerces the seed of a brand-new entity. name fills the schema's name field
// unless the change set supplies one itself; every required field must end up present.
func ValidateNew(entityType model.EntityType, name string, changeSet map[string]string) (Patch, error) {
	schema, err := SchemaFor(entityType)
	if err != nil {
		verr := &ValidationError{EntityType: entityType}
		verr.add("entity_type", "unsupported entity type")
		return Patch{}, verr
	}

	merged := make(map[string]string, len(changeSet)+1)
	for k, v := range changeSet {
		merged[k] = v
	}
	if strings.TrimSpace(merged[schema.NameField]) == "" && strings.TrimSpace(name) != "" {
		merged[schema.NameField] = name
	}

	verr := &ValidationError{EntityType: entityType}
	patch := Patch{EntityType: entityType, values: make(map[string]interface{}, len(merged))}
	for _, key := range sortedKeys(merged) {
		field, ok := schema.Field(key)
		if !ok {
			verr.add(key, "unknown field")
			continue
		}
		v, msg := coerce(field, merged[key])
		if msg != "" {
			verr.add(key, msg)
			continue
		}
		patch.values[field.Column] = v
	}
	for _, field := range schema.Fields() {
		if _, present := merged[field.Name]; field.Required && !present {
			verr.add(field.Name, "is required")
		}
	}

	if err := verr.orNil(); err != nil {
		return Patch{}, err
	}
	return patch, nil
}

// coerce returns the typed value or a non-empty failure message.
func coerce(f Field, raw string) (interface{}, string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		if f.NotNull || f.Required {
			return nil, "must not be empty"
		}
		return nil, ""
	}

	switch f.Kind {
	case KindString, KindText:
		if f.MaxLen > 0 && utf8.RuneCountInString(v) > f.MaxLen {
			return nil, fmt.Sprintf("must be at most %d characters", f.MaxLen)
		}
		return v, ""

	case KindInteger:
		if !integerPattern.MatchString(v) {
			return nil, "must be an integer"
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, "must be an integer"
		}
		if msg := checkRange(f, decimal.NewFromInt(n)); msg != "" {
			return nil, msg
		}
		return n, ""

	case KindDecimal:
		d, ok := parseDecimal(v)
		if !ok {
			return nil, "must be a decimal number"
		}
		if msg := checkRange(f, d); msg != "" {
			return nil, msg
		}
		return d, ""

	case KindLatitude, KindLongitude:
		d, ok := parseDecimal(v)
		if !ok {
			return nil, "must be a decimal coordinate"
		}
		lo, hi := minLatitude, maxLatitude
		if f.Kind == KindLongitude {
			lo, hi = minLongitude, maxLongitude
		}
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return nil, fmt.Sprintf("must be between %s and %s", lo, hi)
		}
		return d, ""

	case KindBoolean:
		switch {
		case strings.EqualFold(v, "true"):
			return true, ""
		case strings.EqualFold(v, "false"):
			return false, ""
		}
		return nil, "must be true or false"

	case KindEnum:
		for _, member := range f.Enum {
			if strings.EqualFold(v, member) {
				return member, ""
			}
		}
		return nil, "must be one of: " + strings.Join(f.Enum, ", ")

	case KindURL:
		u, err := url.ParseRequestURI(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, "must be an absolute http(s) URL"
		}
		return u.String(), ""

	case KindDate:
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, "must be a date in YYYY-MM-DD format"
		}
		return d, ""

	case KindTime:
		t, err := time.Parse(timeLayout, v)
		if err != nil {
			return nil, "must be a time in HH:MM format"
		}
		return t.Format(timeLayout), ""

	case KindUUID:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, "must be a UUID"
		}
		return id, ""
	}
	return nil, "unsupported field type"
}

func parseDecimal(v string) (decimal.Decimal, bool) {
	if !decimalPattern.MatchString(v) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "+"))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func checkRange(f Field, d decimal.Decimal) string {
	if f.Min != nil && d.LessThan(*f.Min) {
		return "must be at least " + f.Min.String()
	}
	if f.Max != nil && d.GreaterThan(*f.Max) {
		return "must be at most " + f.Max.String()
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
