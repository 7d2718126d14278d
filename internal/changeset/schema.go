package changeset

import (
	"fmt"
	"sort"

	"nightlife/internal/model"

	"github.com/shopspring/decimal"
)

// Kind is the declared type of an entity field.
type Kind int

const (
	KindString Kind = iota
	KindText
	KindInteger
	KindDecimal
	KindBoolean
	KindEnum
	KindURL
	KindLatitude
	KindLongitude
	KindDate
	KindTime
	KindUUID
)

// Field describes one editable attribute of a managed entity.
type Field struct {
	Name       string // change-set key
	Column     string
	Kind       Kind
	MaxLen     int
	Min        *decimal.Decimal
	Max        *decimal.Decimal
	Enum       []string
	Required   bool // must be supplied when the entity is created
	NotNull    bool // cannot be cleared with an empty value
	CreateOnly bool // only settable on creation
}

// Schema is the set of fields a change set may touch for one entity type.
type Schema struct {
	EntityType model.EntityType
	NameField  string
	fields     map[string]Field
}

func newSchema(t model.EntityType, nameField string, fields ...Field) *Schema {
	s := &Schema{EntityType: t, NameField: nameField, fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		s.fields[f.Name] = f
	}
	return s
}

func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Fields returns the schema fields ordered by name.
func (s *Schema) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// EventTypes are the accepted values of an event's eventType field.
var EventTypes = []string{
	"DjNight", "LiveMusic", "Party", "SpecialEvent", "LadiesNight",
	"HappyHour", "ThemeNight", "Concert", "Promotion", "Other",
}

var venueSchema = newSchema(model.EntityTypeVenue, "name",
	Field{Name: "name", Column: "name", Kind: KindString, MaxLen: 200, Required: true, NotNull: true},
	Field{Name: "description", Column: "description", Kind: KindText, MaxLen: 5000},
	Field{Name: "phone", Column: "phone", Kind: KindString, MaxLen: 50},
	Field{Name: "address", Column: "address", Kind: KindText, MaxLen: 1000},
	Field{Name: "latitude", Column: "latitude", Kind: KindLatitude},
	Field{Name: "longitude", Column: "longitude", Kind: KindLongitude},
	Field{Name: "logoUrl", Column: "logo_url", Kind: KindURL},
	Field{Name: "bannerUrl", Column: "banner_url", Kind: KindURL},
	Field{Name: "googleMapUrl", Column: "google_map_url", Kind: KindURL},
	Field{Name: "lineId", Column: "line_id", Kind: KindString, MaxLen: 100},
	Field{Name: "facebookUrl", Column: "facebook_url", Kind: KindURL},
	Field{Name: "instagramUrl", Column: "instagram_url", Kind: KindURL},
	Field{Name: "priceRange", Column: "price_range", Kind: KindInteger, Min: dec(1), Max: dec(4)},
	Field{Name: "openTime", Column: "open_time", Kind: KindTime},
	Field{Name: "closeTime", Column: "close_time", Kind: KindTime},
)

var eventSchema = newSchema(model.EntityTypeEvent, "title",
	Field{Name: "title", Column: "title", Kind: KindString, MaxLen: 200, Required: true, NotNull: true},
	Field{Name: "venueId", Column: "venue_id", Kind: KindUUID, Required: true, NotNull: true, CreateOnly: true},
	Field{Name: "eventType", Column: "event_type", Kind: KindEnum, Enum: EventTypes, NotNull: true},
	Field{Name: "description", Column: "description", Kind: KindText, MaxLen: 5000},
	Field{Name: "imageUrl", Column: "image_url", Kind: KindURL},
	Field{Name: "startDate", Column: "start_date", Kind: KindDate, Required: true, NotNull: true},
	Field{Name: "endDate", Column: "end_date", Kind: KindDate},
	Field{Name: "startTime", Column: "start_time", Kind: KindTime},
	Field{Name: "endTime", Column: "end_time", Kind: KindTime},
	Field{Name: "price", Column: "price", Kind: KindDecimal, Min: dec(0)},
	Field{Name: "priceMax", Column: "price_max", Kind: KindDecimal, Min: dec(0)},
	Field{Name: "ticketUrl", Column: "ticket_url", Kind: KindURL},
	Field{Name: "isRecurring", Column: "is_recurring", Kind: KindBoolean, NotNull: true},
)

// SchemaFor returns the field schema of an entity type.
func SchemaFor(t model.EntityType) (*Schema, error) {
	switch t {
	case model.EntityTypeVenue:
		return venueSchema, nil
	case model.EntityTypeEvent:
		return eventSchema, nil
	}
	return nil, fmt.Errorf("no schema for entity type %q", t)
}
