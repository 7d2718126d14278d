package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntityType enum constants
type EntityType string

const (
	EntityTypeVenue EntityType = "VENUE"
	EntityTypeEvent EntityType = "EVENT"
)

// ParseEntityType accepts the stored form as well as lower-case API input ("venue", "event").
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(strings.ToUpper(strings.TrimSpace(s))) {
	case EntityTypeVenue:
		return EntityTypeVenue, nil
	case EntityTypeEvent:
		return EntityTypeEvent, nil
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

func (t EntityType) Valid() bool {
	return t == EntityTypeVenue || t == EntityTypeEvent
}

// ManagedEntityRef points at a venue or event owned by the entity store.
// Moderation rows only reference it, they never own it.
type ManagedEntityRef struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
}

func (r ManagedEntityRef) String() string {
	return string(r.EntityType) + ":" + r.EntityID.String()
}

// ManagedEntity is the slice of a venue or event the moderation workflow reads.
type ManagedEntity struct {
	Ref     ManagedEntityRef
	Name    string
	Slug    string
	OwnerID *uuid.UUID
}

// Venue is a nightlife venue listed in the directory
type Venue struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string              `gorm:"type:varchar(200);not null" json:"name"`
	Slug         string              `gorm:"type:varchar(240);uniqueIndex;not null" json:"slug"`
	Description  *string             `gorm:"type:text" json:"description"`
	Phone        *string             `gorm:"type:varchar(50)" json:"phone"`
	Address      *string             `gorm:"type:text" json:"address"`
	Latitude     decimal.NullDecimal `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude    decimal.NullDecimal `gorm:"type:decimal(9,6)" json:"longitude"`
	LogoURL      *string             `gorm:"type:text" json:"logo_url"`
	BannerURL    *string             `gorm:"type:text" json:"banner_url"`
	GoogleMapURL *string             `gorm:"type:text" json:"google_map_url"`
	LineID       *string             `gorm:"type:varchar(100)" json:"line_id"`
	FacebookURL  *string             `gorm:"type:text" json:"facebook_url"`
	InstagramURL *string             `gorm:"type:text" json:"instagram_url"`
	PriceRange   *int16              `gorm:"type:smallint" json:"price_range"` // 1=$ .. 4=$$$$
	OpenTime     *string             `gorm:"type:varchar(5)" json:"open_time"` // HH:MM
	CloseTime    *string             `gorm:"type:varchar(5)" json:"close_time"`
	OwnerID      *uuid.UUID          `gorm:"type:uuid;index" json:"owner_id"`
	Owner        *User               `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	IsActive     bool                `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Event is a dated happening hosted by a venue
type Event struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VenueID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"venue_id"`
	Venue       *Venue              `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	EventType   string              `gorm:"type:varchar(30);not null;default:'Other'" json:"event_type"`
	Title       string              `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string              `gorm:"type:varchar(240);uniqueIndex;not null" json:"slug"`
	Description *string             `gorm:"type:text" json:"description"`
	ImageURL    *string             `gorm:"type:text" json:"image_url"`
	StartDate   time.Time           `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time          `gorm:"type:date" json:"end_date"`
	StartTime   *string             `gorm:"type:varchar(5)" json:"start_time"`
	EndTime     *string             `gorm:"type:varchar(5)" json:"end_time"`
	Price       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	PriceMax    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price_max"`
	TicketURL   *string             `gorm:"type:text" json:"ticket_url"`
	IsRecurring bool                `gorm:"default:false" json:"is_recurring"`
	OwnerID     *uuid.UUID          `gorm:"type:uuid;index" json:"owner_id"`
	IsActive    bool                `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
