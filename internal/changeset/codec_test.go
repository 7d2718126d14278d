package changeset

import (
	"errors"
	"testing"
	"time"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_VenueFields(t *testing.T) {
	patch, err := Validate(model.EntityTypeVenue, map[string]string{
		"name":         "  Neon Loft ",
		"priceRange":   "3",
		"latitude":     "13.7563",
		"longitude":    "-100.5018",
		"openTime":     "21:00",
		"instagramUrl": "https://instagram.com/neonloft",
		"description":  "",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, patch.Len())

	name, _ := patch.Value("name")
	assert.Equal(t, "Neon Loft", name)

	price, _ := patch.Value("price_range")
	assert.Equal(t, int64(3), price)

	lat, _ := patch.Value("latitude")
	assert.True(t, decimal.RequireFromString("13.7563").Equal(lat.(decimal.Decimal)))

	open, _ := patch.Value("open_time")
	assert.Equal(t, "21:00", open)

	desc, ok := patch.Value("description")
	assert.True(t, ok)
	assert.Nil(t, desc, "empty optional field clears the column")
}

func TestValidate_NonNumericPriceRange(t *testing.T) {
	_, err := Validate(model.EntityTypeVenue, map[string]string{"priceRange": "free"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"priceRange"}, verr.Fields())
	assert.Contains(t, verr.Error(), "priceRange: must be an integer")
}

func TestValidate_AggregatesEveryBadKey(t *testing.T) {
	_, err := Validate(model.EntityTypeVenue, map[string]string{
		"priceRange": "9",
		"latitude":   "91",
		"facebook":   "x",
		"bannerUrl":  "not a url",
		"phone":      "0812345678",
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"bannerUrl", "facebook", "latitude", "priceRange"}, verr.Fields())
}

func TestValidate_DecimalIgnoresLocale(t *testing.T) {
	for _, in := range []string{"1,5", "1.000,50", "1e3", "12.", "abc"} {
		_, err := Validate(model.EntityTypeEvent, map[string]string{"price": in})
		assert.Error(t, err, in)
	}

	patch, err := Validate(model.EntityTypeEvent, map[string]string{"price": "+350.50"})
	require.NoError(t, err)
	v, _ := patch.Value("price")
	assert.True(t, decimal.RequireFromString("350.5").Equal(v.(decimal.Decimal)))

	_, err = Validate(model.EntityTypeEvent, map[string]string{"price": "-1"})
	assert.Error(t, err, "price has a lower bound of zero")
}

func TestValidate_BooleanAndEnum(t *testing.T) {
	patch, err := Validate(model.EntityTypeEvent, map[string]string{
		"isRecurring": "TRUE",
		"eventType":   "livemusic",
	})
	require.NoError(t, err)

	rec, _ := patch.Value("is_recurring")
	assert.Equal(t, true, rec)
	et, _ := patch.Value("event_type")
	assert.Equal(t, "LiveMusic", et)

	_, err = Validate(model.EntityTypeEvent, map[string]string{"isRecurring": "yes"})
	assert.Error(t, err)
	_, err = Validate(model.EntityTypeEvent, map[string]string{"eventType": "Karaoke"})
	assert.Error(t, err)
}

func TestValidate_DateTimeAndCreateOnly(t *testing.T) {
	patch, err := Validate(model.EntityTypeEvent, map[string]string{
		"startDate": "2026-12-31",
		"endTime":   "02:30",
	})
	require.NoError(t, err)
	sd, _ := patch.Value("start_date")
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), sd)

	_, err = Validate(model.EntityTypeEvent, map[string]string{"venueId": uuid.NewString()})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "cannot be changed after creation", verr.Errors[0].Message)

	_, err = Validate(model.EntityTypeEvent, map[string]string{"startTime": "25:00"})
	assert.Error(t, err)
}

func TestValidate_RequiredFieldCannotBeCleared(t *testing.T) {
	_, err := Validate(model.EntityTypeVenue, map[string]string{"name": "   "})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must not be empty", verr.Errors[0].Message)
}

func TestValidate_EmptyChangeSet(t *testing.T) {
	_, err := Validate(model.EntityTypeVenue, map[string]string{})
	assert.Error(t, err)
}

func TestValidate_UnknownEntityType(t *testing.T) {
	_, err := Validate(model.EntityType("STORE"), map[string]string{"name": "x"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"entity_type"}, verr.Fields())
}

func TestValidateNew_SeedsNameFromProposal(t *testing.T) {
	patch, err := ValidateNew(model.EntityTypeVenue, "Neon Loft", map[string]string{"priceRange": "3"})
	require.NoError(t, err)

	name, _ := patch.Value("name")
	assert.Equal(t, "Neon Loft", name)
	price, _ := patch.Value("price_range")
	assert.Equal(t, int64(3), price)
}

func TestValidateNew_ChangeSetNameWins(t *testing.T) {
	patch, err := ValidateNew(model.EntityTypeVenue, "Neon", map[string]string{"name": "Neon Loft"})
	require.NoError(t, err)
	name, _ := patch.Value("name")
	assert.Equal(t, "Neon Loft", name)
}

func TestValidateNew_EventRequiresVenueAndStartDate(t *testing.T) {
	_, err := ValidateNew(model.EntityTypeEvent, "Friday Techno", map[string]string{"eventType": "DjNight"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"startDate", "venueId"}, verr.Fields())

	venueID := uuid.New()
	patch, err := ValidateNew(model.EntityTypeEvent, "Friday Techno", map[string]string{
		"venueId":   venueID.String(),
		"startDate": "2026-11-06",
	})
	require.NoError(t, err)
	v, _ := patch.Value("venue_id")
	assert.Equal(t, venueID, v)
	title, _ := patch.Value("title")
	assert.Equal(t, "Friday Techno", title)
}

func TestValidateNew_MissingName(t *testing.T) {
	_, err := ValidateNew(model.EntityTypeVenue, "", map[string]string{"phone": "02"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"name"}, verr.Fields())
}
