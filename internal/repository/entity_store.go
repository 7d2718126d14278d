package repository

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"nightlife/internal/changeset"
	"nightlife/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityStore is the moderation workflow's window onto venues and events.
// Lookups of a missing entity return gorm.ErrRecordNotFound.
type EntityStore interface {
	Get(ctx context.Context, ref model.ManagedEntityRef) (*model.ManagedEntity, error)
	// GetForUpdate reads the entity and holds a row lock until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, ref model.ManagedEntityRef) (*model.ManagedEntity, error)
	ResolveSlug(ctx context.Context, entityType model.EntityType, slug string) (model.ManagedEntityRef, error)
	Patch(ctx context.Context, ref model.ManagedEntityRef, patch changeset.Patch) error
	Create(ctx context.Context, entityType model.EntityType, seed changeset.Patch) (model.ManagedEntityRef, error)
	SetOwner(ctx context.Context, ref model.ManagedEntityRef, ownerID uuid.UUID) error
}

type entityStore struct {
	db *gorm.DB
}

func NewEntityStore(db *gorm.DB) EntityStore {
	return &entityStore{db: db}
}

type entityRow struct {
	ID      uuid.UUID
	Name    string
	Slug    string
	OwnerID *uuid.UUID
}

// entityTable returns the gorm model and display-name column for an entity type.
func entityTable(t model.EntityType) (interface{}, string, error) {
	schema, err := changeset.SchemaFor(t)
	if err != nil {
		return nil, "", err
	}
	f, _ := schema.Field(schema.NameField)
	switch t {
	case model.EntityTypeVenue:
		return &model.Venue{}, f.Column, nil
	case model.EntityTypeEvent:
		return &model.Event{}, f.Column, nil
	}
	return nil, "", fmt.Errorf("unknown entity type %q", t)
}

func (s *entityStore) Get(ctx context.Context, ref model.ManagedEntityRef) (*model.ManagedEntity, error) {
	return s.get(ctx, ref, false)
}

func (s *entityStore) GetForUpdate(ctx context.Context, ref model.ManagedEntityRef) (*model.ManagedEntity, error) {
	return s.get(ctx, ref, true)
}

func (s *entityStore) get(ctx context.Context, ref model.ManagedEntityRef, lock bool) (*model.ManagedEntity, error) {
	table, nameCol, err := entityTable(ref.EntityType)
	if err != nil {
		return nil, err
	}

	q := GetDB(ctx, s.db).Model(table).Select("id", nameCol+" AS name", "slug", "owner_id")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row entityRow
	if err := q.Where("id = ?", ref.EntityID).Take(&row).Error; err != nil {
		return nil, err
	}
	return &model.ManagedEntity{Ref: ref, Name: row.Name, Slug: row.Slug, OwnerID: row.OwnerID}, nil
}

func (s *entityStore) ResolveSlug(ctx context.Context, entityType model.EntityType, slug string) (model.ManagedEntityRef, error) {
	table, _, err := entityTable(entityType)
	if err != nil {
		return model.ManagedEntityRef{}, err
	}

	var row entityRow
	err = GetDB(ctx, s.db).Model(table).Select("id").
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		Take(&row).Error
	if err != nil {
		return model.ManagedEntityRef{}, err
	}
	return model.ManagedEntityRef{EntityType: entityType, EntityID: row.ID}, nil
}

func (s *entityStore) Patch(ctx context.Context, ref model.ManagedEntityRef, patch changeset.Patch) error {
	table, _, err := entityTable(ref.EntityType)
	if err != nil {
		return err
	}

	cols := patch.Columns()
	cols["updated_at"] = time.Now()

	res := GetDB(ctx, s.db).Model(table).Where("id = ?", ref.EntityID).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Create inserts a new unowned entity from a validated seed and returns its reference.
func (s *entityStore) Create(ctx context.Context, entityType model.EntityType, seed changeset.Patch) (model.ManagedEntityRef, error) {
	table, nameCol, err := entityTable(entityType)
	if err != nil {
		return model.ManagedEntityRef{}, err
	}

	id := uuid.New()
	name, _ := seed.Value(nameCol)
	nameStr, _ := name.(string)

	now := time.Now()
	cols := seed.Columns()
	cols["id"] = id
	cols["slug"] = Slugify(nameStr, entityType, id)
	cols["created_at"] = now
	cols["updated_at"] = now

	if err := GetDB(ctx, s.db).Model(table).Create(cols).Error; err != nil {
		return model.ManagedEntityRef{}, err
	}
	return model.ManagedEntityRef{EntityType: entityType, EntityID: id}, nil
}

func (s *entityStore) SetOwner(ctx context.Context, ref model.ManagedEntityRef, ownerID uuid.UUID) error {
	table, _, err := entityTable(ref.EntityType)
	if err != nil {
		return err
	}

	res := GetDB(ctx, s.db).Model(table).Where("id = ?", ref.EntityID).
		Updates(map[string]interface{}{"owner_id": ownerID, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// maxSlugBase bounds the name part of a slug in bytes; the column holds 240.
const maxSlugBase = 200

// Slugify builds a URL slug from a display name. The id suffix keeps slugs unique
// when two entities share a name. Combining marks stay attached to their letters.
func Slugify(name string, entityType model.EntityType, id uuid.UUID) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			if b.Len()+utf8.RuneLen(r) > maxSlugBase {
				break
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash && b.Len() < maxSlugBase {
			b.WriteByte('-')
			dash = true
		}
	}
	base := strings.TrimSuffix(b.String(), "-")
	if base == "" {
		base = strings.ToLower(string(entityType))
	}
	return base + "-" + id.String()[:8]
}
