package repository

import (
	"context"
	"time"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestFilter narrows a moderation queue listing. Zero values mean "any".
type RequestFilter struct {
	EntityType model.EntityType
	Status     model.Decision
	Page       int
	Limit      int
}

// Transition is a compare-and-swap of a Pending request to a terminal decision.
type Transition struct {
	ID              uuid.UUID
	ExpectedVersion int
	To              model.Decision
	ReviewedBy      uuid.UUID
	Notes           *string
	At              time.Time
}

// The three request tables share this shape; these helpers keep the queries in one place.

func findRequest[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) (*T, error) {
	var row T
	if err := GetDB(ctx, db).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func listRequests[T any](ctx context.Context, db *gorm.DB, filter RequestFilter, preloads ...string) ([]T, int64, error) {
	var rows []T
	var total int64

	scoped := func(q *gorm.DB) *gorm.DB {
		if filter.EntityType != "" {
			q = q.Where("entity_type = ?", string(filter.EntityType))
		}
		if filter.Status != "" {
			q = q.Where("status = ?", string(filter.Status))
		}
		return q
	}

	conn := GetDB(ctx, db)
	if err := scoped(conn.Model(new(T))).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := scoped(conn)
	for _, p := range preloads {
		fetch = fetch.Preload(p)
	}
	offset := (filter.Page - 1) * filter.Limit
	if err := fetch.Order("created_at ASC").Offset(offset).Limit(filter.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func countPending[T any](ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := GetDB(ctx, db).Model(new(T)).Where("status = ?", string(model.DecisionPending)).Count(&n).Error
	return n, err
}

// transition flips status only when the row is still Pending at the version the caller read,
// bumping the version so any concurrent writer holding the old one misses.
func transition[T any](ctx context.Context, db *gorm.DB, t Transition, extra map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":       string(t.To),
		"version":      gorm.Expr("version + 1"),
		"reviewed_by":  t.ReviewedBy,
		"reviewed_at":  t.At,
		"review_notes": t.Notes,
		"updated_at":   t.At,
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := GetDB(ctx, db).Model(new(T)).
		Where("id = ? AND status = ? AND version = ?", t.ID, string(model.DecisionPending), t.ExpectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}
