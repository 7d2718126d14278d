package repository

import (
	"context"
	"time"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationLogFilter narrows a log listing. Zero values mean "any".
type VerificationLogFilter struct {
	EntityType model.EntityType
	EntityID   *uuid.UUID
	RequestID  *uuid.UUID
	Page       int
	Limit      int
}

// VerificationLogRepository is append-only: there is no update or delete.
type VerificationLogRepository interface {
	Record(ctx context.Context, entry *model.EntityVerificationLog) error
	List(ctx context.Context, filter VerificationLogFilter) ([]model.EntityVerificationLog, int64, error)
}

type verificationLogRepository struct {
	db *gorm.DB
}

func NewVerificationLogRepository(db *gorm.DB) VerificationLogRepository {
	return &verificationLogRepository{db: db}
}

// Record assigns the id and timestamp when the caller left them zero.
func (r *verificationLogRepository) Record(ctx context.Context, entry *model.EntityVerificationLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *verificationLogRepository) List(ctx context.Context, filter VerificationLogFilter) ([]model.EntityVerificationLog, int64, error) {
	var logs []model.EntityVerificationLog
	var total int64

	scoped := func(q *gorm.DB) *gorm.DB {
		if filter.EntityType != "" {
			q = q.Where("entity_type = ?", string(filter.EntityType))
		}
		if filter.EntityID != nil {
			q = q.Where("entity_id = ?", *filter.EntityID)
		}
		if filter.RequestID != nil {
			q = q.Where("request_id = ?", *filter.RequestID)
		}
		return q
	}

	db := GetDB(ctx, r.db)
	if err := scoped(db.Model(&model.EntityVerificationLog{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := scoped(db).Preload("Actor").Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
