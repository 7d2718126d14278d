package repository

import (
	"context"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateRequestRepository interface {
	Create(ctx context.Context, req *model.EntityUpdateRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EntityUpdateRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.EntityUpdateRequest, int64, error)
	Transition(ctx context.Context, t Transition) error
	CountPending(ctx context.Context) (int64, error)
}

type updateRequestRepository struct {
	db *gorm.DB
}

func NewUpdateRequestRepository(db *gorm.DB) UpdateRequestRepository {
	return &updateRequestRepository{db: db}
}

func (r *updateRequestRepository) Create(ctx context.Context, req *model.EntityUpdateRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *updateRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EntityUpdateRequest, error) {
	return findRequest[model.EntityUpdateRequest](ctx, r.db, id)
}

func (r *updateRequestRepository) List(ctx context.Context, filter RequestFilter) ([]model.EntityUpdateRequest, int64, error) {
	return listRequests[model.EntityUpdateRequest](ctx, r.db, filter, "Submitter", "Reviewer")
}

func (r *updateRequestRepository) Transition(ctx context.Context, t Transition) error {
	return transition[model.EntityUpdateRequest](ctx, r.db, t, nil)
}

func (r *updateRequestRepository) CountPending(ctx context.Context) (int64, error) {
	return countPending[model.EntityUpdateRequest](ctx, r.db)
}
