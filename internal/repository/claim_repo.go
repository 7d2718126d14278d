package repository

import (
	"context"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClaimRepository interface {
	Create(ctx context.Context, claim *model.EntityClaim) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EntityClaim, error)
	List(ctx context.Context, filter RequestFilter) ([]model.EntityClaim, int64, error)
	// ListPendingForEntity locks and returns the other Pending claims on ref.
	ListPendingForEntity(ctx context.Context, ref model.ManagedEntityRef, excludeID uuid.UUID) ([]model.EntityClaim, error)
	Transition(ctx context.Context, t Transition) error
	CountPending(ctx context.Context) (int64, error)
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *model.EntityClaim) error {
	return GetDB(ctx, r.db).Create(claim).Error
}

func (r *claimRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EntityClaim, error) {
	return findRequest[model.EntityClaim](ctx, r.db, id)
}

func (r *claimRepository) List(ctx context.Context, filter RequestFilter) ([]model.EntityClaim, int64, error) {
	return listRequests[model.EntityClaim](ctx, r.db, filter, "Requester", "Reviewer")
}

func (r *claimRepository) ListPendingForEntity(ctx context.Context, ref model.ManagedEntityRef, excludeID uuid.UUID) ([]model.EntityClaim, error) {
	var claims []model.EntityClaim
	err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("entity_type = ? AND entity_id = ? AND status = ? AND id <> ?",
			string(ref.EntityType), ref.EntityID, string(model.DecisionPending), excludeID).
		Order("created_at ASC").
		Find(&claims).Error
	return claims, err
}

func (r *claimRepository) Transition(ctx context.Context, t Transition) error {
	return transition[model.EntityClaim](ctx, r.db, t, nil)
}

func (r *claimRepository) CountPending(ctx context.Context) (int64, error) {
	return countPending[model.EntityClaim](ctx, r.db)
}
