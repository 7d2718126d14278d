package repository

import (
	"context"

	"nightlife/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalRepository interface {
	Create(ctx context.Context, proposal *model.EntityProposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EntityProposal, error)
	List(ctx context.Context, filter RequestFilter) ([]model.EntityProposal, int64, error)
	Transition(ctx context.Context, t Transition) error
	// Approve is Transition to Approved that also records the entity the proposal created.
	Approve(ctx context.Context, t Transition, createdEntityID uuid.UUID) error
	CountPending(ctx context.Context) (int64, error)
}

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, proposal *model.EntityProposal) error {
	return GetDB(ctx, r.db).Create(proposal).Error
}

func (r *proposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EntityProposal, error) {
	return findRequest[model.EntityProposal](ctx, r.db, id)
}

func (r *proposalRepository) List(ctx context.Context, filter RequestFilter) ([]model.EntityProposal, int64, error) {
	return listRequests[model.EntityProposal](ctx, r.db, filter, "Submitter", "Reviewer")
}

func (r *proposalRepository) Transition(ctx context.Context, t Transition) error {
	return transition[model.EntityProposal](ctx, r.db, t, nil)
}

func (r *proposalRepository) Approve(ctx context.Context, t Transition, createdEntityID uuid.UUID) error {
	t.To = model.DecisionApproved
	return transition[model.EntityProposal](ctx, r.db, t, map[string]interface{}{
		"created_entity_id": createdEntityID,
	})
}

func (r *proposalRepository) CountPending(ctx context.Context) (int64, error) {
	return countPending[model.EntityProposal](ctx, r.db)
}
