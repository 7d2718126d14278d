package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nightlife/internal/metrics"
	"nightlife/internal/model"
	"nightlife/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- DTOs ---

type SubmitClaimDTO struct {
	EntityType  string  `json:"entity_type" binding:"required"`
	EntitySlug  string  `json:"entity_slug" binding:"required,max=240"`
	EvidenceURL *string `json:"evidence_url" binding:"omitempty,url,max=2048"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

type SubmitUpdateDTO struct {
	EntityType       string            `json:"entity_type" binding:"required"`
	EntitySlug       string            `json:"entity_slug" binding:"required,max=240"`
	Fields           map[string]string `json:"fields" binding:"required,min=1,max=50,dive,keys,required,max=64,endkeys,max=4000"`
	ProofMediaURL    *string           `json:"proof_media_url" binding:"omitempty,url,max=2048"`
	ExternalProofURL *string           `json:"external_proof_url" binding:"omitempty,url,max=2048"`
}

type SubmitProposalDTO struct {
	EntityType   string            `json:"entity_type" binding:"required"`
	Name         string            `json:"name" binding:"required,max=200"`
	Fields       map[string]string `json:"fields" binding:"omitempty,max=50,dive,keys,required,max=64,endkeys,max=4000"`
	ReferenceURL *string           `json:"reference_url" binding:"omitempty,url,max=2048"`
}

type SubmissionResponse struct {
	ID         string            `json:"id"`
	Kind       model.RequestKind `json:"kind"`
	EntityType model.EntityType  `json:"entity_type"`
	EntityID   *string           `json:"entity_id,omitempty"`
	Status     string            `json:"status"`
	CreatedAt  string            `json:"created_at"`
}

// --- Interface ---

// SubmissionService creates Pending moderation requests. It checks shape only;
// business rules are applied when a moderator decides.
type SubmissionService interface {
	SubmitClaim(ctx context.Context, userID uuid.UUID, req SubmitClaimDTO) (SubmissionResponse, error)
	SubmitUpdate(ctx context.Context, userID uuid.UUID, req SubmitUpdateDTO) (SubmissionResponse, error)
	SubmitProposal(ctx context.Context, userID uuid.UUID, req SubmitProposalDTO) (SubmissionResponse, error)
}

type SubmissionDeps struct {
	TxManager repository.TransactionManager
	Claims    repository.ClaimRepository
	Updates   repository.UpdateRequestRepository
	Proposals repository.ProposalRepository
	Entities  repository.EntityStore
	Logs      repository.VerificationLogRepository
	Publisher EventPublisher
	Metrics   *metrics.Moderation
	Logger    logrus.FieldLogger
}

type submissionService struct {
	txManager repository.TransactionManager
	claims    repository.ClaimRepository
	updates   repository.UpdateRequestRepository
	proposals repository.ProposalRepository
	entities  repository.EntityStore
	logs      repository.VerificationLogRepository
	publisher EventPublisher
	metrics   *metrics.Moderation
	logger    logrus.FieldLogger
	validate  *validator.Validate
}

func NewSubmissionService(deps SubmissionDeps) SubmissionService {
	v := validator.New()
	v.SetTagName("binding")

	s := &submissionService{
		txManager: deps.TxManager,
		claims:    deps.Claims,
		updates:   deps.Updates,
		proposals: deps.Proposals,
		entities:  deps.Entities,
		logs:      deps.Logs,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		validate:  v,
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	return s
}

// --- Implementation ---

func (s *submissionService) SubmitClaim(ctx context.Context, userID uuid.UUID, req SubmitClaimDTO) (SubmissionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return SubmissionResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	ref, err := s.resolve(ctx, req.EntityType, req.EntitySlug)
	if err != nil {
		return SubmissionResponse{}, err
	}

	now := time.Now().UTC()
	claim := &model.EntityClaim{
		ID:          uuid.New(),
		EntityType:  ref.EntityType,
		EntityID:    ref.EntityID,
		RequestedBy: userID,
		Status:      model.DecisionPending,
		Version:     1,
		EvidenceURL: trimmed(req.EvidenceURL),
		Notes:       trimmed(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.claims.Create(txCtx, claim); err != nil {
			return fmt.Errorf("failed to create claim: %w", err)
		}
		return recordLog(txCtx, s.logs, logEntry{
			kind:       model.KindClaim,
			requestID:  claim.ID,
			entityType: ref.EntityType,
			ref:        &ref,
			actorID:    userID,
			action:     model.KindClaim.SubmittedAction(),
			notes:      claim.Notes,
		})
	})
	if err != nil {
		return SubmissionResponse{}, s.failed(model.KindClaim, userID, err)
	}

	return s.submitted(model.KindClaim, claim.ID, &ref, ref.EntityType, userID, now), nil
}

func (s *submissionService) SubmitUpdate(ctx context.Context, userID uuid.UUID, req SubmitUpdateDTO) (SubmissionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return SubmissionResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	ref, err := s.resolve(ctx, req.EntityType, req.EntitySlug)
	if err != nil {
		return SubmissionResponse{}, err
	}

	now := time.Now().UTC()
	update := &model.EntityUpdateRequest{
		ID:               uuid.New(),
		EntityType:       ref.EntityType,
		EntityID:         ref.EntityID,
		SubmittedBy:      userID,
		Status:           model.DecisionPending,
		Version:          1,
		ChangeSet:        model.ChangeSet(req.Fields).Clone(),
		ProofMediaURL:    trimmed(req.ProofMediaURL),
		ExternalProofURL: trimmed(req.ExternalProofURL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.updates.Create(txCtx, update); err != nil {
			return fmt.Errorf("failed to create update request: %w", err)
		}
		return recordLog(txCtx, s.logs, logEntry{
			kind:       model.KindUpdate,
			requestID:  update.ID,
			entityType: ref.EntityType,
			ref:        &ref,
			actorID:    userID,
			action:     model.KindUpdate.SubmittedAction(),
		})
	})
	if err != nil {
		return SubmissionResponse{}, s.failed(model.KindUpdate, userID, err)
	}

	return s.submitted(model.KindUpdate, update.ID, &ref, ref.EntityType, userID, now), nil
}

func (s *submissionService) SubmitProposal(ctx context.Context, userID uuid.UUID, req SubmitProposalDTO) (SubmissionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return SubmissionResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	entityType, err := model.ParseEntityType(req.EntityType)
	if err != nil {
		return SubmissionResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return SubmissionResponse{}, fmt.Errorf("%w: name must not be blank", ErrInvalidInput)
	}

	now := time.Now().UTC()
	proposal := &model.EntityProposal{
		ID:           uuid.New(),
		EntityType:   entityType,
		SubmittedBy:  userID,
		Name:         name,
		ChangeSet:    model.ChangeSet(req.Fields).Clone(),
		ReferenceURL: trimmed(req.ReferenceURL),
		Status:       model.DecisionPending,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.proposals.Create(txCtx, proposal); err != nil {
			return fmt.Errorf("failed to create proposal: %w", err)
		}
		return recordLog(txCtx, s.logs, logEntry{
			kind:       model.KindProposal,
			requestID:  proposal.ID,
			entityType: entityType,
			actorID:    userID,
			action:     model.KindProposal.SubmittedAction(),
			notes:      &proposal.Name,
		})
	})
	if err != nil {
		return SubmissionResponse{}, s.failed(model.KindProposal, userID, err)
	}

	return s.submitted(model.KindProposal, proposal.ID, nil, entityType, userID, now), nil
}

// resolve turns the public (type, slug) address of an entity into its reference.
func (s *submissionService) resolve(ctx context.Context, rawType, slug string) (model.ManagedEntityRef, error) {
	entityType, err := model.ParseEntityType(rawType)
	if err != nil {
		return model.ManagedEntityRef{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	ref, err := s.entities.ResolveSlug(ctx, entityType, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ManagedEntityRef{}, fmt.Errorf("%w: no %s with slug %q", ErrEntityNotFound, strings.ToLower(string(entityType)), slug)
	}
	if err != nil {
		return model.ManagedEntityRef{}, fmt.Errorf("%w: failed to resolve slug: %w", ErrStorageFailure, err)
	}
	return ref, nil
}

func (s *submissionService) failed(kind model.RequestKind, userID uuid.UUID, err error) error {
	s.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"user_id": userID,
	}).WithError(err).Error("moderation submission failed")
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

func (s *submissionService) submitted(kind model.RequestKind, id uuid.UUID, ref *model.ManagedEntityRef, entityType model.EntityType, userID uuid.UUID, at time.Time) SubmissionResponse {
	s.metrics.Submitted(string(kind), string(entityType))
	s.logger.WithFields(logrus.Fields{
		"kind":        kind,
		"request_id":  id,
		"entity_type": entityType,
		"user_id":     userID,
	}).Info("moderation request submitted")

	resp := SubmissionResponse{
		ID:         id.String(),
		Kind:       kind,
		EntityType: entityType,
		Status:     kind.StatusLabel(model.DecisionPending),
		CreatedAt:  formatTime(at),
	}
	event := ModerationEvent{
		Type:       EventModerationSubmitted,
		Kind:       kind,
		RequestID:  id.String(),
		EntityType: entityType,
		Status:     resp.Status,
		ActorID:    userID.String(),
		At:         at,
	}
	if ref != nil {
		entityID := ref.EntityID.String()
		resp.EntityID = &entityID
		event.EntityID = entityID
	}
	s.publisher.Publish(event)
	return resp
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
