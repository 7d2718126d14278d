package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nightlife/internal/changeset"
	"nightlife/internal/metrics"
	"nightlife/internal/model"
	"nightlife/internal/repository"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- DTOs ---

type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictReject  Verdict = "reject"
)

func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(strings.ToLower(strings.TrimSpace(s))); v {
	case VerdictApprove, VerdictReject:
		return v, nil
	}
	return "", fmt.Errorf("%w: decision must be approve or reject, got %q", ErrInvalidInput, s)
}

type DecisionRequestDTO struct {
	Decision string  `json:"decision" binding:"required,oneof=approve reject"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
}

type DecisionCommand struct {
	Kind      model.RequestKind
	RequestID uuid.UUID
	Verdict   Verdict
	ActorID   uuid.UUID
	Notes     *string
}

type DecisionResult struct {
	Kind      model.RequestKind       `json:"kind"`
	RequestID uuid.UUID               `json:"request_id"`
	Decision  model.Decision          `json:"-"`
	Status    string                  `json:"status"` // kind-specific label, e.g. ACCEPTED
	Entity    *model.ManagedEntityRef `json:"entity,omitempty"`
	// AutoRejected lists sibling claims closed by a claim approval.
	AutoRejected []uuid.UUID `json:"auto_rejected,omitempty"`
	DecidedAt    time.Time   `json:"decided_at"`
}

// RetryPolicy bounds how often a decision is re-attempted after lock contention.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 50 * time.Millisecond, MaxInterval: time.Second}
}

// --- Interface ---

type ModerationService interface {
	// Decide resolves a Pending request. Success is returned only after the commit.
	Decide(ctx context.Context, cmd DecisionCommand) (DecisionResult, error)
	List(ctx context.Context, kind model.RequestKind, filter ModerationFilter) ([]ModerationRequestResponse, int64, error)
	Summary(ctx context.Context) (PendingSummary, error)
}

type ModerationDeps struct {
	TxManager repository.TransactionManager
	Claims    repository.ClaimRepository
	Updates   repository.UpdateRequestRepository
	Proposals repository.ProposalRepository
	Entities  repository.EntityStore
	Logs      repository.VerificationLogRepository
	Publisher EventPublisher
	Metrics   *metrics.Moderation
	Logger    logrus.FieldLogger
	Retry     RetryPolicy
}

type moderationService struct {
	txManager repository.TransactionManager
	claims    repository.ClaimRepository
	updates   repository.UpdateRequestRepository
	proposals repository.ProposalRepository
	entities  repository.EntityStore
	logs      repository.VerificationLogRepository
	publisher EventPublisher
	metrics   *metrics.Moderation
	logger    logrus.FieldLogger
	retry     RetryPolicy
}

func NewModerationService(deps ModerationDeps) ModerationService {
	s := &moderationService{
		txManager: deps.TxManager,
		claims:    deps.Claims,
		updates:   deps.Updates,
		proposals: deps.Proposals,
		entities:  deps.Entities,
		logs:      deps.Logs,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		retry:     deps.Retry,
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.retry.InitialInterval <= 0 {
		s.retry = DefaultRetryPolicy()
	}
	return s
}

// --- Implementation ---

// sideEffect applies an approval to the entity store inside the decision transaction.
type sideEffect func(txCtx context.Context, t repository.Transition, res *DecisionResult) error

// pendingRequest is the kind-independent view of a request the engine decides on.
type pendingRequest struct {
	id         uuid.UUID
	status     model.Decision
	version    int
	entityType model.EntityType
	ref        *model.ManagedEntityRef // nil for proposals until approved

	// prepare runs outside the transaction; a validation failure leaves the request Pending.
	prepare func() (sideEffect, error)
	commit  func(txCtx context.Context, t repository.Transition, res *DecisionResult) error
}

func (s *moderationService) Decide(ctx context.Context, cmd DecisionCommand) (DecisionResult, error) {
	started := time.Now()
	log := s.logger.WithFields(logrus.Fields{
		"kind":       cmd.Kind,
		"request_id": cmd.RequestID,
		"actor_id":   cmd.ActorID,
		"verdict":    cmd.Verdict,
	})

	verdict, err := ParseVerdict(string(cmd.Verdict))
	if err != nil {
		return DecisionResult{}, err
	}
	cmd.Verdict = verdict

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retry.InitialInterval
	bo.MaxInterval = s.retry.MaxInterval
	bo.MaxElapsedTime = 0

	result, err := backoff.RetryWithData(func() (DecisionResult, error) {
		res, attemptErr := s.attempt(ctx, cmd)
		if attemptErr == nil {
			return res, nil
		}
		if repository.IsTransient(attemptErr) {
			s.metrics.Retried(string(cmd.Kind))
			log.WithError(attemptErr).Warn("decision hit lock contention, retrying")
			return res, attemptErr
		}
		return res, backoff.Permanent(attemptErr)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, s.retry.MaxRetries), ctx))

	err = classify(err)
	outcome := decisionOutcome(cmd.Kind, result, err)
	s.metrics.Decided(string(cmd.Kind), outcome, time.Since(started))

	if err != nil {
		entry := log.WithError(err).WithField("outcome", outcome)
		if errors.Is(err, ErrStorageFailure) {
			entry.Error("moderation decision failed")
		} else {
			entry.Info("moderation decision not applied")
		}
		return DecisionResult{}, err
	}

	log.WithFields(logrus.Fields{
		"outcome":       outcome,
		"auto_rejected": len(result.AutoRejected),
	}).Info("moderation request decided")

	event := ModerationEvent{
		Type:      EventModerationDecided,
		Kind:      result.Kind,
		RequestID: result.RequestID.String(),
		Status:    result.Status,
		ActorID:   cmd.ActorID.String(),
		At:        result.DecidedAt,
	}
	if result.Entity != nil {
		event.EntityType = result.Entity.EntityType
		event.EntityID = result.Entity.EntityID.String()
	}
	s.publisher.Publish(event)

	return result, nil
}

// attempt is one read-check-transact pass. It re-reads the request each time so a retry
// after contention sees whatever the competing transaction committed.
func (s *moderationService) attempt(ctx context.Context, cmd DecisionCommand) (DecisionResult, error) {
	req, err := s.load(ctx, cmd.Kind, cmd.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecisionResult{}, fmt.Errorf("%w: %s %s", ErrRequestNotFound, cmd.Kind, cmd.RequestID)
		}
		return DecisionResult{}, err
	}
	if req.status != model.DecisionPending {
		return DecisionResult{}, fmt.Errorf("%w: %s %s is %s", ErrAlreadyDecided, cmd.Kind, req.id, cmd.Kind.StatusLabel(req.status))
	}

	t := repository.Transition{
		ID:              req.id,
		ExpectedVersion: req.version,
		To:              model.DecisionRejected,
		ReviewedBy:      cmd.ActorID,
		Notes:           cmd.Notes,
		At:              time.Now().UTC(),
	}

	var effect sideEffect
	if cmd.Verdict == VerdictApprove {
		t.To = model.DecisionApproved
		if effect, err = req.prepare(); err != nil {
			return DecisionResult{}, err
		}
	}

	res := DecisionResult{
		Kind:      cmd.Kind,
		RequestID: req.id,
		Decision:  t.To,
		Status:    cmd.Kind.StatusLabel(t.To),
		Entity:    req.ref,
		DecidedAt: t.At,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if effect != nil {
			if err := effect(txCtx, t, &res); err != nil {
				return err
			}
		}
		if err := req.commit(txCtx, t, &res); err != nil {
			return err
		}
		return recordLog(txCtx, s.logs, logEntry{
			kind:       cmd.Kind,
			requestID:  req.id,
			entityType: req.entityType,
			ref:        res.Entity,
			actorID:    cmd.ActorID,
			action:     cmd.Kind.DecisionAction(t.To),
			notes:      cmd.Notes,
		})
	})
	if err != nil {
		return DecisionResult{}, err
	}
	return res, nil
}

func (s *moderationService) load(ctx context.Context, kind model.RequestKind, id uuid.UUID) (*pendingRequest, error) {
	switch kind {
	case model.KindClaim:
		return s.loadClaim(ctx, id)
	case model.KindUpdate:
		return s.loadUpdate(ctx, id)
	case model.KindProposal:
		return s.loadProposal(ctx, id)
	}
	return nil, fmt.Errorf("%w: unknown request kind %q", ErrInvalidInput, kind)
}

func (s *moderationService) loadClaim(ctx context.Context, id uuid.UUID) (*pendingRequest, error) {
	claim, err := s.claims.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := claim.Ref()
	return &pendingRequest{
		id:         claim.ID,
		status:     claim.Status,
		version:    claim.Version,
		entityType: claim.EntityType,
		ref:        &ref,
		prepare: func() (sideEffect, error) {
			return s.assignOwner(claim), nil
		},
		commit: func(txCtx context.Context, t repository.Transition, _ *DecisionResult) error {
			return s.claims.Transition(txCtx, t)
		},
	}, nil
}

// assignOwner makes the claimant the owner and closes every other Pending claim on the entity.
// The entity row lock serialises concurrent approvals for the same entity: first commit wins.
func (s *moderationService) assignOwner(claim *model.EntityClaim) sideEffect {
	return func(txCtx context.Context, t repository.Transition, res *DecisionResult) error {
		ref := claim.Ref()

		entity, err := s.entities.GetForUpdate(txCtx, ref)
		if err != nil {
			return entityErr(ref, err)
		}
		if entity.OwnerID != nil {
			return fmt.Errorf("%w: %s is owned by %s", ErrOwnershipConflict, ref, *entity.OwnerID)
		}
		if err := s.entities.SetOwner(txCtx, ref, claim.RequestedBy); err != nil {
			return entityErr(ref, err)
		}

		siblings, err := s.claims.ListPendingForEntity(txCtx, ref, claim.ID)
		if err != nil {
			return fmt.Errorf("failed to list competing claims: %w", err)
		}

		note := model.AutoRejectedNote
		for _, sib := range siblings {
			err := s.claims.Transition(txCtx, repository.Transition{
				ID:              sib.ID,
				ExpectedVersion: sib.Version,
				To:              model.DecisionRejected,
				ReviewedBy:      t.ReviewedBy,
				Notes:           &note,
				At:              t.At,
			})
			if errors.Is(err, repository.ErrStaleVersion) {
				continue // decided by someone else in the meantime
			}
			if err != nil {
				return fmt.Errorf("failed to auto-reject claim %s: %w", sib.ID, err)
			}

			if err := recordLog(txCtx, s.logs, logEntry{
				kind:       model.KindClaim,
				requestID:  sib.ID,
				entityType: ref.EntityType,
				ref:        &ref,
				actorID:    t.ReviewedBy,
				action:     model.KindClaim.DecisionAction(model.DecisionRejected),
				notes:      &note,
			}); err != nil {
				return err
			}
			res.AutoRejected = append(res.AutoRejected, sib.ID)
		}
		return nil
	}
}

func (s *moderationService) loadUpdate(ctx context.Context, id uuid.UUID) (*pendingRequest, error) {
	req, err := s.updates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := req.Ref()
	return &pendingRequest{
		id:         req.ID,
		status:     req.Status,
		version:    req.Version,
		entityType: req.EntityType,
		ref:        &ref,
		prepare: func() (sideEffect, error) {
			patch, err := changeset.Validate(req.EntityType, req.ChangeSet)
			if err != nil {
				return nil, err
			}
			return func(txCtx context.Context, _ repository.Transition, _ *DecisionResult) error {
				if err := s.entities.Patch(txCtx, ref, patch); err != nil {
					return entityErr(ref, err)
				}
				return nil
			}, nil
		},
		commit: func(txCtx context.Context, t repository.Transition, _ *DecisionResult) error {
			return s.updates.Transition(txCtx, t)
		},
	}, nil
}

func (s *moderationService) loadProposal(ctx context.Context, id uuid.UUID) (*pendingRequest, error) {
	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &pendingRequest{
		id:         p.ID,
		status:     p.Status,
		version:    p.Version,
		entityType: p.EntityType,
		prepare: func() (sideEffect, error) {
			seed, err := changeset.ValidateNew(p.EntityType, p.Name, p.ChangeSet)
			if err != nil {
				return nil, err
			}
			return s.createEntity(p.EntityType, seed), nil
		},
		commit: func(txCtx context.Context, t repository.Transition, res *DecisionResult) error {
			if t.To == model.DecisionApproved && res.Entity != nil {
				return s.proposals.Approve(txCtx, t, res.Entity.EntityID)
			}
			return s.proposals.Transition(txCtx, t)
		},
	}, nil
}

// createEntity inserts the proposed entity. It is left unowned; the proposer claims it separately.
func (s *moderationService) createEntity(entityType model.EntityType, seed changeset.Patch) sideEffect {
	return func(txCtx context.Context, _ repository.Transition, res *DecisionResult) error {
		if entityType == model.EntityTypeEvent {
			if v, ok := seed.Value("venue_id"); ok {
				if venueID, ok := v.(uuid.UUID); ok {
					venue := model.ManagedEntityRef{EntityType: model.EntityTypeVenue, EntityID: venueID}
					if _, err := s.entities.Get(txCtx, venue); err != nil {
						return entityErr(venue, err)
					}
				}
			}
		}

		ref, err := s.entities.Create(txCtx, entityType, seed)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", strings.ToLower(string(entityType)), err)
		}
		res.Entity = &ref
		return nil
	}
}

func entityErr(ref model.ManagedEntityRef, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, ref)
	}
	return err
}

// decisionOutcome is the metrics and log label for a finished decision.
func decisionOutcome(kind model.RequestKind, res DecisionResult, err error) string {
	var verr *changeset.ValidationError
	switch {
	case err == nil:
		return strings.ToLower(kind.StatusLabel(res.Decision))
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, ErrAlreadyDecided):
		return "already_decided"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrOwnershipConflict):
		return "ownership_conflict"
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrEntityNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "bad_input"
	}
	return "storage_failure"
}
