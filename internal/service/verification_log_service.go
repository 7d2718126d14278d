package service

import (
	"context"
	"fmt"

	"nightlife/internal/model"
	"nightlife/internal/repository"

	"github.com/google/uuid"
)

type VerificationLogResponse struct {
	ID          string  `json:"id"`
	EntityType  string  `json:"entity_type"`
	EntityID    *string `json:"entity_id"`
	RequestKind *string `json:"request_kind"`
	RequestID   *string `json:"request_id"`
	ActorUserID *string `json:"actor_user_id"`
	ActorName   string  `json:"actor_name"`
	Action      string  `json:"action"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"created_at"`
}

type VerificationLogFilter struct {
	EntityType string
	EntityID   string
	RequestID  string
	Page       int
	Limit      int
}

type VerificationLogService interface {
	GetLogs(ctx context.Context, filter VerificationLogFilter) ([]VerificationLogResponse, int64, error)
}

type verificationLogService struct {
	logs repository.VerificationLogRepository
}

func NewVerificationLogService(logs repository.VerificationLogRepository) VerificationLogService {
	return &verificationLogService{logs: logs}
}

// GetLogs lists the trail newest first, optionally narrowed to one entity or request.
func (s *verificationLogService) GetLogs(ctx context.Context, filter VerificationLogFilter) ([]VerificationLogResponse, int64, error) {
	rf := repository.VerificationLogFilter{Page: filter.Page, Limit: filter.Limit}
	if rf.Page <= 0 {
		rf.Page = 1
	}
	if rf.Limit <= 0 {
		rf.Limit = 20
	}
	if filter.EntityType != "" {
		t, err := model.ParseEntityType(filter.EntityType)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		rf.EntityType = t
	}
	if filter.EntityID != "" {
		id, err := uuid.Parse(filter.EntityID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid entity_id: %w", ErrInvalidInput, err)
		}
		rf.EntityID = &id
	}
	if filter.RequestID != "" {
		id, err := uuid.Parse(filter.RequestID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid request_id: %w", ErrInvalidInput, err)
		}
		rf.RequestID = &id
	}

	logs, total, err := s.logs.List(ctx, rf)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list verification logs: %w", ErrStorageFailure, err)
	}

	res := make([]VerificationLogResponse, 0, len(logs))
	for _, l := range logs {
		actor := "System"
		if l.Actor != nil {
			actor = l.Actor.Username
		}
		var kind *string
		if l.RequestKind != nil {
			k := string(*l.RequestKind)
			kind = &k
		}
		res = append(res, VerificationLogResponse{
			ID:          l.ID.String(),
			EntityType:  string(l.EntityType),
			EntityID:    optID(l.EntityID),
			RequestKind: kind,
			RequestID:   optID(l.RequestID),
			ActorUserID: optID(l.ActorUserID),
			ActorName:   actor,
			Action:      l.Action,
			Notes:       l.Notes,
			CreatedAt:   formatTime(l.CreatedAt),
		})
	}
	return res, total, nil
}

type logEntry struct {
	kind       model.RequestKind
	requestID  uuid.UUID
	entityType model.EntityType
	ref        *model.ManagedEntityRef
	actorID    uuid.UUID
	action     string
	notes      *string
}

// recordLog appends one verification row using whatever transaction ctx carries.
func recordLog(ctx context.Context, logs repository.VerificationLogRepository, e logEntry) error {
	kind := e.kind
	requestID := e.requestID
	actorID := e.actorID
	entry := &model.EntityVerificationLog{
		EntityType:  e.entityType,
		RequestKind: &kind,
		RequestID:   &requestID,
		ActorUserID: &actorID,
		Action:      e.action,
		Notes:       e.notes,
	}
	if e.ref != nil {
		id := e.ref.EntityID
		entry.EntityID = &id
	}
	if err := logs.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to write verification log: %w", err)
	}
	return nil
}
