package service

import (
	"context"
	"fmt"
	"time"

	"nightlife/internal/model"
	"nightlife/internal/repository"

	"github.com/google/uuid"
)

// ModerationFilter narrows a queue listing. Status is the kind-specific label
// (an update queue filters on ACCEPTED, a claim queue on APPROVED).
type ModerationFilter struct {
	EntityType string
	Status     string
	Page       int
	Limit      int
}

// ModerationRequestResponse is one row of an admin moderation queue. Fields that do not
// apply to a kind are omitted.
type ModerationRequestResponse struct {
	ID               string            `json:"id"`
	Kind             model.RequestKind `json:"kind"`
	EntityType       model.EntityType  `json:"entity_type"`
	EntityID         *string           `json:"entity_id,omitempty"`
	Status           string            `json:"status"`
	Version          int               `json:"version"`
	SubmittedBy      string            `json:"submitted_by"`
	SubmitterName    string            `json:"submitter_name"`
	Name             string            `json:"name,omitempty"`
	ChangeSet        model.ChangeSet   `json:"change_set,omitempty"`
	EvidenceURL      *string           `json:"evidence_url,omitempty"`
	Notes            *string           `json:"notes,omitempty"`
	ProofMediaURL    *string           `json:"proof_media_url,omitempty"`
	ExternalProofURL *string           `json:"external_proof_url,omitempty"`
	ReferenceURL     *string           `json:"reference_url,omitempty"`
	CreatedEntityID  *string           `json:"created_entity_id,omitempty"`
	ReviewNotes      *string           `json:"review_notes,omitempty"`
	ReviewedBy       *string           `json:"reviewed_by,omitempty"`
	ReviewerName     string            `json:"reviewer_name,omitempty"`
	ReviewedAt       *string           `json:"reviewed_at,omitempty"`
	CreatedAt        string            `json:"created_at"`
}

// PendingSummary feeds the admin dashboard badge counts.
type PendingSummary struct {
	Claims    int64 `json:"claims"`
	Updates   int64 `json:"updates"`
	Proposals int64 `json:"proposals"`
	Total     int64 `json:"total"`
}

func (s *moderationService) List(ctx context.Context, kind model.RequestKind, filter ModerationFilter) ([]ModerationRequestResponse, int64, error) {
	rf, err := toRequestFilter(kind, filter)
	if err != nil {
		return nil, 0, err
	}

	var out []ModerationRequestResponse
	var total int64
	switch kind {
	case model.KindClaim:
		var claims []model.EntityClaim
		claims, total, err = s.claims.List(ctx, rf)
		for _, c := range claims {
			out = append(out, toClaimResponse(c))
		}
	case model.KindUpdate:
		var updates []model.EntityUpdateRequest
		updates, total, err = s.updates.List(ctx, rf)
		for _, u := range updates {
			out = append(out, toUpdateResponse(u))
		}
	case model.KindProposal:
		var proposals []model.EntityProposal
		proposals, total, err = s.proposals.List(ctx, rf)
		for _, p := range proposals {
			out = append(out, toProposalResponse(p))
		}
	default:
		return nil, 0, fmt.Errorf("%w: unknown request kind %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list %s requests: %w", ErrStorageFailure, kind, err)
	}
	if out == nil {
		out = []ModerationRequestResponse{}
	}
	return out, total, nil
}

func (s *moderationService) Summary(ctx context.Context) (PendingSummary, error) {
	var sum PendingSummary
	var err error
	if sum.Claims, err = s.claims.CountPending(ctx); err != nil {
		return PendingSummary{}, fmt.Errorf("%w: failed to count pending claims: %w", ErrStorageFailure, err)
	}
	if sum.Updates, err = s.updates.CountPending(ctx); err != nil {
		return PendingSummary{}, fmt.Errorf("%w: failed to count pending updates: %w", ErrStorageFailure, err)
	}
	if sum.Proposals, err = s.proposals.CountPending(ctx); err != nil {
		return PendingSummary{}, fmt.Errorf("%w: failed to count pending proposals: %w", ErrStorageFailure, err)
	}
	sum.Total = sum.Claims + sum.Updates + sum.Proposals
	return sum, nil
}

func toRequestFilter(kind model.RequestKind, f ModerationFilter) (repository.RequestFilter, error) {
	rf := repository.RequestFilter{Page: f.Page, Limit: f.Limit}
	if rf.Page <= 0 {
		rf.Page = 1
	}
	if rf.Limit <= 0 {
		rf.Limit = 20
	}
	if f.EntityType != "" {
		t, err := model.ParseEntityType(f.EntityType)
		if err != nil {
			return rf, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		rf.EntityType = t
	}
	if f.Status != "" {
		d, err := kind.ParseStatusLabel(f.Status)
		if err != nil {
			return rf, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		rf.Status = d
	}
	return rf, nil
}

// --- Mappers ---

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func optTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func optID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func userName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

func toClaimResponse(c model.EntityClaim) ModerationRequestResponse {
	entityID := c.EntityID.String()
	return ModerationRequestResponse{
		ID:            c.ID.String(),
		Kind:          model.KindClaim,
		EntityType:    c.EntityType,
		EntityID:      &entityID,
		Status:        model.KindClaim.StatusLabel(c.Status),
		Version:       c.Version,
		SubmittedBy:   c.RequestedBy.String(),
		SubmitterName: userName(c.Requester),
		EvidenceURL:   c.EvidenceURL,
		Notes:         c.Notes,
		ReviewNotes:   c.ReviewNotes,
		ReviewedBy:    optID(c.ReviewedBy),
		ReviewerName:  userName(c.Reviewer),
		ReviewedAt:    optTime(c.ReviewedAt),
		CreatedAt:     formatTime(c.CreatedAt),
	}
}

func toUpdateResponse(u model.EntityUpdateRequest) ModerationRequestResponse {
	entityID := u.EntityID.String()
	return ModerationRequestResponse{
		ID:               u.ID.String(),
		Kind:             model.KindUpdate,
		EntityType:       u.EntityType,
		EntityID:         &entityID,
		Status:           model.KindUpdate.StatusLabel(u.Status),
		Version:          u.Version,
		SubmittedBy:      u.SubmittedBy.String(),
		SubmitterName:    userName(u.Submitter),
		ChangeSet:        u.ChangeSet,
		ProofMediaURL:    u.ProofMediaURL,
		ExternalProofURL: u.ExternalProofURL,
		ReviewNotes:      u.ReviewNotes,
		ReviewedBy:       optID(u.ReviewedBy),
		ReviewerName:     userName(u.Reviewer),
		ReviewedAt:       optTime(u.ReviewedAt),
		CreatedAt:        formatTime(u.CreatedAt),
	}
}

func toProposalResponse(p model.EntityProposal) ModerationRequestResponse {
	return ModerationRequestResponse{
		ID:              p.ID.String(),
		Kind:            model.KindProposal,
		EntityType:      p.EntityType,
		EntityID:        optID(p.CreatedEntityID),
		Status:          model.KindProposal.StatusLabel(p.Status),
		Version:         p.Version,
		SubmittedBy:     p.SubmittedBy.String(),
		SubmitterName:   userName(p.Submitter),
		Name:            p.Name,
		ChangeSet:       p.ChangeSet,
		ReferenceURL:    p.ReferenceURL,
		CreatedEntityID: optID(p.CreatedEntityID),
		ReviewNotes:     p.ReviewNotes,
		ReviewedBy:      optID(p.ReviewedBy),
		ReviewerName:    userName(p.Reviewer),
		ReviewedAt:      optTime(p.ReviewedAt),
		CreatedAt:       formatTime(p.CreatedAt),
	}
}
