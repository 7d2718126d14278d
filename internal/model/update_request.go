package model

import (
	"time"

	"github.com/google/uuid"
)

// EntityUpdateRequest proposes field-level edits to an existing venue or event.
// ChangeSet is written once at submission and never modified afterwards.
type EntityUpdateRequest struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityType       EntityType `gorm:"type:varchar(20);not null;index:idx_update_entity" json:"entity_type"`
	EntityID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_update_entity" json:"entity_id"`
	SubmittedBy      uuid.UUID  `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Submitter        *User      `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	Status           Decision   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Version          int        `gorm:"not null;default:1" json:"version"`
	ChangeSet        ChangeSet  `gorm:"type:jsonb;not null" json:"change_set"`
	ProofMediaURL    *string    `gorm:"type:text" json:"proof_media_url"`
	ExternalProofURL *string    `gorm:"type:text" json:"external_proof_url"`
	ReviewNotes      *string    `gorm:"type:text" json:"review_notes"`
	ReviewedBy       *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	Reviewer         *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (r *EntityUpdateRequest) Ref() ManagedEntityRef {
	return ManagedEntityRef{EntityType: r.EntityType, EntityID: r.EntityID}
}
