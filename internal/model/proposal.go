package model

import (
	"time"

	"github.com/google/uuid"
)

// EntityProposal asks for a brand-new venue or event to be created.
type EntityProposal struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityType      EntityType `gorm:"type:varchar(20);not null;index" json:"entity_type"`
	SubmittedBy     uuid.UUID  `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Submitter       *User      `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	Name            string     `gorm:"type:varchar(200);not null" json:"name"`
	ChangeSet       ChangeSet  `gorm:"type:jsonb;not null" json:"change_set"`
	ReferenceURL    *string    `gorm:"type:text" json:"reference_url"`
	Status          Decision   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Version         int        `gorm:"not null;default:1" json:"version"`
	CreatedEntityID *uuid.UUID `gorm:"type:uuid" json:"created_entity_id"` // set on approval
	ReviewNotes     *string    `gorm:"type:text" json:"review_notes"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	Reviewer        *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
