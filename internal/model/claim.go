package model

import (
	"time"

	"github.com/google/uuid"
)

// AutoRejectedNote is stored on sibling claims closed by another claim's approval.
const AutoRejectedNote = "Auto-rejected: another claim was approved"

// EntityClaim is a user's assertion that they own a venue or event in real life.
// At most one claim per entity may ever be approved.
type EntityClaim struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityType  EntityType `gorm:"type:varchar(20);not null;index:idx_claim_entity" json:"entity_type"`
	EntityID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_claim_entity" json:"entity_id"`
	RequestedBy uuid.UUID  `gorm:"type:uuid;not null;index" json:"requested_by"`
	Requester   *User      `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	Status      Decision   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Version     int        `gorm:"not null;default:1" json:"version"`
	EvidenceURL *string    `gorm:"type:text" json:"evidence_url"`
	Notes       *string    `gorm:"type:text" json:"notes"`
	ReviewNotes *string    `gorm:"type:text" json:"review_notes"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	Reviewer    *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *EntityClaim) Ref() ManagedEntityRef {
	return ManagedEntityRef{EntityType: c.EntityType, EntityID: c.EntityID}
}
