package model

import (
	"time"

	"github.com/google/uuid"
)

// EntityVerificationLog is the append-only trail of moderation events.
// Rows are never updated or deleted.
type EntityVerificationLog struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityType  EntityType   `gorm:"type:varchar(20);not null;index:idx_vlog_entity" json:"entity_type"`
	EntityID    *uuid.UUID   `gorm:"type:uuid;index:idx_vlog_entity" json:"entity_id"` // nil for a proposal not yet approved
	RequestKind *RequestKind `gorm:"type:varchar(20)" json:"request_kind"`
	RequestID   *uuid.UUID   `gorm:"type:uuid;index" json:"request_id"`
	ActorUserID *uuid.UUID   `gorm:"type:uuid;index" json:"actor_user_id"`
	Actor       *User        `gorm:"foreignKey:ActorUserID" json:"actor,omitempty"`
	Action      string       `gorm:"type:varchar(50);not null;index" json:"action"`
	Notes       *string      `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
}
