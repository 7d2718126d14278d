package service

import (
	"time"

	"nightlife/internal/model"
)

const (
	EventModerationSubmitted = "moderation.submitted"
	EventModerationDecided   = "moderation.decided"
)

// ModerationEvent is pushed to the admin live feed after a commit.
type ModerationEvent struct {
	Type       string            `json:"type"`
	Kind       model.RequestKind `json:"kind"`
	RequestID  string            `json:"request_id"`
	EntityType model.EntityType  `json:"entity_type"`
	EntityID   string            `json:"entity_id,omitempty"`
	Status     string            `json:"status"`
	ActorID    string            `json:"actor_id"`
	At         time.Time         `json:"at"`
}

// EventPublisher delivers moderation events to live subscribers. Publish must not block.
type EventPublisher interface {
	Publish(event ModerationEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ModerationEvent) {}
