// Package models defines the audit trail event shape shared by the
// publisher, the sinks, and the admin listing API.
package models

import (
	"time"

	"github.com/google/uuid"

	id "vouch/pkg/domain"
)

// Action names follow "<entity>.<verb>" so the trail can be filtered by
// prefix.
const (
	ActionUserRegistered = "user.registered"
	ActionUserLoggedIn   = "user.logged_in"

	ActionClaimCreated   = "claim.created"
	ActionClaimUpdated   = "claim.updated"
	ActionClaimSubmitted = "claim.submitted"
	ActionClaimVerified  = "claim.verified"
	ActionClaimRejected  = "claim.rejected"
	ActionClaimDisputed  = "claim.disputed"

	ActionDisputeOpened    = "dispute.opened"
	ActionDisputeReviewed  = "dispute.under_review"
	ActionDisputeResolved  = "dispute.resolved"
	ActionDisputeDismissed = "dispute.dismissed"

	ActionOrgStatusChanged = "organization.status_changed"

	ActionEvidenceRegistered = "evidence.registered"
)

// Event is one immutable audit trail entry.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Action     string         `json:"action"`
	ActorID    id.UserID      `json:"actor_id"`
	ActorRole  id.Role        `json:"actor_role,omitempty"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	RequestID  string         `json:"request_id,omitempty"`
	ClientIP   string         `json:"client_ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent stamps identity and time; callers fill actor and request
// metadata from context before publishing.
func NewEvent(action, entityType, entityID string, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OccurredAt: occurredAt.UTC(),
	}
}
