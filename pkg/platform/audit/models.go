package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers what the user was shown and what they agreed
	// to. These records back disputes about installed permissions.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine lifecycle activity and failures that
	// are useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the confirmation service to capture key actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id"`
	// Subject is the effective package name after identity reconciliation.
	Subject  string `json:"subject"`
	Action   string `json:"action"`
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
	// Permissions lists the permission names disclosed to the user.
	Permissions []string `json:"permissions,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
	// ActorID identifies the installer client that drove the session.
	ActorID  string `json:"actor_id,omitempty"`
	ClientIP string `json:"client_ip,omitempty"`
	Device   string `json:"device,omitempty"`
}

type AuditEvent string

const (
	EventConfirmationStarted          AuditEvent = "confirmation_started"
	EventConfirmationResolutionFailed AuditEvent = "confirmation_resolution_failed"
	EventInstallActionEnabled         AuditEvent = "install_action_enabled"
	EventConfirmationProceeded        AuditEvent = "confirmation_proceeded"
	EventConfirmationCancelled        AuditEvent = "confirmation_cancelled"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventConfirmationStarted:   CategoryCompliance,
	EventInstallActionEnabled:  CategoryCompliance,
	EventConfirmationProceeded: CategoryCompliance,
	EventConfirmationCancelled: CategoryCompliance,

	EventConfirmationResolutionFailed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that can read events back.
type Lister interface {
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
}
