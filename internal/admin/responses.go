package admin

import (
	"time"

	audit "pkgconfirm/pkg/platform/audit"
)

// EventResponse is the operator view of one audit event.
type EventResponse struct {
	Action      string    `json:"action"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	Subject     string    `json:"subject"`
	Decision    string    `json:"decision,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Device      string    `json:"device,omitempty"`
}

// EventsListResponse wraps a session's audit trail.
type EventsListResponse struct {
	SessionID string           `json:"session_id"`
	Events    []*EventResponse `json:"events"`
	Total     int              `json:"total"`
}

func toEventResponse(e audit.Event) *EventResponse {
	return &EventResponse{
		Action:      e.Action,
		Category:    string(e.Category),
		Timestamp:   e.Timestamp,
		Subject:     e.Subject,
		Decision:    e.Decision,
		Reason:      e.Reason,
		Permissions: e.Permissions,
		ActorID:     e.ActorID,
		RequestID:   e.RequestID,
		Device:      e.Device,
	}
}
