// Package logger writes audit events to a structured logger. It is the
// default sink when no broker is configured.
package logger

import (
	"context"
	"log/slog"

	audit "pkgconfirm/pkg/platform/audit"
)

type Store struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	s.logger.InfoContext(ctx, "audit",
		"category", string(event.Category),
		"action", event.Action,
		"session_id", event.SessionID,
		"subject", event.Subject,
		"decision", event.Decision,
		"reason", event.Reason,
		"permissions", event.Permissions,
		"request_id", event.RequestID,
		"actor_id", event.ActorID,
		"device", event.Device,
		"timestamp", event.Timestamp,
	)
	return nil
}
