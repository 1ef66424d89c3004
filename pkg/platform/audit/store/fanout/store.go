// Package fanout copies audit events from a primary sink into mirrors. The
// primary decides success; mirrors are best effort.
package fanout

import (
	"context"
	"log/slog"

	audit "pkgconfirm/pkg/platform/audit"
)

type Store struct {
	primary audit.Store
	mirrors []audit.Store
	logger  *slog.Logger
}

func New(logger *slog.Logger, primary audit.Store, mirrors ...audit.Store) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{primary: primary, mirrors: mirrors, logger: logger}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	for _, m := range s.mirrors {
		if err := m.Append(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "audit mirror append failed",
				"action", event.Action,
				"session_id", event.SessionID,
				"error", err,
			)
		}
	}
	return s.primary.Append(ctx, event)
}

// ListBySession reads from the first sink that supports listing.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]audit.Event, error) {
	for _, st := range append([]audit.Store{s.primary}, s.mirrors...) {
		if lister, ok := st.(audit.Lister); ok {
			return lister.ListBySession(ctx, sessionID)
		}
	}
	return nil, nil
}
