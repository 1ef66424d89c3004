package worker

import (
	"context"
	"log/slog"

	audit "pkgconfirm/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. Store
// failures are logged and the event is dropped; audit never blocks a
// confirmation.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until it is closed. Events still queued when the
// inbox closes are persisted before Run returns.
func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "audit append failed",
				"action", event.Action,
				"session_id", event.SessionID,
				"error", err,
			)
		}
	}
}
