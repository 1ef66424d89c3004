// Package admin exposes operator endpoints for inspecting confirmations.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pkgconfirm/pkg/domain"
	dErrors "pkgconfirm/pkg/domain-errors"
	audit "pkgconfirm/pkg/platform/audit"
	"pkgconfirm/pkg/platform/audit/publisher"
	"pkgconfirm/pkg/platform/httputil"
	"pkgconfirm/pkg/requestcontext"
)

// AuditReader returns the audit trail of one session.
type AuditReader interface {
	List(ctx context.Context, sessionID string) ([]audit.Event, error)
}

type Handler struct {
	reader AuditReader
	logger *slog.Logger
}

func New(reader AuditReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{reader: reader, logger: logger}
}

// Register mounts the admin routes. Callers wrap r with the admin token check.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/confirmations/{id}/events", h.handleListEvents)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid confirmation id"))
		return
	}

	events, err := h.reader.List(ctx, id.String())
	if err != nil {
		if errors.Is(err, publisher.ErrListNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "audit trail is not retained by this deployment"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"error", err,
			"session_id", id.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	if len(events) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no audit events for confirmation"))
		return
	}

	resp := &EventsListResponse{SessionID: id.String(), Events: make([]*EventResponse, 0, len(events)), Total: len(events)}
	for _, e := range events {
		resp.Events = append(resp.Events, toEventResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
