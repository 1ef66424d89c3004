package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/confirm/service"
	"pkgconfirm/pkg/domain"
	dErrors "pkgconfirm/pkg/domain-errors"
	"pkgconfirm/pkg/platform/httputil"
	"pkgconfirm/pkg/requestcontext"
)

// Service defines the confirmation operations exposed over HTTP.
type Service interface {
	Start(ctx context.Context, packageURI string) (*models.Session, error)
	Get(ctx context.Context, id domain.SessionID) (*models.Session, error)
	Acknowledge(ctx context.Context, id domain.SessionID) (*models.Session, error)
	Proceed(ctx context.Context, id domain.SessionID) (*service.ProceedResult, error)
	Cancel(ctx context.Context, id domain.SessionID) (*models.Session, error)
}

// Handler serves the confirmation session endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register registers the confirmation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/confirmations", func(r chi.Router) {
		r.Post("/", h.handleStart)
		r.Get("/{id}", h.handleGet)
		r.Post("/{id}/acknowledge", h.handleAcknowledge)
		r.Post("/{id}/proceed", h.handleProceed)
		r.Post("/{id}/cancel", h.handleCancel)
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req StartRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid start confirmation request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Start(ctx, req.PackageURI)
	if err != nil {
		h.writeServiceError(ctx, w, "start confirmation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, NewSessionResponse(session))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(r.Context(), w, "get confirmation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewSessionResponse(session))
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.service.Acknowledge(r.Context(), id)
	if err != nil {
		h.writeServiceError(r.Context(), w, "acknowledge confirmation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewSessionResponse(session))
}

// handleProceed answers 200 when the install may go ahead and 202 when the
// disclosure must be re-presented first.
func (h *Handler) handleProceed(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	result, err := h.service.Proceed(r.Context(), id)
	if err != nil {
		h.writeServiceError(r.Context(), w, "proceed with confirmation", err)
		return
	}
	status := http.StatusOK
	if result.Decision == models.DecisionRequiresAcknowledgement {
		status = http.StatusAccepted
	}
	httputil.WriteJSON(w, status, ProceedResponse{
		Decision: string(result.Decision),
		ScrollTo: string(result.ScrollTo),
		Session:  NewSessionResponse(result.Session),
	})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeServiceError(r.Context(), w, "cancel confirmation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewSessionResponse(session))
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (domain.SessionID, bool) {
	id, err := domain.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.SessionID{}, false
	}
	return id, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
