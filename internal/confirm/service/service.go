package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pkgconfirm/internal/confirm"
	"pkgconfirm/internal/confirm/metrics"
	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/confirm/ports"
	"pkgconfirm/pkg/domain"
	dErrors "pkgconfirm/pkg/domain-errors"
	"pkgconfirm/pkg/platform/audit"
	"pkgconfirm/pkg/platform/sentinel"
	"pkgconfirm/pkg/requestcontext"
)

// Store persists confirmation sessions. Update must serialize concurrent
// calls for the same session and persist only when fn returns nil.
type Store interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id domain.SessionID) (*models.Session, error)
	Update(ctx context.Context, id domain.SessionID, fn func(*models.Session) error) (*models.Session, error)
}

// ProceedResult answers an install request. ScrollTo names the section to
// re-present when acknowledgement is still required.
type ProceedResult struct {
	Session  *models.Session
	Decision models.ProceedDecision
	ScrollTo models.Section
}

// Service runs confirmation sessions: it resolves package metadata, plans the
// disclosure and drives the acknowledgement gate from user signals.
type Service struct {
	store      Store
	resolver   ports.PackageResolver
	auditor    ports.AuditPort
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
	sessionTTL time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditor(auditor ports.AuditPort) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, resolver ports.PackageResolver, opts ...Option) *Service {
	s := &Service{
		store:      store,
		resolver:   resolver,
		logger:     slog.Default(),
		tracer:     otel.Tracer("pkgconfirm/internal/confirm/service"),
		sessionTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resolves the package behind uri and opens a confirmation session.
// Resolution failures abort with CodeResolutionFailed; the decision engine
// never sees a partial snapshot.
func (s *Service) Start(ctx context.Context, packageURI string) (*models.Session, error) {
	packageURI = strings.TrimSpace(packageURI)
	if packageURI == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "package_uri is required")
	}

	ctx, span := s.tracer.Start(ctx, "confirm.Start",
		trace.WithAttributes(attribute.String("package.uri", packageURI)))
	defer span.End()

	resolveStart := time.Now()
	candidate, err := s.resolver.ResolveCandidate(ctx, packageURI)
	if err == nil && candidate == nil {
		err = errors.New("resolver returned no snapshot")
	}
	if err != nil {
		s.metrics.IncrementResolutionFailure("candidate")
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate resolution failed")
		s.logger.WarnContext(ctx, "package resolution failed",
			"package_uri", packageURI,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.emit(ctx, audit.EventConfirmationResolutionFailed, nil, func(e *audit.Event) {
			e.Reason = dErrors.MessageOf(err)
			if e.Reason == "" {
				e.Reason = err.Error()
			}
		})
		return nil, dErrors.Wrap(err, dErrors.CodeResolutionFailed, "package could not be resolved")
	}

	declared := candidate.PackageName
	effective, err := reconcile(ctx, s.resolver, *candidate)
	if err != nil {
		s.metrics.IncrementResolutionFailure("canonical")
		span.RecordError(err)
		span.SetStatus(codes.Error, "canonical name lookup failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reconcile package identity")
	}

	installed, err := s.resolver.ResolveInstalled(ctx, effective.PackageName)
	if err != nil {
		s.metrics.IncrementResolutionFailure("installed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "installed lookup failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up installed package")
	}
	if installed != nil && installed.PackageName != effective.PackageName {
		s.logger.ErrorContext(ctx, "installed snapshot identity mismatch",
			"candidate", effective.PackageName,
			"installed", installed.PackageName,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "installed package identity mismatch")
	}
	s.metrics.ObserveResolveLatency(time.Since(resolveStart))

	plan := confirm.Plan(effective, installed)
	now := requestcontext.Now(ctx)
	session := &models.Session{
		ID:            domain.NewSessionID(),
		PackageURI:    packageURI,
		DeclaredName:  declared,
		Candidate:     effective,
		Installed:     installed,
		Plan:          plan,
		VersionChange: models.CompareVersions(effective, installed),
		State:         confirm.InitialState(plan),
		CreatedAt:     now,
		UpdatedAt:     now,
		ExpiresAt:     now.Add(s.sessionTTL),
	}
	if err := s.store.Create(ctx, session); err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save confirmation")
	}

	span.SetAttributes(
		attribute.String("package.name", string(effective.PackageName)),
		attribute.Bool("package.renamed", session.Renamed()),
		attribute.Bool("plan.update", plan.IsUpdate),
		attribute.String("plan.summary", string(plan.Summary)),
		attribute.Bool("plan.requires_acknowledgement", plan.RequiresAcknowledgement),
	)
	s.metrics.IncrementStarted(string(plan.Summary), string(session.State))
	s.emit(ctx, audit.EventConfirmationStarted, session, func(e *audit.Event) {
		e.Decision = string(plan.Summary)
		e.Permissions = disclosed(session)
	})
	s.logger.InfoContext(ctx, "confirmation started",
		"session_id", session.ID.String(),
		"package", effective.PackageName,
		"declared_name", declared,
		"update", plan.IsUpdate,
		"summary", plan.Summary,
		"gate", session.State,
		"version_change", session.VersionChange,
		"request_id", requestcontext.RequestID(ctx),
	)
	return session, nil
}

// Get returns a live session.
func (s *Service) Get(ctx context.Context, id domain.SessionID) (*models.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "load confirmation")
	}
	if session.IsExpired(requestcontext.Now(ctx)) {
		return nil, errSessionNotFound
	}
	return session, nil
}

// Acknowledge records the acknowledgement gesture. The install action is
// enabled on the first acknowledgement only; repeats change nothing.
func (s *Service) Acknowledge(ctx context.Context, id domain.SessionID) (*models.Session, error) {
	now := requestcontext.Now(ctx)
	var enabled bool
	session, err := s.store.Update(ctx, id, func(sess *models.Session) error {
		enabled = false
		if sess.IsExpired(now) {
			return sentinel.ErrNotFound
		}
		gate := confirm.RestoreGate(sess.State, sess.Outcome,
			confirm.WithEnabledListener(func() { enabled = true }))
		state, err := gate.Acknowledge()
		if err != nil {
			return err
		}
		sess.State = state
		if enabled {
			sess.EnabledAt = &now
			sess.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "acknowledge confirmation")
	}

	if enabled {
		s.metrics.IncrementTransition("unlocked")
		s.emit(ctx, audit.EventInstallActionEnabled, session, nil)
		s.logger.InfoContext(ctx, "install action enabled",
			"session_id", session.ID.String(),
			"package", session.Candidate.PackageName,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return session, nil
}

// Proceed answers an install request. While the gate is locked the session
// stays open and the caller is told to re-present the disclosure.
func (s *Service) Proceed(ctx context.Context, id domain.SessionID) (*ProceedResult, error) {
	now := requestcontext.Now(ctx)
	var decision models.ProceedDecision
	session, err := s.store.Update(ctx, id, func(sess *models.Session) error {
		if sess.IsExpired(now) {
			return sentinel.ErrNotFound
		}
		gate := confirm.RestoreGate(sess.State, sess.Outcome)
		d, err := gate.TryProceed()
		if err != nil {
			return err
		}
		decision = d
		if d == models.DecisionProceed {
			sess.Outcome = gate.Outcome()
			sess.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "proceed with confirmation")
	}

	result := &ProceedResult{Session: session, Decision: decision}
	if decision == models.DecisionRequiresAcknowledgement {
		result.ScrollTo = session.Plan.FirstSection()
		s.metrics.IncrementTransition("reprompt")
		s.logger.InfoContext(ctx, "install requested before acknowledgement",
			"session_id", session.ID.String(),
			"scroll_to", result.ScrollTo,
			"request_id", requestcontext.RequestID(ctx),
		)
		return result, nil
	}

	s.metrics.IncrementOutcome(string(models.OutcomeProceed))
	s.emit(ctx, audit.EventConfirmationProceeded, session, func(e *audit.Event) {
		e.Decision = string(models.OutcomeProceed)
		e.Permissions = disclosed(session)
	})
	s.logger.InfoContext(ctx, "confirmation proceeded",
		"session_id", session.ID.String(),
		"package", session.Candidate.PackageName,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

// Cancel ends the session. Cancelling twice is a no-op; cancelling after
// proceed is rejected with CodeInvalidState.
func (s *Service) Cancel(ctx context.Context, id domain.SessionID) (*models.Session, error) {
	now := requestcontext.Now(ctx)
	var changed bool
	session, err := s.store.Update(ctx, id, func(sess *models.Session) error {
		changed = false
		if sess.IsExpired(now) {
			return sentinel.ErrNotFound
		}
		gate := confirm.RestoreGate(sess.State, sess.Outcome)
		outcome, err := gate.Cancel()
		if err != nil {
			return err
		}
		if sess.Outcome != outcome {
			changed = true
			sess.Outcome = outcome
			sess.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "cancel confirmation")
	}

	if changed {
		s.metrics.IncrementOutcome(string(models.OutcomeCancelled))
		s.emit(ctx, audit.EventConfirmationCancelled, session, func(e *audit.Event) {
			e.Decision = string(models.OutcomeCancelled)
		})
		s.logger.InfoContext(ctx, "confirmation cancelled",
			"session_id", session.ID.String(),
			"package", session.Candidate.PackageName,
			"gate", session.State,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return session, nil
}

var errSessionNotFound = dErrors.New(dErrors.CodeNotFound, "confirmation not found")

// translate maps store sentinels to domain errors and passes domain errors
// through unchanged.
func translate(err error, op string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errSessionNotFound
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "confirmation was updated concurrently, retry")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op)
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, session *models.Session, decorate func(*audit.Event)) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Category:  action.Category(),
		Timestamp: requestcontext.Now(ctx),
		Action:    string(action),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.ActorID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    requestcontext.Device(ctx),
	}
	if session != nil {
		event.SessionID = session.ID.String()
		event.Subject = string(session.Candidate.PackageName)
	}
	if decorate != nil {
		decorate(&event)
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"session_id", event.SessionID,
			"error", err,
			"request_id", event.RequestID,
		)
	}
}

// disclosed lists the permission names the user was shown: the new ones on
// an update, everything on a fresh install.
func disclosed(session *models.Session) []string {
	if session.Plan.IsUpdate {
		return session.Plan.NewPermissions.Names()
	}
	return session.Candidate.Permissions.Names()
}
