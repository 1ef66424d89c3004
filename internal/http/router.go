// Package httpapi assembles the public HTTP surface: middleware, health and
// metrics endpoints, and the confirmation routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pkgconfirm/internal/admin"
	confirmHandler "pkgconfirm/internal/confirm/handler"
	platformmetrics "pkgconfirm/internal/platform/metrics"
	"pkgconfirm/pkg/platform/httputil"
	adminmw "pkgconfirm/pkg/platform/middleware/admin"
	authmw "pkgconfirm/pkg/platform/middleware/auth"
	"pkgconfirm/pkg/platform/middleware/metadata"
	"pkgconfirm/pkg/platform/middleware/request"
	"pkgconfirm/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators the router mounts.
type Deps struct {
	Logger    *slog.Logger
	Confirm   confirmHandler.Service
	Metrics   *platformmetrics.Metrics
	Gatherer  prometheus.Gatherer
	Validator authmw.JWTValidator
	RateLimit func(http.Handler) http.Handler
	Health    map[string]HealthCheck

	// Admin routes are mounted only when both are set.
	Admin      *admin.Handler
	AdminToken string
}

// NewRouter wires middleware and routes. Confirmation routes require a bearer
// token only when a validator is supplied, and are throttled per caller when
// a rate limit is supplied.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recover(logger))
	r.Use(request.Logger(logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/health", healthHandler(deps.Health))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if deps.Validator != nil {
			r.Use(authmw.RequireAuth(deps.Validator, logger))
		}
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit)
		}
		confirmHandler.New(deps.Confirm, logger).Register(r)
	})

	if deps.Admin != nil && deps.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(deps.AdminToken, logger))
			deps.Admin.Register(r)
		})
	}
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
