package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"pkgconfirm/internal/admin"
	confirmMetrics "pkgconfirm/internal/confirm/metrics"
	confirmService "pkgconfirm/internal/confirm/service"
	httpapi "pkgconfirm/internal/http"
	jwttoken "pkgconfirm/internal/jwt_token"
	"pkgconfirm/internal/packages"
	"pkgconfirm/internal/packages/catalog"
	"pkgconfirm/internal/packages/manifest"
	"pkgconfirm/internal/platform/config"
	"pkgconfirm/internal/platform/httpserver"
	"pkgconfirm/internal/platform/logger"
	platformmetrics "pkgconfirm/internal/platform/metrics"
	ratelimitmw "pkgconfirm/internal/ratelimit/middleware"
)

const shutdownGrace = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment, cfg.LogLevel)
	for _, w := range cfg.Warnings {
		log.Warn("configuration fallback", "detail", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("pkgconfirm exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	permCatalog, err := catalog.Load(cfg.Packages.CatalogPath)
	if err != nil {
		return err
	}

	installedStore, closeInstalled, err := buildInstalledStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeInstalled()

	sessions, err := buildSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sessions.close()

	auditPub, closeAudit, err := buildAuditPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	resolver := packages.NewResolver(manifest.NewLoader(cfg.Packages.ManifestRoot, permCatalog), installedStore, permCatalog)
	svc := confirmService.New(sessions.store, resolver,
		confirmService.WithLogger(log),
		confirmService.WithMetrics(confirmMetrics.New(reg)),
		confirmService.WithAuditor(auditPub),
		confirmService.WithSessionTTL(cfg.SessionTTL),
	)

	deps := httpapi.Deps{
		Logger:   log,
		Confirm:  svc,
		Metrics:  platformmetrics.New(reg),
		Gatherer: reg,
		Health:   sessions.health,
	}
	if cfg.AdminToken != "" {
		deps.Admin = admin.New(auditPub, log)
		deps.AdminToken = cfg.AdminToken
	}
	if cfg.RateLimitPerMinute > 0 {
		deps.RateLimit = ratelimitmw.New(sessions.buckets, cfg.RateLimitPerMinute, time.Minute, log).RateLimit
	}
	if cfg.AuthEnabled() {
		deps.Validator = jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience).Validator()
	} else if cfg.IsProduction() {
		return fmt.Errorf("JWT_SIGNING_KEY is required in production")
	} else {
		log.Warn("JWT_SIGNING_KEY not set, confirmation routes are unauthenticated")
	}

	srv := httpserver.New(cfg.Addr, httpapi.NewRouter(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting pkgconfirm", "addr", cfg.Addr, "env", cfg.Environment)
		return httpserver.Run(gctx, srv, shutdownGrace)
	})
	if sessions.purge != nil {
		g.Go(func() error {
			purgeLoop(gctx, sessions.purge, time.Minute, log)
			return nil
		})
	}
	return g.Wait()
}

// purgeLoop drops expired in-memory sessions until ctx ends.
func purgeLoop(ctx context.Context, purge func(context.Context, time.Time) (int, error), every time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := purge(ctx, now)
			if err != nil {
				log.ErrorContext(ctx, "purge expired sessions failed", "error", err)
				continue
			}
			if removed > 0 {
				log.DebugContext(ctx, "purged expired sessions", "count", removed)
			}
		}
	}
}
