package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	confirmService "pkgconfirm/internal/confirm/service"
	sessionmemory "pkgconfirm/internal/confirm/store/memory"
	sessionredis "pkgconfirm/internal/confirm/store/redis"
	httpapi "pkgconfirm/internal/http"
	"pkgconfirm/internal/packages/installed"
	installedmemory "pkgconfirm/internal/packages/installed/memory"
	installedpostgres "pkgconfirm/internal/packages/installed/postgres"
	"pkgconfirm/internal/platform/config"
	platformredis "pkgconfirm/internal/platform/redis"
	ratelimitmw "pkgconfirm/internal/ratelimit/middleware"
	"pkgconfirm/internal/ratelimit/store/bucket"
	"pkgconfirm/pkg/platform/audit"
	"pkgconfirm/pkg/platform/audit/publisher"
	kafkasink "pkgconfirm/pkg/platform/audit/publishers/kafka"
	"pkgconfirm/pkg/platform/audit/store/fanout"
	auditlogger "pkgconfirm/pkg/platform/audit/store/logger"
	auditmemory "pkgconfirm/pkg/platform/audit/store/memory"
)

type sessionBackend struct {
	store   confirmService.Store
	health  map[string]httpapi.HealthCheck
	purge   func(context.Context, time.Time) (int, error)
	buckets ratelimitmw.BucketStore
	close   func()
}

// buildSessionStore uses Redis when REDIS_URL is set and an in-memory map
// otherwise. Redis expires keys itself; the memory store needs a purge loop.
// Rate limit windows live next to the sessions.
func buildSessionStore(ctx context.Context, cfg config.Server, log *slog.Logger) (*sessionBackend, error) {
	client, err := platformredis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Info("session store: memory")
		store := sessionmemory.New()
		return &sessionBackend{
			store:   store,
			purge:   store.PurgeExpired,
			buckets: bucket.NewInMemoryBucketStore(),
			close:   func() {},
		}, nil
	}
	log.Info("session store: redis")
	return &sessionBackend{
		store:   sessionredis.New(client),
		health:  map[string]httpapi.HealthCheck{"redis": platformredis.HealthCheck(client)},
		buckets: bucket.NewRedisBucketStore(client),
		close:   func() { _ = client.Close() },
	}, nil
}

// buildInstalledStore opens Postgres when DATABASE_URL is set and falls back
// to an in-memory registry. Either way the optional YAML seed is applied.
func buildInstalledStore(ctx context.Context, cfg config.Server, log *slog.Logger) (installed.Store, func(), error) {
	var records []installed.Record
	if cfg.Packages.InstalledSeedPath != "" {
		var err error
		records, err = installed.LoadSeed(cfg.Packages.InstalledSeedPath)
		if err != nil {
			return nil, nil, err
		}
	}

	if cfg.Database.URL == "" {
		log.Info("installed registry: memory", "seeded", len(records))
		store := installedmemory.New()
		if err := installed.Seed(ctx, store, records); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	store := installedpostgres.New(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if len(records) > 0 {
		if err := store.SeedAll(ctx, records); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	log.Info("installed registry: postgres", "seeded", len(records))
	return store, func() { _ = db.Close() }, nil
}

// recentAuditEvents bounds the in-process copy served by the admin API.
const recentAuditEvents = 10000

// buildAuditPublisher sends audit events to Kafka when brokers are
// configured, falling back to structured logs. A bounded in-memory mirror
// backs the admin audit trail.
func buildAuditPublisher(ctx context.Context, cfg config.Server, log *slog.Logger) (*publisher.Publisher, func(), error) {
	var (
		sink    audit.Store = auditlogger.New(log)
		cleanup             = func() {}
	)
	if len(cfg.Audit.KafkaBrokers) > 0 {
		client, err := kafkasink.NewClient(cfg.Audit.KafkaBrokers, cfg.Audit.Topic)
		if err != nil {
			return nil, nil, err
		}
		if err := kafkasink.EnsureTopic(ctx, client, cfg.Audit.Topic, 3); err != nil {
			log.Warn("could not ensure audit topic", "topic", cfg.Audit.Topic, "error", err)
		}
		sink = kafkasink.NewSink(client, cfg.Audit.Topic,
			kafkasink.WithFallback(sink),
			kafkasink.WithLogger(log),
		)
		cleanup = client.Close
		log.Info("audit sink: kafka", "topic", cfg.Audit.Topic)
	}
	mirror := auditmemory.NewInMemoryStore(auditmemory.WithCapacity(recentAuditEvents))
	pub := publisher.NewPublisher(fanout.New(log, sink, mirror),
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
		publisher.WithLogger(log),
	)
	return pub, func() {
		pub.Close()
		cleanup()
	}, nil
}
