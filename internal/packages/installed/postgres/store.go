package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pkgconfirm/internal/packages/installed"
	"pkgconfirm/pkg/domain"
	"pkgconfirm/pkg/platform/sentinel"
	txcontext "pkgconfirm/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// Store persists installed-package records in PostgreSQL.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for updated_at.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Migrate creates the registry table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate installed_packages: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const selectColumns = `package_name, version, permissions, system_app, installed, original_names`

func (s *Store) Get(ctx context.Context, name domain.PackageName) (*installed.Record, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM installed_packages WHERE package_name = $1`, string(name))
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get installed package: %w", err)
	}
	return rec, nil
}

func (s *Store) FindByOriginalName(ctx context.Context, name domain.PackageName) ([]installed.Record, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM installed_packages
		 WHERE original_names @> ARRAY[$1]::text[]
		 ORDER BY package_name`, string(name))
	if err != nil {
		return nil, fmt.Errorf("find by original name: %w", err)
	}
	defer rows.Close()

	var out []installed.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installed package: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find by original name: %w", err)
	}
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, record installed.Record) error {
	query := `
		INSERT INTO installed_packages (package_name, version, permissions, system_app, installed, original_names, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (package_name) DO UPDATE SET
			version = EXCLUDED.version,
			permissions = EXCLUDED.permissions,
			system_app = EXCLUDED.system_app,
			installed = EXCLUDED.installed,
			original_names = EXCLUDED.original_names,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		string(record.PackageName),
		record.Version,
		pq.Array(nonNil(record.Permissions)),
		record.SystemApp,
		record.Installed,
		pq.Array(namesToStrings(record.OriginalNames)),
		s.clock(),
	)
	if err != nil {
		return fmt.Errorf("upsert installed package: %w", err)
	}
	return nil
}

// SeedAll upserts records in one transaction.
func (s *Store) SeedAll(ctx context.Context, records []installed.Record) error {
	return txcontext.RunInTx(ctx, s.db, func(ctx context.Context) error {
		return installed.Seed(ctx, s, records)
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*installed.Record, error) {
	var (
		name     string
		perms    pq.StringArray
		original pq.StringArray
		rec      installed.Record
	)
	if err := row.Scan(&name, &rec.Version, &perms, &rec.SystemApp, &rec.Installed, &original); err != nil {
		return nil, err
	}
	rec.PackageName = domain.PackageName(name)
	if len(perms) > 0 {
		rec.Permissions = []string(perms)
	}
	for _, n := range original {
		rec.OriginalNames = append(rec.OriginalNames, domain.PackageName(n))
	}
	return &rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func namesToStrings(names []domain.PackageName) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return out
}
