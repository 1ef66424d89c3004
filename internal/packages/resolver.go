// Package packages resolves candidate archives and installed packages for the
// confirmation flow.
package packages

import (
	"context"
	"errors"
	"fmt"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/packages/catalog"
	"pkgconfirm/internal/packages/installed"
	"pkgconfirm/pkg/domain"
	"pkgconfirm/pkg/platform/sentinel"
)

// CandidateLoader reads the candidate package referenced by a URI.
type CandidateLoader interface {
	Load(ctx context.Context, uri string) (*models.PackageSnapshot, error)
}

// Resolver answers package lookups from a manifest loader and an installed
// package store.
type Resolver struct {
	candidates CandidateLoader
	installed  installed.Store
	catalog    *catalog.Catalog
}

func NewResolver(candidates CandidateLoader, store installed.Store, c *catalog.Catalog) *Resolver {
	if c == nil {
		c = catalog.Default()
	}
	return &Resolver{candidates: candidates, installed: store, catalog: c}
}

func (r *Resolver) ResolveCandidate(ctx context.Context, uri string) (*models.PackageSnapshot, error) {
	snap, err := r.candidates.Load(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("resolve candidate: %w", err)
	}
	return snap, nil
}

// ResolveInstalled returns nil for unknown packages and for packages that
// only left data behind.
func (r *Resolver) ResolveInstalled(ctx context.Context, name domain.PackageName) (*models.PackageSnapshot, error) {
	rec, err := r.installed.Get(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve installed: %w", err)
	}
	if !rec.Installed {
		return nil, nil
	}
	return rec.Snapshot(r.catalog), nil
}

// CanonicalName maps declared to the installed package that was renamed from
// it. More than one installed match is ambiguous and yields no mapping.
func (r *Resolver) CanonicalName(ctx context.Context, declared domain.PackageName) (domain.PackageName, bool, error) {
	records, err := r.installed.FindByOriginalName(ctx, declared)
	if err != nil {
		return "", false, fmt.Errorf("canonical name lookup: %w", err)
	}
	var match domain.PackageName
	count := 0
	for _, rec := range records {
		if !rec.Installed {
			continue
		}
		match = rec.PackageName
		count++
	}
	if count != 1 {
		return "", false, nil
	}
	return match, true, nil
}
