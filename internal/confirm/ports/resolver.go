package ports

import (
	"context"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/pkg/domain"
)

// PackageResolver supplies package metadata to the confirmation flow.
// All lookups happen before the decision engine runs; the engine itself
// never performs I/O.
type PackageResolver interface {
	// ResolveCandidate reads the package referenced by uri. Any failure means
	// no snapshot exists and the confirmation cannot start.
	ResolveCandidate(ctx context.Context, uri string) (*models.PackageSnapshot, error)

	// ResolveInstalled returns the active installation of name, or nil when
	// the package is absent or only residual data remains.
	ResolveInstalled(ctx context.Context, name domain.PackageName) (*models.PackageSnapshot, error)

	// CanonicalName maps a declared name to the name of a currently installed
	// package it was renamed from. ok is false when no unambiguous mapping
	// exists.
	CanonicalName(ctx context.Context, declared domain.PackageName) (canonical domain.PackageName, ok bool, err error)
}
