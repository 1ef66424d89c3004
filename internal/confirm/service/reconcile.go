package service

import (
	"context"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/confirm/ports"
)

// reconcile replaces the candidate's declared name with the canonical name of
// the installed package it was renamed from. A missing or ambiguous mapping
// leaves the declared name in place.
func reconcile(ctx context.Context, resolver ports.PackageResolver, candidate models.PackageSnapshot) (models.PackageSnapshot, error) {
	canonical, ok, err := resolver.CanonicalName(ctx, candidate.PackageName)
	if err != nil {
		return candidate, err
	}
	if !ok || canonical == "" || canonical == candidate.PackageName {
		return candidate, nil
	}
	return candidate.WithPackageName(canonical), nil
}
