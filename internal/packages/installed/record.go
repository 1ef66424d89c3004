// Package installed holds the device's view of installed packages: what is
// installed, under which name, with which permissions, and which earlier
// names each package used to carry.
package installed

import (
	"context"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/packages/catalog"
	"pkgconfirm/pkg/domain"
)

// Record is one row of the installed-package registry. Installed is false for
// packages that were removed but left data behind.
type Record struct {
	PackageName   domain.PackageName   `yaml:"package" json:"package"`
	Version       string               `yaml:"version,omitempty" json:"version,omitempty"`
	Permissions   []string             `yaml:"permissions,omitempty" json:"permissions,omitempty"`
	SystemApp     bool                 `yaml:"system_app,omitempty" json:"system_app,omitempty"`
	Installed     bool                 `yaml:"installed" json:"installed"`
	OriginalNames []domain.PackageName `yaml:"original_names,omitempty" json:"original_names,omitempty"`
}

// Snapshot classifies the record's permissions.
func (r Record) Snapshot(c *catalog.Catalog) *models.PackageSnapshot {
	return &models.PackageSnapshot{
		PackageName: r.PackageName,
		Version:     r.Version,
		Permissions: c.Set(r.Permissions),
		SystemApp:   r.SystemApp,
	}
}

// HasOriginalName reports whether the package was once published as name.
func (r Record) HasOriginalName(name domain.PackageName) bool {
	for _, n := range r.OriginalNames {
		if n == name {
			return true
		}
	}
	return false
}

// Store persists installed-package records. Get returns sentinel.ErrNotFound
// for unknown names.
type Store interface {
	Get(ctx context.Context, name domain.PackageName) (*Record, error)
	FindByOriginalName(ctx context.Context, name domain.PackageName) ([]Record, error)
	Upsert(ctx context.Context, record Record) error
}
