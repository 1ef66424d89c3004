package models

import (
	"github.com/Masterminds/semver/v3"

	"pkgconfirm/pkg/domain"
)

// PackageSnapshot is the resolved metadata of either the candidate package or
// the installed package sharing its identity. Snapshots are values; use
// WithPackageName to derive a renamed copy.
type PackageSnapshot struct {
	PackageName domain.PackageName `json:"package_name"`
	Version     string             `json:"version,omitempty"`
	Permissions PermissionSet      `json:"permissions"`
	SystemApp   bool               `json:"system_app"`
}

// WithPackageName returns a copy of the snapshot under a different identity.
func (p PackageSnapshot) WithPackageName(name domain.PackageName) PackageSnapshot {
	p.PackageName = name
	return p
}

// VersionChange describes how the candidate version relates to the installed one.
type VersionChange string

const (
	VersionFreshInstall VersionChange = "fresh_install"
	VersionUpgrade      VersionChange = "upgrade"
	VersionDowngrade    VersionChange = "downgrade"
	VersionReinstall    VersionChange = "reinstall"
	VersionUnknown      VersionChange = "unknown"
)

// CompareVersions classifies a candidate version against the installed
// snapshot. It is informational and never influences the plan.
func CompareVersions(candidate PackageSnapshot, installed *PackageSnapshot) VersionChange {
	if installed == nil {
		return VersionFreshInstall
	}
	cv, err := semver.NewVersion(candidate.Version)
	if err != nil {
		return VersionUnknown
	}
	iv, err := semver.NewVersion(installed.Version)
	if err != nil {
		return VersionUnknown
	}
	switch cv.Compare(iv) {
	case 1:
		return VersionUpgrade
	case -1:
		return VersionDowngrade
	default:
		return VersionReinstall
	}
}
