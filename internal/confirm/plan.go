// Package confirm holds the install confirmation core: the decision engine
// that turns resolved package snapshots into a ConfirmationPlan, and the
// acknowledgement gate that guards the install action.
//
// Everything here is pure domain logic with no I/O. Resolution, persistence
// and transport live in the service, store and handler packages.
package confirm

import "pkgconfirm/internal/confirm/models"

// Plan decides which disclosure to show for a candidate package. installed is
// nil for a fresh install. Callers must pass snapshots that share the same
// package name; the engine does not check it.
func Plan(candidate models.PackageSnapshot, installed *models.PackageSnapshot) models.ConfirmationPlan {
	plan := models.ConfirmationPlan{
		IsUpdate:       installed != nil,
		NewPermissions: models.NewPermissionSet(),
	}

	// A fresh install has no previous version to diff against; its full
	// permission list is the disclosure.
	if plan.IsUpdate {
		plan.NewPermissions = candidate.Permissions.Minus(installed.Permissions)
		plan.HasNewPermissions = !plan.NewPermissions.IsEmpty()
	}

	plan.HasPersonalPermissions = len(candidate.Permissions.Personal()) > 0
	plan.HasDevicePermissions = len(candidate.Permissions.Device()) > 0

	shown := permissionsShown(plan)
	plan.RequiresAcknowledgement = shown
	plan.Summary = summaryFor(plan.IsUpdate, shown, installed)
	plan.Sections = sectionsFor(plan, shown)

	return plan
}

func permissionsShown(plan models.ConfirmationPlan) bool {
	listed := plan.HasPersonalPermissions || plan.HasDevicePermissions
	if plan.IsUpdate {
		return plan.HasNewPermissions || listed
	}
	return listed
}

// summaryFor applies the summary table. For updates the system variant is
// chosen by the installed package's flag.
func summaryFor(isUpdate, shown bool, installed *models.PackageSnapshot) models.MessageKind {
	if !isUpdate {
		if shown {
			return models.MessageInstallWithPermissions
		}
		return models.MessageInstallNoPermissions
	}

	system := installed.SystemApp
	switch {
	case shown && system:
		return models.MessageUpdateSystemWithPermissions
	case shown:
		return models.MessageUpdateWithPermissions
	case system:
		return models.MessageUpdateSystemNoPermissions
	default:
		return models.MessageUpdateNoPermissions
	}
}

func sectionsFor(plan models.ConfirmationPlan, shown bool) []models.Section {
	sections := []models.Section{}
	if !shown {
		return sections
	}
	if plan.IsUpdate {
		if plan.HasNewPermissions {
			sections = append(sections, models.SectionNewPermissions)
		} else {
			sections = append(sections, models.SectionNoNewPermissions)
		}
	}
	if plan.HasPersonalPermissions {
		sections = append(sections, models.SectionPersonal)
	}
	if plan.HasDevicePermissions {
		sections = append(sections, models.SectionDevice)
	}
	return sections
}
