package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/pkg/domain"
)

const pkgName = domain.PackageName("org.example.notes")

func personal(names ...string) []models.Permission {
	out := make([]models.Permission, 0, len(names))
	for _, n := range names {
		out = append(out, models.Permission{Name: n, Class: models.ClassPersonal})
	}
	return out
}

func device(names ...string) []models.Permission {
	out := make([]models.Permission, 0, len(names))
	for _, n := range names {
		out = append(out, models.Permission{Name: n, Class: models.ClassDevice})
	}
	return out
}

func snapshot(system bool, perms ...[]models.Permission) models.PackageSnapshot {
	var all []models.Permission
	for _, p := range perms {
		all = append(all, p...)
	}
	return models.PackageSnapshot{
		PackageName: pkgName,
		Permissions: models.NewPermissionSet(all...),
		SystemApp:   system,
	}
}

func ptr(s models.PackageSnapshot) *models.PackageSnapshot {
	return &s
}

func TestPlan_FreshInstall(t *testing.T) {
	t.Run("no permissions needs no acknowledgement", func(t *testing.T) {
		plan := Plan(snapshot(false), nil)

		assert.False(t, plan.IsUpdate)
		assert.False(t, plan.HasNewPermissions)
		assert.False(t, plan.HasPersonalPermissions)
		assert.False(t, plan.HasDevicePermissions)
		assert.False(t, plan.RequiresAcknowledgement)
		assert.Equal(t, models.MessageInstallNoPermissions, plan.Summary)
		assert.Empty(t, plan.Sections)
		assert.True(t, plan.NewPermissions.IsEmpty())
	})

	t.Run("permissions are listed but never reported as new", func(t *testing.T) {
		plan := Plan(snapshot(false, personal("android.permission.READ_CONTACTS"), device("android.permission.INTERNET")), nil)

		assert.False(t, plan.HasNewPermissions, "fresh installs route to the full list")
		assert.True(t, plan.NewPermissions.IsEmpty())
		assert.True(t, plan.HasPersonalPermissions)
		assert.True(t, plan.HasDevicePermissions)
		assert.True(t, plan.RequiresAcknowledgement)
		assert.Equal(t, models.MessageInstallWithPermissions, plan.Summary)
		assert.Equal(t, []models.Section{models.SectionPersonal, models.SectionDevice}, plan.Sections)
	})

	t.Run("candidate system flag does not select a system message", func(t *testing.T) {
		plan := Plan(snapshot(true, device("android.permission.VIBRATE")), nil)
		assert.Equal(t, models.MessageInstallWithPermissions, plan.Summary)
	})
}

func TestPlan_Update(t *testing.T) {
	camera := personal("android.permission.CAMERA")
	location := personal("android.permission.ACCESS_FINE_LOCATION")

	t.Run("new permission is reported exactly", func(t *testing.T) {
		installed := snapshot(false, camera)
		candidate := snapshot(false, camera, location)

		plan := Plan(candidate, &installed)

		assert.True(t, plan.IsUpdate)
		assert.True(t, plan.HasNewPermissions)
		assert.Equal(t, []string{"android.permission.ACCESS_FINE_LOCATION"}, plan.NewPermissions.Names())
		assert.True(t, plan.RequiresAcknowledgement)
		assert.Equal(t, models.MessageUpdateWithPermissions, plan.Summary)
		assert.Equal(t, []models.Section{models.SectionNewPermissions, models.SectionPersonal}, plan.Sections)
	})

	t.Run("identical permissions report nothing new", func(t *testing.T) {
		installed := snapshot(false, device("android.permission.INTERNET"))
		candidate := snapshot(false, device("android.permission.INTERNET"))

		plan := Plan(candidate, &installed)

		assert.False(t, plan.HasNewPermissions)
		assert.True(t, plan.HasDevicePermissions)
		assert.True(t, plan.RequiresAcknowledgement)
		assert.Equal(t, []models.Section{models.SectionNoNewPermissions, models.SectionDevice}, plan.Sections)
	})

	t.Run("installed superset reports nothing new", func(t *testing.T) {
		installed := snapshot(false, camera, location)
		candidate := snapshot(false, camera)

		plan := Plan(candidate, &installed)
		assert.False(t, plan.HasNewPermissions)
		assert.True(t, plan.NewPermissions.IsEmpty())
	})

	t.Run("new permission keeps candidate classification", func(t *testing.T) {
		installed := snapshot(false)
		candidate := snapshot(false, device("android.permission.NFC"))

		plan := Plan(candidate, &installed)
		class, ok := plan.NewPermissions.ClassOf("android.permission.NFC")
		require.True(t, ok)
		assert.Equal(t, models.ClassDevice, class)
	})
}

func TestPlan_SummaryTable(t *testing.T) {
	perm := device("android.permission.INTERNET")
	tests := []struct {
		name      string
		candidate models.PackageSnapshot
		installed *models.PackageSnapshot
		want      models.MessageKind
		ack       bool
	}{
		{"update system with permissions", snapshot(false, perm), ptr(snapshot(true)), models.MessageUpdateSystemWithPermissions, true},
		{"update with permissions", snapshot(false, perm), ptr(snapshot(false)), models.MessageUpdateWithPermissions, true},
		{"update system no permissions", snapshot(false), ptr(snapshot(true)), models.MessageUpdateSystemNoPermissions, false},
		{"update no permissions", snapshot(false), ptr(snapshot(false)), models.MessageUpdateNoPermissions, false},
		{"update that drops all permissions", snapshot(false), ptr(snapshot(false, perm)), models.MessageUpdateNoPermissions, false},
		{"install with permissions", snapshot(false, perm), nil, models.MessageInstallWithPermissions, true},
		{"install no permissions", snapshot(false), nil, models.MessageInstallNoPermissions, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Plan(tt.candidate, tt.installed)
			assert.Equal(t, tt.want, plan.Summary)
			assert.Equal(t, tt.ack, plan.RequiresAcknowledgement)
			if !tt.ack {
				assert.Empty(t, plan.Sections)
			}
		})
	}
}

// Scenario C: an unchanged personal permission still requires acknowledgement.
func TestPlan_UnchangedPersonalPermissionStillGates(t *testing.T) {
	installed := snapshot(false, personal("android.permission.CAMERA"))
	candidate := snapshot(false, personal("android.permission.CAMERA"))

	plan := Plan(candidate, &installed)

	assert.False(t, plan.HasNewPermissions)
	assert.True(t, plan.HasPersonalPermissions)
	assert.False(t, plan.HasDevicePermissions)
	assert.True(t, plan.RequiresAcknowledgement)
	assert.Equal(t, models.GateLocked, InitialState(plan))
}

func TestPlan_IsDeterministic(t *testing.T) {
	installed := snapshot(true, personal("a.b.C"), device("a.b.D"))
	candidate := snapshot(false, personal("a.b.C", "a.b.E"), device("a.b.F"))

	first := Plan(candidate, &installed)
	second := Plan(candidate, &installed)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Sections, second.Sections)
	assert.True(t, first.NewPermissions.Equal(second.NewPermissions))
}
