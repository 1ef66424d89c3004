package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionSet(t *testing.T) {
	set := NewPermissionSet(
		Permission{Name: "android.permission.CAMERA", Class: ClassPersonal},
		Permission{Name: "android.permission.INTERNET", Class: ClassDevice},
		Permission{Name: "android.permission.READ_SMS", Class: "unknown"},
		Permission{Name: ""},
	)

	t.Run("partitions by class", func(t *testing.T) {
		assert.Equal(t, []string{"android.permission.CAMERA"}, set.Personal())
		assert.Equal(t, []string{"android.permission.INTERNET", "android.permission.READ_SMS"}, set.Device(),
			"unclassified permissions count as device permissions")
		assert.Equal(t, 3, set.Len())
	})

	t.Run("zero value is empty", func(t *testing.T) {
		var empty PermissionSet
		assert.True(t, empty.IsEmpty())
		assert.False(t, empty.Contains("android.permission.CAMERA"))
		assert.Empty(t, empty.Personal())
		assert.True(t, set.Minus(empty).Equal(set))
		assert.True(t, empty.Minus(set).IsEmpty())
	})

	t.Run("minus compares names only", func(t *testing.T) {
		installed := NewPermissionSet(Permission{Name: "android.permission.CAMERA", Class: ClassDevice})
		diff := set.Minus(installed)
		assert.Equal(t, []string{"android.permission.INTERNET", "android.permission.READ_SMS"}, diff.Names())
	})

	t.Run("equal considers class", func(t *testing.T) {
		a := NewPermissionSet(Permission{Name: "x.y", Class: ClassPersonal})
		b := NewPermissionSet(Permission{Name: "x.y", Class: ClassDevice})
		assert.False(t, a.Equal(b))
		assert.True(t, a.Equal(NewPermissionSet(Permission{Name: "x.y", Class: ClassPersonal})))
	})
}

func TestPermissionSet_JSON(t *testing.T) {
	set := NewPermissionSet(
		Permission{Name: "android.permission.READ_CONTACTS", Class: ClassPersonal},
		Permission{Name: "android.permission.NFC", Class: ClassDevice},
	)

	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{"personal":["android.permission.READ_CONTACTS"],"device":["android.permission.NFC"]}`, string(raw))

	var decoded PermissionSet
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Equal(set))
}

func TestCompareVersions(t *testing.T) {
	candidate := PackageSnapshot{Version: "1.4.0"}
	tests := []struct {
		name      string
		installed *PackageSnapshot
		want      VersionChange
	}{
		{"fresh install", nil, VersionFreshInstall},
		{"upgrade", &PackageSnapshot{Version: "1.3.9"}, VersionUpgrade},
		{"downgrade", &PackageSnapshot{Version: "2.0.0"}, VersionDowngrade},
		{"reinstall", &PackageSnapshot{Version: "v1.4.0"}, VersionReinstall},
		{"unparseable installed version", &PackageSnapshot{Version: "nightly"}, VersionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(candidate, tt.installed))
		})
	}
}

func TestSession_ActionLabel(t *testing.T) {
	s := &Session{State: GateLocked}
	assert.Equal(t, LabelNext, s.ActionLabel())
	s.State = GateUnlocked
	assert.Equal(t, LabelInstall, s.ActionLabel())
}
