package installed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/packages/catalog"
	"pkgconfirm/pkg/domain"
)

func TestLoadSeed(t *testing.T) {
	records, err := LoadSeed("testdata/installed.yaml")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.True(t, records[0].Installed, "installed defaults to true")
	assert.True(t, records[1].SystemApp)
	assert.True(t, records[1].HasOriginalName("org.example.photos"))
	assert.False(t, records[1].HasOriginalName("org.example.notes"))
	assert.False(t, records[2].Installed)
}

func TestParseSeed_RejectsInvalidNames(t *testing.T) {
	_, err := ParseSeed([]byte("packages:\n  - package: notes\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 0")

	_, err = ParseSeed([]byte("packages:\n  - package: a.b\n    original_names: [\"x\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "original name")
}

func TestRecord_Snapshot(t *testing.T) {
	rec := Record{
		PackageName: domain.PackageName("org.example.notes"),
		Version:     "2.0.0",
		Permissions: []string{"android.permission.INTERNET", "android.permission.CAMERA"},
		SystemApp:   true,
		Installed:   true,
	}
	snap := rec.Snapshot(catalog.Default())
	assert.Equal(t, rec.PackageName, snap.PackageName)
	assert.True(t, snap.SystemApp)
	class, ok := snap.Permissions.ClassOf("android.permission.CAMERA")
	require.True(t, ok)
	assert.Equal(t, models.ClassPersonal, class)
}
