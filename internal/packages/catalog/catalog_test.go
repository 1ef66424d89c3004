package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgconfirm/internal/confirm/models"
)

func TestDefault_Classifies(t *testing.T) {
	c := Default()
	assert.Equal(t, models.ClassPersonal, c.Classify("android.permission.READ_CONTACTS"))
	assert.Equal(t, models.ClassDevice, c.Classify("android.permission.INTERNET"))
	assert.Equal(t, models.ClassDevice, c.Classify("com.example.UNKNOWN"), "unknown permissions are device access")
}

func TestSet_PartitionsNames(t *testing.T) {
	set := Default().Set([]string{
		"android.permission.INTERNET",
		"android.permission.ACCESS_FINE_LOCATION",
		"android.permission.INTERNET",
		"",
	})
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"android.permission.ACCESS_FINE_LOCATION"}, set.Personal())
	assert.Equal(t, []string{"android.permission.INTERNET"}, set.Device())
}

func TestLoad_OverlaysDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
permissions:
  android.permission.INTERNET: personal
  com.example.READ_NOTES: personal
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, models.ClassPersonal, c.Classify("android.permission.INTERNET"))
	assert.Equal(t, models.ClassPersonal, c.Classify("com.example.READ_NOTES"))
	assert.Equal(t, models.ClassPersonal, c.Classify("android.permission.CAMERA"))

	assert.Equal(t, models.ClassDevice, Default().Classify("android.permission.INTERNET"), "overlay must not leak into new defaults")
}

func TestParse_RejectsUnknownClass(t *testing.T) {
	_, err := Parse([]byte("permissions:\n  a.b.C: secret\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown class")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
