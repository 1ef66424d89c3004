// Package catalog classifies permission identifiers as personal or device
// access. The platform owns the classification; the confirmation flow only
// consumes it.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pkgconfirm/internal/confirm/models"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

type file struct {
	Permissions map[string]string `yaml:"permissions"`
}

// Catalog maps permission names to classes. Unknown names are device access.
type Catalog struct {
	classes map[string]models.PermissionClass
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in permission catalog is invalid: %v", err))
	}
	return c
}

// Load returns the built-in catalog overlaid with entries from path. An empty
// path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permission catalog: %w", err)
	}
	overlay, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for name, class := range overlay.classes {
		base.classes[name] = class
	}
	return base, nil
}

// Parse reads a catalog document. Class values other than "personal" and
// "device" are rejected.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse permission catalog: %w", err)
	}
	c := &Catalog{classes: make(map[string]models.PermissionClass, len(f.Permissions))}
	for name, raw := range f.Permissions {
		class := models.PermissionClass(raw)
		if class != models.ClassPersonal && class != models.ClassDevice {
			return nil, fmt.Errorf("permission %s: unknown class %q", name, raw)
		}
		c.classes[name] = class
	}
	return c, nil
}

// Classify returns the class of one permission.
func (c *Catalog) Classify(name string) models.PermissionClass {
	if class, ok := c.classes[name]; ok {
		return class
	}
	return models.ClassDevice
}

// Set builds a classified permission set from raw names.
func (c *Catalog) Set(names []string) models.PermissionSet {
	perms := make([]models.Permission, 0, len(names))
	for _, name := range names {
		perms = append(perms, models.Permission{Name: name, Class: c.Classify(name)})
	}
	return models.NewPermissionSet(perms...)
}
