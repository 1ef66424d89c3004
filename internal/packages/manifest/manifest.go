// Package manifest reads candidate package manifests. A manifest is the
// installer-facing description of an archive: its declared name, version and
// requested permissions.
package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/packages/catalog"
	"pkgconfirm/pkg/domain"
)

//go:embed schema.json
var schemaJSON []byte

const schemaID = "inmemory://package-manifest"

var compiled = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaID, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("add manifest schema: %v", err))
	}
	s, err := compiler.Compile(schemaID)
	if err != nil {
		panic(fmt.Sprintf("compile manifest schema: %v", err))
	}
	return s
}

// Manifest is the decoded document.
type Manifest struct {
	Package     string   `yaml:"package" json:"package"`
	Label       string   `yaml:"label,omitempty" json:"label,omitempty"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	SystemApp   bool     `yaml:"system_app,omitempty" json:"system_app,omitempty"`
	Permissions []string `yaml:"permissions,omitempty" json:"permissions,omitempty"`
}

// Parse validates raw YAML (or JSON, which is a YAML subset) against the
// manifest schema and decodes it.
func Parse(data []byte) (*Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("manifest is empty")
	}
	payload, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(payload); err != nil {
		return nil, fmt.Errorf("manifest schema validation failed: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != "" {
		if _, err := semver.NewVersion(m.Version); err != nil {
			return nil, fmt.Errorf("manifest version %q: %w", m.Version, err)
		}
	}
	return &m, nil
}

// Snapshot classifies the manifest's permissions and returns the candidate
// snapshot under its declared name.
func (m *Manifest) Snapshot(c *catalog.Catalog) (*models.PackageSnapshot, error) {
	name, err := domain.ParsePackageName(m.Package)
	if err != nil {
		return nil, err
	}
	return &models.PackageSnapshot{
		PackageName: name,
		Version:     m.Version,
		Permissions: c.Set(m.Permissions),
		SystemApp:   m.SystemApp,
	}, nil
}

// normalize converts decoded YAML into the JSON value space the validator
// understands.
func normalize(doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("manifest is not a JSON-compatible document: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalize manifest: %w", err)
	}
	return out, nil
}
