package installed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pkgconfirm/pkg/domain"
)

type seedFile struct {
	Packages []Record `yaml:"packages"`
}

// LoadSeed reads a YAML list of installed packages. Records default to
// installed unless the document says otherwise.
func LoadSeed(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read installed seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document and validates every package name.
func ParseSeed(data []byte) ([]Record, error) {
	var raw struct {
		Packages []yaml.Node `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse installed seed: %w", err)
	}
	records := make([]Record, 0, len(raw.Packages))
	for i := range raw.Packages {
		rec := Record{Installed: true}
		if err := raw.Packages[i].Decode(&rec); err != nil {
			return nil, fmt.Errorf("installed seed entry %d: %w", i, err)
		}
		if _, err := domain.ParsePackageName(string(rec.PackageName)); err != nil {
			return nil, fmt.Errorf("installed seed entry %d: %w", i, err)
		}
		for _, old := range rec.OriginalNames {
			if _, err := domain.ParsePackageName(string(old)); err != nil {
				return nil, fmt.Errorf("installed seed entry %d original name: %w", i, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Seed writes records into store.
func Seed(ctx context.Context, store Store, records []Record) error {
	for _, rec := range records {
		if err := store.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("seed %s: %w", rec.PackageName, err)
		}
	}
	return nil
}
