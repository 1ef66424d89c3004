package manifest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/packages/catalog"
)

// MaxManifestBytes bounds a manifest read.
const MaxManifestBytes = 1 << 20

// Loader resolves package URIs to manifests on the local filesystem.
type Loader struct {
	root    string
	catalog *catalog.Catalog
}

// NewLoader returns a loader. When root is set, every URI must resolve to a
// path inside it and relative paths are taken relative to it.
func NewLoader(root string, c *catalog.Catalog) *Loader {
	if c == nil {
		c = catalog.Default()
	}
	if root != "" {
		root = filepath.Clean(root)
	}
	return &Loader{root: root, catalog: c}
}

// Load reads and validates the manifest at uri.
func (l *Loader) Load(ctx context.Context, uri string) (*models.PackageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.resolvePath(uri)
	if err != nil {
		return nil, err
	}
	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return m.Snapshot(l.catalog)
}

func (l *Loader) resolvePath(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("package uri is empty")
	}
	path := uri
	if strings.Contains(uri, "://") {
		u, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("parse package uri: %w", err)
		}
		if u.Scheme != "file" {
			return "", fmt.Errorf("unsupported package uri scheme %q", u.Scheme)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("package uri host %q is not local", u.Host)
		}
		path = u.Path
	}
	if l.root == "" {
		return filepath.Clean(path), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, path)
	}
	path = filepath.Clean(path)
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("package uri %q is outside the manifest root", uri)
	}
	return path, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxManifestBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(data) > MaxManifestBytes {
		return nil, fmt.Errorf("manifest exceeds %d bytes", MaxManifestBytes)
	}
	return data, nil
}
