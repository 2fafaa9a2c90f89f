package local

import (
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/host"
)

// Resources is a read-only resource tree on disk.
type Resources struct {
	root string
}

// NewResources roots a resource tree at dir, which must exist.
func NewResources(dir string) (*Resources, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve resource dir")
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(err, "resource dir not found")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("resource path %s is not a directory", abs)
	}

	return &Resources{root: abs}, nil
}

// Root returns the absolute root directory.
func (r *Resources) Root() string { return r.root }

func (r *Resources) abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(path.Clean("/"+rel)))
}

// File returns the file or folder at rel.
func (r *Resources) File(rel string) (host.File, error) {
	p := r.abs(rel)
	if _, err := os.Stat(p); err != nil {
		return host.File{}, errors.Wrapf(err, "resource %q", rel)
	}
	return host.File{Name: filepath.Base(p), Path: p}, nil
}

// IsFolder reports whether rel is a directory.
func (r *Resources) IsFolder(rel string) bool {
	info, err := os.Stat(r.abs(rel))
	return err == nil && info.IsDir()
}

// Exists reports whether rel exists.
func (r *Resources) Exists(rel string) bool {
	_, err := os.Stat(r.abs(rel))
	return err == nil
}

// List returns the entries of the folder rel, sorted by name.
func (r *Resources) List(rel string) ([]host.Entry, error) {
	dir := r.abs(rel)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list resource %q", rel)
	}

	out := make([]host.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, host.Entry{
			Name:  e.Name(),
			Path:  filepath.Join(dir, e.Name()),
			IsDir: e.IsDir(),
		})
	}

	return out, nil
}
