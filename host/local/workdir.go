package local

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/host"
)

// WorkDir is the directory executables run in.
type WorkDir struct {
	dir string
}

// NewWorkDir creates dir if needed.
func NewWorkDir(dir string) (*WorkDir, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve work dir")
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create work dir")
	}
	return &WorkDir{dir: abs}, nil
}

// Path returns the absolute directory.
func (w *WorkDir) Path() string { return w.dir }

func (w *WorkDir) abs(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", errors.Errorf("invalid work dir entry %q", name)
	}
	return filepath.Join(w.dir, name), nil
}

// CopyFile copies src to name and returns the new path.
func (w *WorkDir) CopyFile(src host.File, name string) (string, error) {
	dst, err := w.abs(name)
	if err != nil {
		return "", err
	}

	in, err := os.Open(src.Path)
	if err != nil {
		return "", errors.Wrap(err, "failed to open source")
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return "", errors.Wrap(err, "failed to stat source")
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrap(err, "failed to create parent dir")
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return "", errors.Wrap(err, "failed to create destination")
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", errors.Wrap(err, "failed to copy")
	}

	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close destination")
	}

	return dst, nil
}

// CopyFolder copies the directory srcDir to name, replacing any previous
// copy.
func (w *WorkDir) CopyFolder(srcDir, name string) (string, error) {
	dst, err := w.abs(name)
	if err != nil {
		return "", err
	}

	if err := os.RemoveAll(dst); err != nil {
		return "", errors.Wrap(err, "failed to clear destination")
	}

	if err := os.CopyFS(dst, os.DirFS(srcDir)); err != nil {
		return "", errors.Wrapf(err, "failed to copy %s", srcDir)
	}

	return dst, nil
}

// Delete removes the named files.
func (w *WorkDir) Delete(names ...string) error {
	for _, name := range names {
		p, err := w.abs(name)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil {
			return errors.Wrapf(err, "failed to delete %s", name)
		}
	}
	return nil
}

// DeleteFolder removes the named directory and its contents.
func (w *WorkDir) DeleteFolder(name string) error {
	p, err := w.abs(name)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.RemoveAll(p), "failed to delete folder %s", name)
}

// Exists reports whether name exists.
func (w *WorkDir) Exists(name string) bool {
	p, err := w.abs(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// List returns the names directly inside the work dir, sorted.
func (w *WorkDir) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list work dir")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}
