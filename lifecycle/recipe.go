package lifecycle

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host"
)

// Recipe is the per-suite strategy record. It describes everything that
// differs between suites; the Instance drives the phases the same way for
// all of them.
type Recipe struct {
	// Suite prefixes instance names.
	Suite string

	// NormalizeSize rewrites the size token before it is used for names,
	// flags, files or arguments. Nil keeps the token.
	NormalizeSize func(size string) string

	// Flags returns the fragment appended to the host flags during the
	// prologue. An empty fragment leaves the flags unchanged.
	Flags func(sel catalog.Selection) string

	// Libs are added to the instance build settings at construction.
	Libs []string

	// Sources picks the files registered with the workspace.
	Sources SourceSelector

	// LoadData lists data staged into the work dir while loading code.
	LoadData func(sel catalog.Selection) []Stage

	// Invoke builds the execution arguments and the data staged right
	// before the executable runs.
	Invoke func(sel catalog.Selection, env Env) (Invocation, error)

	// Cleanup lists work-dir artifacts removed at close, in addition to
	// everything the instance staged.
	Cleanup func(sel catalog.Selection) Cleanup
}

// Define returns a Flags function producing "-DCLASS_<size>" followed by
// extra.
func Define(extra ...string) func(catalog.Selection) string {
	return func(sel catalog.Selection) string {
		return strings.Join(append([]string{"-DCLASS_" + sel.Size}, extra...), " ")
	}
}

// Fixed returns a Flags function producing the same fragment for every
// selection.
func Fixed(fragment string) func(catalog.Selection) string {
	return func(catalog.Selection) string { return fragment }
}

// Stage is a resource copied into the work dir.
type Stage struct {
	// Source is the resource path.
	Source string
	// Name is the name inside the work dir. Empty means the base name of
	// Source.
	Name string
	// Folder copies a whole directory.
	Folder bool
}

func (s Stage) target() string {
	if s.Name != "" {
		return s.Name
	}
	return path.Base(s.Source)
}

// Invocation is what Execute passes to the executor.
type Invocation struct {
	Args []string
	Data []Stage
}

// Cleanup describes work-dir artifacts removed at close.
type Cleanup struct {
	Files      []string
	Extensions []string
	Folders    []string
}

// SourceSelector picks the source files of a benchmark.
type SourceSelector interface {
	Select(res host.Resources, sel catalog.Selection) ([]host.File, error)
}

// ScanFolder selects every file of a resource folder whose name ends with
// one of Extensions. Subfolders are not visited.
type ScanFolder struct {
	// Dir returns the folder to scan. Nil means the benchmark name.
	Dir        func(sel catalog.Selection) string
	Extensions []string
}

// Select implements SourceSelector.
func (s ScanFolder) Select(res host.Resources, sel catalog.Selection) ([]host.File, error) {
	dir := sel.Benchmark
	if s.Dir != nil {
		dir = s.Dir(sel)
	}

	if !res.IsFolder(dir) {
		return nil, errors.Errorf("source folder %q not found", dir)
	}

	entries, err := res.List(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %q", dir)
	}

	var files []host.File
	for _, e := range entries {
		if e.IsDir || !hasSuffix(e.Name, s.Extensions) {
			continue
		}

		f, err := res.File(path.Join(dir, e.Name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, nil
}

// FixedFiles selects an explicit list of resource paths.
type FixedFiles func(sel catalog.Selection) []string

// Select implements SourceSelector.
func (f FixedFiles) Select(res host.Resources, sel catalog.Selection) ([]host.File, error) {
	var files []host.File
	for _, rel := range f(sel) {
		file, err := res.File(rel)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func hasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
