// Package suites defines the benchmark suites that can be loaded into the
// compilation host.
//
// A Suite pairs the catalog of a suite, its names, sizes and support rule,
// with the recipe that drives its instances. Most catalogs are embedded;
// LSU and Polybench read theirs from the suite resources.
package suites

import (
	"embed"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
	"github.com/specs-feup/clava-benchmarks/logging"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// Suite names.
const (
	AxBench     = "AxBench"
	CHStone     = "CHStone"
	CortexSuite = "CortexSuite"
	HiFlipVX    = "HiFlipVX"
	LSU         = "LSU"
	MachSuite   = "MachSuite"
	NAS         = "NAS"
	Parboil     = "Parboil"
	Polybench   = "Polybench"
	Rodinia     = "Rodinia"
	Rosetta     = "Rosetta"
)

// Suite is a catalog together with the recipe of its instances.
type Suite struct {
	Catalog *catalog.Catalog
	Recipe  *lifecycle.Recipe

	// Version is the Polybench release the suite was loaded for.
	Version string
}

// Name returns the suite name.
func (s *Suite) Name() string { return s.Catalog.Suite() }

// Options configures Open.
type Options struct {
	// Resources is the resource tree of the suite. LSU and Polybench need
	// it to read their catalogs.
	Resources host.Resources

	// Version selects the Polybench release. Empty means DefaultPolybenchVersion.
	Version string

	Logger *slog.Logger
}

type embedded struct {
	file   string
	recipe func() *lifecycle.Recipe
}

var builtin = map[string]embedded{
	AxBench:     {"axbench.yaml", axbenchRecipe},
	CHStone:     {"chstone.yaml", chstoneRecipe},
	CortexSuite: {"cortexsuite.yaml", cortexRecipe},
	HiFlipVX:    {"hiflipvx.yaml", hiflipvxRecipe},
	MachSuite:   {"machsuite.yaml", machsuiteRecipe},
	NAS:         {"nas.yaml", nasRecipe},
	Parboil:     {"parboil.yaml", parboilRecipe},
	Rodinia:     {"rodinia.yaml", rodiniaRecipe},
	Rosetta:     {"rosetta.yaml", rosettaRecipe},
}

// Names returns every suite name in alphabetical order.
func Names() []string {
	names := []string{LSU, Polybench}
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NeedsResources reports whether the catalog of suite is read from its
// resource tree.
func NeedsResources(suite string) bool {
	return suite == LSU || suite == Polybench
}

// Canonical returns the registered spelling of name, matched without regard
// to case.
func Canonical(name string) (string, error) {
	for _, s := range Names() {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", errors.Errorf("unknown suite %q, available suites: %s",
		name, strings.Join(Names(), ", "))
}

// Open loads the suite called name.
func Open(name string, opts Options) (*Suite, error) {
	name, err := Canonical(name)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	switch name {
	case LSU:
		if opts.Resources == nil {
			return nil, errors.New("LSU needs its resource folder")
		}
		return OpenLSU(opts.Resources, logger)
	case Polybench:
		if opts.Resources == nil {
			return nil, errors.New("Polybench needs its resource folder")
		}
		return OpenPolybench(opts.Resources, opts.Version, logger)
	}

	b := builtin[name]
	data, err := catalogFS.ReadFile(path.Join("catalogs", b.file))
	if err != nil {
		return nil, errors.Wrapf(err, "catalog of %s", name)
	}

	c, err := catalog.Parse(data, logger)
	if err != nil {
		return nil, err
	}

	return &Suite{Catalog: c, Recipe: b.recipe()}, nil
}

// NewSet opens the suite called name and returns a set with its default
// selection.
func NewSet(name string, opts Options) (*Set, error) {
	s, err := Open(name, opts)
	if err != nil {
		return nil, err
	}
	return s.NewSet(), nil
}
