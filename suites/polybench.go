package suites

import (
	"log/slog"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

// DefaultPolybenchVersion is the release used when none is requested.
const DefaultPolybenchVersion = "4.2"

// PolybenchKernelPrefix starts the name of every Polybench kernel function.
const PolybenchKernelPrefix = "kernel_"

// PolybenchData is the data.json document found in each release folder.
type PolybenchData struct {
	Names []string `yaml:"names"`
	Sizes []string `yaml:"sizes"`
}

// PolybenchVersions lists the releases present in res, one folder each.
func PolybenchVersions(res host.Resources) ([]string, error) {
	entries, err := res.List(".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list Polybench versions")
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir {
			versions = append(versions, e.Name)
		}
	}
	return versions, nil
}

// OpenPolybench loads the catalog of a Polybench release. Names are strict;
// unknown sizes are skipped with a warning. The default size is the second
// smallest.
func OpenPolybench(res host.Resources, version string, logger *slog.Logger) (*Suite, error) {
	if version == "" {
		version = DefaultPolybenchVersion
	}

	versions, err := PolybenchVersions(res)
	if err != nil {
		return nil, err
	}
	if !catalog.NewVocabulary(versions...).Contains(version) {
		return nil, errors.Errorf("version %q not supported, supported versions: %s",
			version, strings.Join(versions, ", "))
	}

	raw, err := readResource(res, path.Join(version, "data.json"))
	if err != nil {
		return nil, err
	}

	var data PolybenchData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "failed to parse Polybench %s data", version)
	}

	var defaults []string
	if len(data.Sizes) > 1 {
		defaults = data.Sizes[1:2]
	}

	doc := &catalog.Document{
		Suite:           Polybench,
		Names:           data.Names,
		Sizes:           data.Sizes,
		LenientSizes:    true,
		DefaultStandard: "c99",
		DefaultSizes:    defaults,
	}

	c, err := doc.Build(logger)
	if err != nil {
		return nil, err
	}

	return &Suite{Catalog: c, Recipe: polybenchRecipe(version), Version: version}, nil
}

func polybenchRecipe(version string) *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite: Polybench,
		Flags: func(sel catalog.Selection) string {
			return "-D" + sel.Size + "_DATASET -DPOLYBENCH_TIME"
		},
		Libs: []string{"m"},
		Sources: lifecycle.FixedFiles(func(sel catalog.Selection) []string {
			return []string{
				path.Join(version, sel.Benchmark+".c"),
				path.Join(version, sel.Benchmark+".h"),
				path.Join(version, "polybench.c"),
				path.Join(version, "polybench.h"),
			}
		}),
	}
}

// CallLister exposes the function calls of a loaded workspace.
type CallLister interface {
	Calls() []string
}

// Kernel returns the first call to a Polybench kernel function in the code
// loaded for inst.
func Kernel(inst *lifecycle.Instance, ws CallLister) (string, error) {
	if inst.State() != lifecycle.CodeLoaded && inst.State() != lifecycle.Executed {
		return "", errors.Errorf("%s: code is not loaded", inst.Name())
	}

	for _, call := range ws.Calls() {
		if strings.HasPrefix(call, PolybenchKernelPrefix) {
			return call, nil
		}
	}
	return "", errors.Errorf("%s: no call to a %s function", inst.Name(), PolybenchKernelPrefix)
}
