package suites

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

// LSUConfigFile is the LSU catalog inside the LSU resources.
const LSUConfigFile = "config.json"

// LSUConfig maps every LSU benchmark to the data file of each input size.
// Benchmarks listed in Copy modify their input, so it is copied into the
// work dir before running instead of being read in place.
type LSUConfig struct {
	// Benchmarks and Sizes keep the order of the document.
	Benchmarks []string
	Sizes      []string

	Data map[string]map[string]string
	Copy []string
}

type lsuDocument struct {
	Sizes yaml.Node `yaml:"sizes"`
	Copy  []string  `yaml:"copy"`
}

// DecodeLSUConfig reads an LSU config document.
func DecodeLSUConfig(r io.Reader) (*LSUConfig, error) {
	var doc lsuDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse LSU config")
	}

	if doc.Sizes.Kind != yaml.MappingNode || len(doc.Sizes.Content) == 0 {
		return nil, errors.New("LSU config: \"sizes\" must be a non-empty object")
	}

	cfg := &LSUConfig{
		Data: make(map[string]map[string]string),
		Copy: doc.Copy,
	}

	content := doc.Sizes.Content
	for i := 0; i+1 < len(content); i += 2 {
		bench := content[i].Value
		sizes := content[i+1]
		if sizes.Kind != yaml.MappingNode {
			return nil, errors.Errorf("LSU config: sizes of %q must be an object", bench)
		}

		files := make(map[string]string)
		for j := 0; j+1 < len(sizes.Content); j += 2 {
			size, file := sizes.Content[j].Value, sizes.Content[j+1].Value
			if file == "" {
				return nil, errors.Errorf("LSU config: %s/%s has no data file", bench, size)
			}
			files[size] = file
			if !slices.Contains(cfg.Sizes, size) {
				cfg.Sizes = append(cfg.Sizes, size)
			}
		}

		cfg.Benchmarks = append(cfg.Benchmarks, bench)
		cfg.Data[bench] = files
	}

	return cfg, nil
}

// Support returns the rule allowing only the sizes that have a data file.
func (c *LSUConfig) Support() catalog.Matrix {
	m := make(catalog.Matrix, len(c.Data))
	for bench, files := range c.Data {
		for _, size := range c.Sizes {
			if _, ok := files[size]; ok {
				m[bench] = append(m[bench], size)
			}
		}
	}
	return m
}

// CopiesData reports whether bench gets a private copy of its input.
func (c *LSUConfig) CopiesData(bench string) bool {
	return slices.Contains(c.Copy, bench)
}

// Catalog builds the LSU catalog described by the config.
func (c *LSUConfig) Catalog(logger *slog.Logger) (*catalog.Catalog, error) {
	return catalog.New(LSU, c.Benchmarks, c.Sizes,
		catalog.WithSupport(c.Support()),
		catalog.WithStandard("c99"),
		catalog.WithLogger(logger))
}

// Recipe returns the LSU recipe. Each benchmark is a single <name>.c file
// that takes the path of its data file as only argument.
func (c *LSUConfig) Recipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite: LSU,
		Sources: lifecycle.FixedFiles(func(sel catalog.Selection) []string {
			return []string{sel.Benchmark + ".c"}
		}),
		Invoke: c.invocation,
	}
}

func (c *LSUConfig) invocation(sel catalog.Selection, env lifecycle.Env) (lifecycle.Invocation, error) {
	file, ok := c.Data[sel.Benchmark][sel.Size]
	if !ok {
		return lifecycle.Invocation{}, errors.Errorf(
			"input size %q not valid for benchmark %q", sel.Size, sel.Benchmark)
	}

	if c.CopiesData(sel.Benchmark) {
		name := path.Base(file)
		return lifecycle.Invocation{
			Args: []string{filepath.Join(env.WorkDir.Path(), name)},
			Data: []lifecycle.Stage{{Source: file, Name: name}},
		}, nil
	}

	data, err := env.Resources.File(file)
	if err != nil {
		return lifecycle.Invocation{}, errors.Wrapf(err, "data file of %s", sel)
	}
	return lifecycle.Invocation{Args: []string{data.Path}}, nil
}

// OpenLSU reads the LSU catalog from res.
func OpenLSU(res host.Resources, logger *slog.Logger) (*Suite, error) {
	cfg, err := ReadLSUConfig(res)
	if err != nil {
		return nil, err
	}

	c, err := cfg.Catalog(logger)
	if err != nil {
		return nil, err
	}

	return &Suite{Catalog: c, Recipe: cfg.Recipe()}, nil
}

// ReadLSUConfig reads LSUConfigFile from res.
func ReadLSUConfig(res host.Resources) (*LSUConfig, error) {
	data, err := readResource(res, LSUConfigFile)
	if err != nil {
		return nil, err
	}
	return DecodeLSUConfig(bytes.NewReader(data))
}

func readResource(res host.Resources, rel string) ([]byte, error) {
	f, err := res.File(rel)
	if err != nil {
		return nil, errors.Wrapf(err, "resource %s", rel)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", rel)
	}
	return data, nil
}
