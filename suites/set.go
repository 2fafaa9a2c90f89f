package suites

import (
	"fmt"
	"io"
	"strings"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

// Set is the selection of benchmarks and input sizes to run from one suite.
// A new set holds the suite defaults.
type Set struct {
	suite      *Suite
	benchmarks []string
	sizes      []string
}

// NewSet returns a set with the default selection of the suite.
func (s *Suite) NewSet() *Set {
	return &Set{
		suite:      s,
		benchmarks: s.Catalog.DefaultNames(),
		sizes:      s.Catalog.DefaultSizes(),
	}
}

// Name returns "<suite>BenchmarkSet".
func (s *Set) Name() string { return s.suite.Name() + "BenchmarkSet" }

// Suite returns the suite the set draws from.
func (s *Set) Suite() *Suite { return s.suite }

// Benchmarks returns the selected benchmarks in catalog order.
func (s *Set) Benchmarks() []string { return append([]string(nil), s.benchmarks...) }

// InputSizes returns the selected sizes in catalog order.
func (s *Set) InputSizes() []string { return append([]string(nil), s.sizes...) }

// SetBenchmarks replaces the selected benchmarks. The selection is left
// unchanged if any name is unknown.
func (s *Set) SetBenchmarks(names ...string) error {
	parsed, err := s.suite.Catalog.ParseNames(names)
	if err != nil {
		return err
	}
	s.benchmarks = parsed
	return nil
}

// SetInputSizes replaces the selected sizes. The selection is left unchanged
// if any size is unknown, unless the suite skips unknown sizes.
func (s *Set) SetInputSizes(sizes ...string) error {
	parsed, err := s.suite.Catalog.ParseSizes(sizes)
	if err != nil {
		return err
	}
	s.sizes = parsed
	return nil
}

// Selections returns every supported pair of the selection.
func (s *Set) Selections() []catalog.Selection {
	// Both lists are already validated.
	sels, _ := s.suite.Catalog.Resolve(s.benchmarks, s.sizes)
	return sels
}

// Instances creates one instance per supported pair, bound to env.
func (s *Set) Instances(env lifecycle.Env) []*lifecycle.Instance {
	sels := s.Selections()
	out := make([]*lifecycle.Instance, 0, len(sels))
	for _, sel := range sels {
		std := s.suite.Catalog.StandardFor(sel.Benchmark)
		out = append(out, lifecycle.NewInstance(env, s.suite.Recipe, sel, std))
	}
	return out
}

// Print writes the selection and, per benchmark, the sizes that will run.
// Polybench sets print their version instead of the per-benchmark lines.
func (s *Set) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "BenchmarkSet: %s\n", s.Name())
	_, _ = fmt.Fprintf(w, "Benchmark names: %s\n", strings.Join(s.benchmarks, ","))
	_, _ = fmt.Fprintf(w, "Benchmark sizes: %s\n", strings.Join(s.sizes, ","))

	if s.suite.Version != "" {
		_, _ = fmt.Fprintf(w, "Benchmark version: %s\n", s.suite.Version)
		return
	}

	for _, bench := range s.benchmarks {
		_, _ = fmt.Fprintf(w, "%s:", bench)
		for _, size := range s.sizes {
			if ok, _ := s.suite.Catalog.IsSupported(bench, size); ok {
				_, _ = fmt.Fprintf(w, " %s", size)
			}
		}
		_, _ = fmt.Fprintln(w)
	}
}
