package suites

import (
	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host"
)

// ResourceStatus is the availability of one benchmark.
type ResourceStatus struct {
	Benchmark string
	Files     []host.File
	Err       error
}

// Available reports whether every source of the benchmark was found.
func (s ResourceStatus) Available() bool { return s.Err == nil && len(s.Files) > 0 }

// ResourceIndex checks which benchmarks of a suite have their sources in a
// resource tree.
type ResourceIndex struct {
	suite *Suite
	res   host.Resources
}

// NewResourceIndex creates an index of suite over res.
func NewResourceIndex(suite *Suite, res host.Resources) *ResourceIndex {
	return &ResourceIndex{suite: suite, res: res}
}

// ValidateSetup fails if the resource tree holds no benchmark at all.
func (x *ResourceIndex) ValidateSetup() error {
	if len(x.ListAvailable()) == 0 {
		return errors.Errorf("no %s benchmark sources found", x.suite.Name())
	}
	return nil
}

// Status checks one benchmark with the first size it supports, since some
// suites pick files by size.
func (x *ResourceIndex) Status(bench string) ResourceStatus {
	st := ResourceStatus{Benchmark: bench}

	sizes, err := x.suite.Catalog.SupportedSizes(bench)
	if err != nil {
		st.Err = err
		return st
	}
	if len(sizes) == 0 {
		st.Err = errors.Errorf("%s supports no input size", bench)
		return st
	}

	sel := catalog.Selection{Benchmark: bench, Size: sizes[0]}
	if n := x.suite.Recipe.NormalizeSize; n != nil {
		sel.Size = n(sel.Size)
	}

	st.Files, st.Err = x.suite.Recipe.Sources.Select(x.res, sel)
	if st.Err == nil && len(st.Files) == 0 {
		st.Err = errors.Errorf("%s has no source files", bench)
	}
	return st
}

// Statuses checks every benchmark of the suite in catalog order.
func (x *ResourceIndex) Statuses() []ResourceStatus {
	var out []ResourceStatus
	for _, bench := range x.suite.Catalog.Names() {
		out = append(out, x.Status(bench))
	}
	return out
}

// ListAvailable returns the benchmarks whose sources were all found.
func (x *ResourceIndex) ListAvailable() []string {
	var out []string
	for _, st := range x.Statuses() {
		if st.Available() {
			out = append(out, st.Benchmark)
		}
	}
	return out
}

// ListMissing returns the benchmarks with missing sources.
func (x *ResourceIndex) ListMissing() []string {
	var out []string
	for _, st := range x.Statuses() {
		if !st.Available() {
			out = append(out, st.Benchmark)
		}
	}
	return out
}
