package catalog

import "slices"

// SupportRule decides whether a benchmark can run with an input size. Both
// arguments are already known members of the catalog vocabularies.
type SupportRule interface {
	Supports(benchmark, size string) bool
}

// AllowAll supports every pair.
type AllowAll struct{}

// Supports always returns true.
func (AllowAll) Supports(string, string) bool { return true }

// SizeIs supports a pair when the size is one of the listed sizes, regardless
// of the benchmark. Single-size suites use it.
type SizeIs []string

// Supports implements SupportRule.
func (s SizeIs) Supports(_, size string) bool {
	return slices.Contains(s, size)
}

// Matrix lists the allowed sizes per benchmark. Benchmarks without an entry
// support nothing.
type Matrix map[string][]string

// Supports implements SupportRule.
func (m Matrix) Supports(benchmark, size string) bool {
	return slices.Contains(m[benchmark], size)
}

// Deny lists the disallowed sizes per benchmark. Benchmarks without an entry
// support every size.
type Deny map[string][]string

// Supports implements SupportRule.
func (d Deny) Supports(benchmark, size string) bool {
	return !slices.Contains(d[benchmark], size)
}

func cloneTable(t map[string][]string) map[string][]string {
	if t == nil {
		return nil
	}
	out := make(map[string][]string, len(t))
	for k, v := range t {
		out[k] = slices.Clone(v)
	}
	return out
}

// cloneRule copies the tables of the built-in rules so a catalog never
// shares them with its caller.
func cloneRule(r SupportRule) SupportRule {
	switch rule := r.(type) {
	case SizeIs:
		return SizeIs(slices.Clone(rule))
	case Matrix:
		return Matrix(cloneTable(rule))
	case Deny:
		return Deny(cloneTable(rule))
	default:
		return r
	}
}
