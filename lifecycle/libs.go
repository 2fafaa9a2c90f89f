package lifecycle

import "slices"

// LibList is the default build settings of an instance. It only records
// library names for the external build step.
type LibList struct {
	libs []string
}

// AddLibs appends libraries that are not already present.
func (l *LibList) AddLibs(libs ...string) {
	for _, lib := range libs {
		if !slices.Contains(l.libs, lib) {
			l.libs = append(l.libs, lib)
		}
	}
}

// Libs returns the libraries in insertion order.
func (l *LibList) Libs() []string {
	return slices.Clone(l.libs)
}
