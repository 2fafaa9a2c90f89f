package catalog

import (
	"fmt"
	"strings"
)

// UnknownBenchmarkError is returned when a benchmark name is not part of a
// suite's vocabulary.
type UnknownBenchmarkError struct {
	Suite string
	Name  string
	Valid []string
}

func (e *UnknownBenchmarkError) Error() string {
	return fmt.Sprintf("%s: unknown benchmark %q (valid: %s)",
		e.Suite, e.Name, strings.Join(e.Valid, ", "))
}

// UnknownSizeError is returned when an input size is not part of a suite's
// vocabulary.
type UnknownSizeError struct {
	Suite string
	Size  string
	Valid []string
}

func (e *UnknownSizeError) Error() string {
	return fmt.Sprintf("%s: unknown input size %q (valid: %s)",
		e.Suite, e.Size, strings.Join(e.Valid, ", "))
}

// UnsupportedCombinationError is returned when a benchmark and an input size
// are both valid on their own but the suite does not allow the pairing.
type UnsupportedCombinationError struct {
	Suite     string
	Benchmark string
	Size      string
	Supported []string
}

func (e *UnsupportedCombinationError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("%s: benchmark %q does not support input size %q",
			e.Suite, e.Benchmark, e.Size)
	}
	return fmt.Sprintf("%s: benchmark %q does not support input size %q (supported: %s)",
		e.Suite, e.Benchmark, e.Size, strings.Join(e.Supported, ", "))
}
