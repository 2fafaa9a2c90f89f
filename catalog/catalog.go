// Package catalog resolves benchmark names and input sizes against the closed
// vocabulary of a benchmark suite.
//
// A Catalog is built once per suite and never changes afterwards. Every
// selection it produces lists benchmarks in the order the catalog declared
// them, then sizes in declaration order, with unsupported pairs removed.
package catalog

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specs-feup/clava-benchmarks/logging"
)

// Selection is one validated (benchmark, input size) pair.
type Selection struct {
	Benchmark string `json:"benchmark" yaml:"benchmark"`
	Size      string `json:"size" yaml:"size"`
}

// String returns "<benchmark>-<size>".
func (s Selection) String() string {
	return s.Benchmark + "-" + s.Size
}

// Catalog is the vocabulary of one suite together with its size-support rule
// and compiler-standard table.
type Catalog struct {
	suite string
	names *Vocabulary
	sizes *Vocabulary

	support         SupportRule
	defaultStandard string
	standards       map[string]string

	defaultNames []string
	defaultSizes []string

	logger *slog.Logger
}

// Option configures a Catalog under construction.
type Option func(*Catalog)

// WithSupport sets the size-support rule. Without it every pair is supported.
func WithSupport(rule SupportRule) Option {
	return func(c *Catalog) {
		c.support = cloneRule(rule)
	}
}

// WithStandard sets the language standard used by benchmarks that have no
// entry of their own.
func WithStandard(standard string) Option {
	return func(c *Catalog) {
		c.defaultStandard = standard
	}
}

// WithStandards sets per-benchmark language standards.
func WithStandards(standards map[string]string) Option {
	return func(c *Catalog) {
		c.standards = maps.Clone(standards)
	}
}

// WithLenientSizes makes ParseSizes skip unknown sizes with a warning
// instead of failing.
func WithLenientSizes() Option {
	return func(c *Catalog) {
		c.sizes = c.sizes.Lenient()
	}
}

// WithDefaults sets the selection used when the caller does not choose
// benchmarks or sizes.
func WithDefaults(names, sizes []string) Option {
	return func(c *Catalog) {
		c.defaultNames = slices.Clone(names)
		c.defaultSizes = slices.Clone(sizes)
	}
}

// WithLogger sets the logger used for lenient-parse warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// New creates a catalog for suite. Both vocabularies must be non-empty, and
// any defaults, standards or support entries must name known tokens.
func New(suite string, names, sizes []string, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		suite:   suite,
		names:   NewVocabulary(names...),
		sizes:   NewVocabulary(sizes...),
		support: AllowAll{},
		logger:  logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.check(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) check() error {
	if c.suite == "" {
		return fmt.Errorf("catalog: suite name is empty")
	}
	if c.names.Len() == 0 {
		return fmt.Errorf("catalog %s: no benchmark names", c.suite)
	}
	if c.sizes.Len() == 0 {
		return fmt.Errorf("catalog %s: no input sizes", c.suite)
	}

	for name := range c.standards {
		if _, err := c.ValidateName(name); err != nil {
			return fmt.Errorf("catalog %s: standards table: %w", c.suite, err)
		}
	}

	if c.defaultNames == nil {
		c.defaultNames = c.names.Values()
	}
	for _, name := range c.defaultNames {
		if _, err := c.ValidateName(name); err != nil {
			return fmt.Errorf("catalog %s: default benchmarks: %w", c.suite, err)
		}
	}

	if c.defaultSizes == nil {
		c.defaultSizes = c.sizes.Values()[:1]
	}
	for _, size := range c.defaultSizes {
		if _, err := c.ValidateSize(size); err != nil {
			return fmt.Errorf("catalog %s: default sizes: %w", c.suite, err)
		}
	}

	return nil
}

// Suite returns the suite name.
func (c *Catalog) Suite() string { return c.suite }

// Names returns the benchmark vocabulary in declaration order.
func (c *Catalog) Names() []string { return c.names.Values() }

// Sizes returns the input-size vocabulary in declaration order.
func (c *Catalog) Sizes() []string { return c.sizes.Values() }

// DefaultNames returns the benchmarks selected when none are requested.
func (c *Catalog) DefaultNames() []string {
	return append([]string(nil), c.defaultNames...)
}

// DefaultSizes returns the input sizes selected when none are requested.
func (c *Catalog) DefaultSizes() []string {
	return append([]string(nil), c.defaultSizes...)
}

// ValidateName returns candidate if it is a known benchmark.
func (c *Catalog) ValidateName(candidate string) (string, error) {
	if !c.names.Contains(candidate) {
		return "", c.unknownName(candidate)
	}
	return candidate, nil
}

// ValidateSize returns candidate if it is a known input size.
func (c *Catalog) ValidateSize(candidate string) (string, error) {
	if !c.sizes.Contains(candidate) {
		return "", c.unknownSize(candidate)
	}
	return candidate, nil
}

// IsSupported reports whether benchmark can run with size. Unknown names or
// sizes are errors, not a false result.
func (c *Catalog) IsSupported(benchmark, size string) (bool, error) {
	if _, err := c.ValidateName(benchmark); err != nil {
		return false, err
	}
	if _, err := c.ValidateSize(size); err != nil {
		return false, err
	}
	return c.support.Supports(benchmark, size), nil
}

// SupportedSizes returns the sizes benchmark supports, in declaration order.
func (c *Catalog) SupportedSizes(benchmark string) ([]string, error) {
	if _, err := c.ValidateName(benchmark); err != nil {
		return nil, err
	}

	var out []string
	for _, size := range c.sizes.values {
		if c.support.Supports(benchmark, size) {
			out = append(out, size)
		}
	}
	return out, nil
}

// ParseNames validates candidates and returns the distinct benchmarks in
// catalog order. It fails on the first unknown name.
func (c *Catalog) ParseNames(candidates []string) ([]string, error) {
	return c.names.Parse(candidates,
		func(token string) error { return c.unknownName(token) },
		nil)
}

// ParseSizes validates candidates and returns the distinct sizes in catalog
// order. It fails on the first unknown size unless the catalog was built with
// WithLenientSizes.
func (c *Catalog) ParseSizes(candidates []string) ([]string, error) {
	return c.sizes.Parse(candidates,
		func(token string) error { return c.unknownSize(token) },
		func(token string) {
			c.logger.Warn("skipping unknown input size",
				"suite", c.suite,
				"size", token,
				"valid", c.sizes.values)
		})
}

// Resolve validates the requested benchmarks and sizes and returns every
// supported pair. Benchmarks vary slowest.
func (c *Catalog) Resolve(names, sizes []string) ([]Selection, error) {
	parsedNames, err := c.ParseNames(names)
	if err != nil {
		return nil, err
	}

	parsedSizes, err := c.ParseSizes(sizes)
	if err != nil {
		return nil, err
	}

	out := make([]Selection, 0, len(parsedNames)*len(parsedSizes))
	for _, name := range parsedNames {
		for _, size := range parsedSizes {
			if !c.support.Supports(name, size) {
				continue
			}
			out = append(out, Selection{Benchmark: name, Size: size})
		}
	}

	return out, nil
}

// Require validates a single pair and fails with
// *UnsupportedCombinationError if the suite does not allow it.
func (c *Catalog) Require(benchmark, size string) (Selection, error) {
	ok, err := c.IsSupported(benchmark, size)
	if err != nil {
		return Selection{}, err
	}

	if !ok {
		supported, _ := c.SupportedSizes(benchmark)
		return Selection{}, &UnsupportedCombinationError{
			Suite:     c.suite,
			Benchmark: benchmark,
			Size:      size,
			Supported: supported,
		}
	}

	return Selection{Benchmark: benchmark, Size: size}, nil
}

// StandardFor returns the language standard benchmark must be compiled
// with. An empty result means the host standard is left unchanged.
func (c *Catalog) StandardFor(benchmark string) string {
	if std, ok := c.standards[benchmark]; ok {
		return std
	}
	return c.defaultStandard
}

func (c *Catalog) unknownName(name string) error {
	return &UnknownBenchmarkError{
		Suite: c.suite,
		Name:  name,
		Valid: c.names.Values(),
	}
}

func (c *Catalog) unknownSize(size string) error {
	return &UnknownSizeError{
		Suite: c.suite,
		Size:  size,
		Valid: c.sizes.Values(),
	}
}
