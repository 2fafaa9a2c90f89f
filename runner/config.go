package runner

import (
	"os"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/specs-feup/clava-benchmarks/suites"
)

// Output formats of a run report.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var validate = validator.New()

// Config describes one run: which suite, which part of it and where the
// local host keeps its files.
type Config struct {
	// Suite is matched without regard to case.
	Suite string `yaml:"suite" validate:"required"`

	// Version selects the Polybench version. Empty picks the default.
	Version string `yaml:"version,omitempty"`

	// Benchmarks and Sizes replace the suite defaults when not empty.
	Benchmarks []string `yaml:"benchmarks,omitempty"`
	Sizes      []string `yaml:"sizes,omitempty"`

	ResourcesDir string `yaml:"resources_dir" validate:"required"`
	WorkDir      string `yaml:"work_dir" validate:"required"`
	BuildDir     string `yaml:"build_dir" validate:"required"`

	// Standard and Flags are the host settings every instance starts from
	// and that Close restores.
	Standard string `yaml:"standard,omitempty"`
	Flags    string `yaml:"flags,omitempty"`

	// Timeout bounds each compile and each run. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	OutputFormat string `yaml:"output_format" validate:"oneof=text csv json"`
	Verbose      bool   `yaml:"verbose"`
}

// DefaultConfig returns a Config for NAS with the directories under the
// current directory.
func DefaultConfig() *Config {
	return &Config{
		Suite:        suites.NAS,
		ResourcesDir: "resources",
		WorkDir:      "work",
		BuildDir:     "build",
		Timeout:      10 * time.Minute,
		OutputFormat: FormatText,
	}
}

// LoadConfig reads a YAML run config over the defaults. Unknown keys are
// rejected.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read run config file")
	}
	defer func() { _ = f.Close() }()

	config := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return nil, errors.Wrap(err, "failed to parse run config")
	}

	return config, nil
}

// SaveConfig writes the config as YAML.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to serialize run config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write run config file")
	}

	return nil
}

// Validate checks the field constraints and that the suite exists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid run config")
	}

	if _, err := suites.Canonical(c.Suite); err != nil {
		return err
	}

	if c.Version != "" {
		name, _ := suites.Canonical(c.Suite)
		if name != suites.Polybench {
			return errors.Errorf("version is only used by %s, not %s", suites.Polybench, name)
		}
	}

	return nil
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Benchmarks = slices.Clone(c.Benchmarks)
	clone.Sizes = slices.Clone(c.Sizes)
	return &clone
}
