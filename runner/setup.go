package runner

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/specs-feup/clava-benchmarks/host/local"
	"github.com/specs-feup/clava-benchmarks/logging"
	"github.com/specs-feup/clava-benchmarks/suites"
)

// Run is a harness loaded with the instances of a config, together with
// the local host they run on.
type Run struct {
	Config  *Config
	Host    *local.Host
	Set     *suites.Set
	Harness *Harness
}

// SetupOptions carries what a Config cannot describe.
type SetupOptions struct {
	Output io.Writer
	Logger *slog.Logger

	// Registerer receives the phase metrics. Nil disables them.
	Registerer prometheus.Registerer
}

// Setup validates cfg, creates the local host, opens the suite and adds one
// instance per supported pair of the selection.
func Setup(ctx context.Context, cfg *Config, opts SetupOptions) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	h, err := local.New(ctx, local.Options{
		ResourcesDir: cfg.ResourcesDir,
		WorkDir:      cfg.WorkDir,
		BuildDir:     cfg.BuildDir,
		Standard:     cfg.Standard,
		Flags:        cfg.Flags,
		Timeout:      cfg.Timeout,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	set, err := suites.NewSet(cfg.Suite, suites.Options{
		Resources: h.Resources,
		Version:   cfg.Version,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	if len(cfg.Benchmarks) > 0 {
		if err := set.SetBenchmarks(cfg.Benchmarks...); err != nil {
			return nil, err
		}
	}
	if len(cfg.Sizes) > 0 {
		if err := set.SetInputSizes(cfg.Sizes...); err != nil {
			return nil, err
		}
	}

	hooks := []sim.Hook{NewLogHook(logger)}
	if opts.Registerer != nil {
		hooks = append(hooks, NewMetricsHook(opts.Registerer))
	}

	harness := NewHarness(HarnessConfig{
		Suite:   set.Suite().Name(),
		Version: set.Suite().Version,
		Build:   h.Build,
		Hooks:   hooks,
		Output:  opts.Output,
		Verbose: cfg.Verbose,
		Logger:  logger,
	})
	harness.AddInstances(set.Instances(h.Env()))

	return &Run{Config: cfg, Host: h, Set: set, Harness: harness}, nil
}

// Execute runs every instance and prints the report in the configured
// format.
func (r *Run) Execute(ctx context.Context) ([]Result, error) {
	results := r.Harness.RunAll(ctx)
	if err := r.Harness.Print(r.Config.OutputFormat, results); err != nil {
		return results, err
	}
	return results, nil
}
