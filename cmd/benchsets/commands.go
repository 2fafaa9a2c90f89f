package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/specs-feup/clava-benchmarks/host/local"
	"github.com/specs-feup/clava-benchmarks/logging"
	"github.com/specs-feup/clava-benchmarks/runner"
	"github.com/specs-feup/clava-benchmarks/suites"
)

type globalFlags struct {
	logLevel string
	logJSON  bool
}

func (g *globalFlags) logger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:   level,
		JSON:    g.logJSON,
		Output:  cmd.ErrOrStderr(),
		Service: "benchsets",
	}), nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:          "benchsets",
		Short:        "List, print and run C/C++ benchmark sets",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Write logs as JSON")

	root.AddCommand(newListCmd(g), newPrintCmd(g), newRunCmd(g))
	return root
}

// openOptions are the flags needed to open suites that read their catalog
// from disk.
type openOptions struct {
	resources string
	version   string
}

func (o *openOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.resources, "resources", "", "Suite resource folder (needed by LSU and Polybench)")
	cmd.Flags().StringVar(&o.version, "version", "", "Polybench version")
}

func (o *openOptions) open(name string, logger *slog.Logger) (*suites.Suite, error) {
	opts := suites.Options{Version: o.version, Logger: logger}
	if o.resources != "" {
		res, err := local.NewResources(o.resources)
		if err != nil {
			return nil, err
		}
		opts.Resources = res
	}
	return suites.Open(name, opts)
}

func newListCmd(g *globalFlags) *cobra.Command {
	o := &openOptions{}

	cmd := &cobra.Command{
		Use:   "list [suite]",
		Short: "List the suites, or the benchmarks and sizes of one suite",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, name := range suites.Names() {
					_, _ = fmt.Fprintln(out, name)
				}
				return nil
			}

			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}
			s, err := o.open(args[0], logger)
			if err != nil {
				return err
			}

			c := s.Catalog
			_, _ = fmt.Fprintf(out, "Suite: %s\n", s.Name())
			if s.Version != "" {
				_, _ = fmt.Fprintf(out, "Version: %s\n", s.Version)
			}
			_, _ = fmt.Fprintf(out, "Benchmarks: %s\n", strings.Join(c.Names(), ","))
			_, _ = fmt.Fprintf(out, "Sizes: %s\n", strings.Join(c.Sizes(), ","))
			_, _ = fmt.Fprintf(out, "Default benchmarks: %s\n", strings.Join(c.DefaultNames(), ","))
			_, _ = fmt.Fprintf(out, "Default sizes: %s\n", strings.Join(c.DefaultSizes(), ","))
			return nil
		},
	}
	o.register(cmd)
	return cmd
}

func newPrintCmd(g *globalFlags) *cobra.Command {
	o := &openOptions{}
	var benchmarks, sizes []string

	cmd := &cobra.Command{
		Use:   "print <suite>",
		Short: "Print a benchmark set and the sizes each benchmark runs with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}
			s, err := o.open(args[0], logger)
			if err != nil {
				return err
			}

			set := s.NewSet()
			if len(benchmarks) > 0 {
				if err := set.SetBenchmarks(benchmarks...); err != nil {
					return err
				}
			}
			if len(sizes) > 0 {
				if err := set.SetInputSizes(sizes...); err != nil {
					return err
				}
			}

			set.Print(cmd.OutOrStdout())
			return nil
		},
	}
	o.register(cmd)
	cmd.Flags().StringSliceVarP(&benchmarks, "benchmarks", "b", nil, "Benchmarks to select")
	cmd.Flags().StringSliceVarP(&sizes, "sizes", "s", nil, "Input sizes to select")
	return cmd
}

func newRunCmd(g *globalFlags) *cobra.Command {
	var (
		configPath  string
		metricsPath string
		saveConfig  string
		override    = runner.DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile and run a benchmark set on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}

			cfg := runner.DefaultConfig()
			if configPath != "" {
				if cfg, err = runner.LoadConfig(configPath); err != nil {
					return err
				}
			}
			applyOverrides(cmd, cfg, override)

			if saveConfig != "" {
				if err := cfg.SaveConfig(saveConfig); err != nil {
					return err
				}
			}

			reg := prometheus.NewRegistry()
			run, err := runner.Setup(cmd.Context(), cfg, runner.SetupOptions{
				Output:     cmd.OutOrStdout(),
				Logger:     logger,
				Registerer: reg,
			})
			if err != nil {
				return err
			}

			logger.Info("starting run", "run", run.Harness.RunID(), "suite", run.Set.Suite().Name(),
				"instances", len(run.Harness.Instances()))

			results, err := run.Execute(cmd.Context())
			if err != nil {
				return err
			}

			if metricsPath != "" {
				if err := prometheus.WriteToTextfile(metricsPath, reg); err != nil {
					return err
				}
			}

			if s := runner.Summarize(results); s.Failed > 0 {
				return fmt.Errorf("%d of %d instances failed", s.Failed, s.TotalInstances)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML run config")
	f.StringVar(&saveConfig, "save-config", "", "Write the effective run config to this file")
	f.StringVar(&metricsPath, "metrics-out", "", "Write phase metrics in the Prometheus text format to this file")
	f.StringVar(&override.Suite, "suite", override.Suite, "Benchmark suite")
	f.StringVar(&override.Version, "version", "", "Polybench version")
	f.StringSliceVarP(&override.Benchmarks, "benchmarks", "b", nil, "Benchmarks to run")
	f.StringSliceVarP(&override.Sizes, "sizes", "s", nil, "Input sizes to run")
	f.StringVar(&override.ResourcesDir, "resources", override.ResourcesDir, "Suite resource folder")
	f.StringVar(&override.WorkDir, "work-dir", override.WorkDir, "Folder the benchmarks run in")
	f.StringVar(&override.BuildDir, "build-dir", override.BuildDir, "Folder for the compiled benchmarks")
	f.StringVar(&override.Standard, "std", "", "Base language standard")
	f.StringVar(&override.Flags, "flags", "", "Base compiler flags")
	f.DurationVar(&override.Timeout, "timeout", override.Timeout, "Limit for each compile and each run")
	f.StringVarP(&override.OutputFormat, "format", "o", override.OutputFormat, "Report format (text, csv, json)")
	f.BoolVarP(&override.Verbose, "verbose", "v", false, "Include the program output in the report")
	return cmd
}

// applyOverrides copies the flags set on the command line over cfg.
func applyOverrides(cmd *cobra.Command, cfg, override *runner.Config) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}

	set("suite", func() { cfg.Suite = override.Suite })
	set("version", func() { cfg.Version = override.Version })
	set("benchmarks", func() { cfg.Benchmarks = override.Benchmarks })
	set("sizes", func() { cfg.Sizes = override.Sizes })
	set("resources", func() { cfg.ResourcesDir = override.ResourcesDir })
	set("work-dir", func() { cfg.WorkDir = override.WorkDir })
	set("build-dir", func() { cfg.BuildDir = override.BuildDir })
	set("std", func() { cfg.Standard = override.Standard })
	set("flags", func() { cfg.Flags = override.Flags })
	set("timeout", func() { cfg.Timeout = override.Timeout })
	set("format", func() { cfg.OutputFormat = override.OutputFormat })
	set("verbose", func() { cfg.Verbose = override.Verbose })
}
