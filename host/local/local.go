// Package local is a host that works on the local filesystem. It parses
// sources with tree-sitter, compiles them with the system compiler and runs
// the result as a child process.
package local

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
	"github.com/specs-feup/clava-benchmarks/logging"
)

// Options configures a Host.
type Options struct {
	ResourcesDir string
	WorkDir      string
	BuildDir     string

	Standard string
	Flags    string

	// Timeout bounds each compile and each run. Zero means no limit.
	Timeout       time.Duration
	StrictParsing bool
	Logger        *slog.Logger
}

// Host bundles the local implementations of every host capability.
type Host struct {
	Config    *Config
	Workspace *Workspace
	Resources *Resources
	WorkDir   *WorkDir

	ctx      context.Context
	buildDir string
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a Host. ctx bounds parsing, compilation and execution.
func New(ctx context.Context, opts Options) (*Host, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cfg, err := NewConfig(opts.Standard, opts.Flags)
	if err != nil {
		return nil, err
	}

	res, err := NewResources(opts.ResourcesDir)
	if err != nil {
		return nil, err
	}

	wd, err := NewWorkDir(opts.WorkDir)
	if err != nil {
		return nil, err
	}

	buildDir, err := filepath.Abs(opts.BuildDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve build dir")
	}

	wsOpts := []WorkspaceOption{WithWorkspaceLogger(logger)}
	if opts.StrictParsing {
		wsOpts = append(wsOpts, WithStrictParsing())
	}

	return &Host{
		Config:    cfg,
		Workspace: NewWorkspace(ctx, wsOpts...),
		Resources: res,
		WorkDir:   wd,
		ctx:       ctx,
		buildDir:  buildDir,
		timeout:   opts.Timeout,
		logger:    logger,
	}, nil
}

// Env returns the lifecycle environment backed by this host. Instances get
// a Builder as their build settings.
func (h *Host) Env() lifecycle.Env {
	return lifecycle.Env{
		Config:    h.Config,
		Workspace: h.Workspace,
		Resources: h.Resources,
		WorkDir:   h.WorkDir,
		NewCMaker: func(instance string) host.CMaker {
			b := NewBuilder(instance, h.buildDir)
			b.Timeout = h.timeout
			b.Logger = h.logger
			return b
		},
		Logger: h.logger,
	}
}

// Build compiles a loaded instance and hands it an executor that runs in
// the work dir. It is a lifecycle.BuildFunc.
func (h *Host) Build(inst *lifecycle.Instance) error {
	b, ok := inst.CMaker().(*Builder)
	if !ok {
		return errors.Errorf("%s: build settings %T are not a local builder", inst.Name(), inst.CMaker())
	}

	exe, err := b.Build(h.ctx, h.Workspace, h.Config)
	if err != nil {
		return err
	}

	inst.SetExecutable(exe, NewProcessExecutor(h.ctx, h.WorkDir.Path(), h.timeout))
	return nil
}
