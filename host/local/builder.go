package local

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/loader"
)

// Executable is a program produced by Builder.
type Executable struct {
	path   string
	Binary *loader.Binary
}

// Path returns the absolute path of the executable.
func (e *Executable) Path() string { return e.path }

// BuildError carries the compiler output of a failed build.
type BuildError struct {
	Command []string
	Output  string
	Err     error
}

func (e *BuildError) Error() string {
	return "build failed: " + e.Err.Error() + "\n" + e.Output
}

func (e *BuildError) Unwrap() error { return e.Err }

// Builder compiles the units of a Workspace with the system C or C++
// compiler. It also serves as the build settings of one instance.
type Builder struct {
	name     string
	libs     []string
	buildDir string

	CC      string
	CXX     string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewBuilder creates a builder writing its output to buildDir/name.
func NewBuilder(name, buildDir string) *Builder {
	return &Builder{
		name:     name,
		buildDir: buildDir,
		CC:       envOr("CC", "cc"),
		CXX:      envOr("CXX", "c++"),
		Timeout:  5 * time.Minute,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// AddLibs adds libraries linked with -l.
func (b *Builder) AddLibs(libs ...string) {
	for _, lib := range libs {
		if !slices.Contains(b.libs, lib) {
			b.libs = append(b.libs, lib)
		}
	}
}

// Libs returns the libraries in insertion order.
func (b *Builder) Libs() []string { return slices.Clone(b.libs) }

// Command returns the compiler invocation for the current workspace and
// configuration.
func (b *Builder) Command(ws *Workspace, cfg *Config) ([]string, string) {
	compiler := b.CC
	if ws.Language() == LangCXX || cfg.IsCXX() {
		compiler = b.CXX
	}

	out := filepath.Join(b.buildDir, b.name)
	args := []string{compiler}

	if std := cfg.Standard(); std != "" {
		args = append(args, "-std="+std)
	}

	// Library fragments go after the sources so --as-needed linkers keep them.
	var link []string
	for _, f := range strings.Fields(cfg.Flags()) {
		if strings.HasPrefix(f, "-l") {
			link = append(link, f)
		} else {
			args = append(args, f)
		}
	}

	var includes, sources []string
	for _, u := range ws.Units() {
		dir := filepath.Dir(u.File.Path)
		if !slices.Contains(includes, dir) {
			includes = append(includes, dir)
		}
		if !u.IsHeader() {
			sources = append(sources, u.File.Path)
		}
	}

	for _, dir := range includes {
		args = append(args, "-I"+dir)
	}
	args = append(args, sources...)
	args = append(args, "-o", out)
	args = append(args, link...)

	for _, lib := range b.libs {
		args = append(args, "-l"+lib)
	}

	return args, out
}

// Build compiles the workspace and inspects the result.
func (b *Builder) Build(ctx context.Context, ws *Workspace, cfg *Config) (*Executable, error) {
	if len(ws.Units()) == 0 {
		return nil, errors.New("nothing to build: workspace is empty")
	}

	if err := os.MkdirAll(b.buildDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create build dir")
	}

	args, out := b.Command(ws, cfg)

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if b.Logger != nil {
		b.Logger.Debug("compiling", "instance", b.name, "command", strings.Join(args, " "))
	}

	if err := cmd.Run(); err != nil {
		return nil, &BuildError{Command: args, Output: output.String(), Err: err}
	}

	bin, err := loader.Inspect(out)
	if err != nil {
		return nil, errors.Wrap(err, "compiler output is not runnable")
	}

	return &Executable{path: out, Binary: bin}, nil
}

func isCXXStandard(std string) bool {
	return strings.HasPrefix(std, "c++") || strings.HasPrefix(std, "gnu++")
}
