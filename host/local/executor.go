package local

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// ProcessExecutor runs executables as child processes in a fixed directory.
type ProcessExecutor struct {
	ctx     context.Context
	dir     string
	timeout time.Duration

	exitCode int
	output   bytes.Buffer
	wallTime time.Duration
}

// NewProcessExecutor creates an executor running in dir. A zero timeout
// means no limit beyond ctx.
func NewProcessExecutor(ctx context.Context, dir string, timeout time.Duration) *ProcessExecutor {
	return &ProcessExecutor{ctx: ctx, dir: dir, timeout: timeout, exitCode: -1}
}

// Execute runs path with args and captures stdout and stderr. A non-zero
// exit status is recorded, not returned; errors mean the process could not
// be started or was killed.
func (e *ProcessExecutor) Execute(path string, args ...string) error {
	ctx := e.ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.output.Reset()
	e.exitCode = -1

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = e.dir
	cmd.Stdout = &e.output
	cmd.Stderr = &e.output
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	e.wallTime = time.Since(start)

	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "%s did not finish", path)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.exitCode = exitErr.ExitCode()
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to run %s", path)
	}

	e.exitCode = 0
	return nil
}

// ExitCode returns the exit status of the last run, or -1.
func (e *ProcessExecutor) ExitCode() int { return e.exitCode }

// Output returns the combined output of the last run.
func (e *ProcessExecutor) Output() string { return e.output.String() }

// WallTime returns how long the last run took.
func (e *ProcessExecutor) WallTime() time.Duration { return e.wallTime }
