// Package runner drives the instances of a benchmark set one after another
// and reports how each of them went.
package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/specs-feup/clava-benchmarks/lifecycle"
	"github.com/specs-feup/clava-benchmarks/logging"
)

// Result is the outcome of one instance.
type Result struct {
	// ID is unique per instance and run.
	ID string `json:"id"`

	// Name is "<suite>-<benchmark>-<size>".
	Name      string `json:"name"`
	Suite     string `json:"suite"`
	Benchmark string `json:"benchmark"`
	Size      string `json:"size"`

	// ExitCode is only meaningful when the execute phase ran.
	ExitCode int `json:"exit_code"`

	// FailedPhase is empty when every phase succeeded.
	FailedPhase lifecycle.Phase `json:"failed_phase,omitempty"`
	Error       string          `json:"error,omitempty"`

	// Output holds the program output in verbose runs.
	Output string `json:"output,omitempty"`

	// WallTime is the run time of the program if the executor measures it,
	// and of the whole instance otherwise.
	WallTime time.Duration `json:"wall_time_ns"`
}

// Passed reports whether every phase succeeded and the program exited 0.
func (r Result) Passed() bool {
	return r.FailedPhase == "" && r.ExitCode == 0
}

// HarnessConfig configures a Harness.
type HarnessConfig struct {
	// Suite and Version end up in the report metadata.
	Suite   string
	Version string

	// Build compiles each loaded instance. Nil skips the build step.
	Build lifecycle.BuildFunc

	// Hooks are attached to every instance before it runs.
	Hooks []sim.Hook

	// Tracer defaults to the global otel tracer.
	Tracer trace.Tracer

	// Output is where reports are written (default: os.Stdout).
	Output io.Writer

	// Verbose keeps the program output in the results.
	Verbose bool

	Logger *slog.Logger
}

// DefaultHarnessConfig returns a config writing to stdout.
func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{
		Output: os.Stdout,
	}
}

// Harness runs instances strictly in the order they were added.
type Harness struct {
	config    HarnessConfig
	runID     uuid.UUID
	instances []*lifecycle.Instance
}

// NewHarness creates a harness with a fresh run ID.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer("clava-benchmarks/runner")
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}

	return &Harness{
		config:    config,
		runID:     uuid.New(),
		instances: []*lifecycle.Instance{},
	}
}

// RunID identifies the run in logs and reports.
func (h *Harness) RunID() string { return h.runID.String() }

// AddInstance adds an instance to the harness.
func (h *Harness) AddInstance(inst *lifecycle.Instance) {
	h.instances = append(h.instances, inst)
}

// AddInstances adds multiple instances to the harness.
func (h *Harness) AddInstances(insts []*lifecycle.Instance) {
	h.instances = append(h.instances, insts...)
}

// Instances returns the instances in run order.
func (h *Harness) Instances() []*lifecycle.Instance { return h.instances }

// RunAll runs every instance and returns one result each. Once ctx is done
// no further instance is started.
func (h *Harness) RunAll(ctx context.Context) []Result {
	ctx, span := h.config.Tracer.Start(ctx, "runner.RunAll",
		trace.WithAttributes(
			attribute.String("run.id", h.RunID()),
			attribute.String("run.suite", h.config.Suite),
			attribute.Int("run.instances", len(h.instances)),
		),
	)
	defer span.End()

	results := make([]Result, 0, len(h.instances))
	failed := 0

	for _, inst := range h.instances {
		if err := ctx.Err(); err != nil {
			h.config.Logger.Warn("run interrupted", "run", h.RunID(), "remaining", len(h.instances)-len(results), "error", err)
			span.SetStatus(codes.Error, err.Error())
			break
		}

		result := h.runInstance(ctx, inst)
		if !result.Passed() {
			failed++
		}
		results = append(results, result)
	}

	span.SetAttributes(attribute.Int("run.failed", failed))
	return results
}

// wallTimer is implemented by executors that time the program themselves.
type wallTimer interface {
	WallTime() time.Duration
}

func (h *Harness) runInstance(ctx context.Context, inst *lifecycle.Instance) Result {
	sel := inst.Selection()
	result := Result{
		ID:        uuid.NewString(),
		Name:      inst.Name(),
		Suite:     inst.Suite(),
		Benchmark: sel.Benchmark,
		Size:      sel.Size,
	}

	_, span := h.config.Tracer.Start(ctx, "runner.Instance",
		trace.WithAttributes(
			attribute.String("instance.id", result.ID),
			attribute.String("instance.name", result.Name),
			attribute.String("instance.benchmark", result.Benchmark),
			attribute.String("instance.size", result.Size),
		),
	)
	defer span.End()

	for _, hook := range h.config.Hooks {
		inst.AcceptHook(hook)
	}
	inst.AcceptHook(lifecycle.PhaseHook(func(e lifecycle.PhaseEvent) {
		attrs := []attribute.KeyValue{
			attribute.String("phase", string(e.Phase)),
			attribute.Int64("duration_ns", e.Duration.Nanoseconds()),
		}
		if e.Err != nil {
			attrs = append(attrs, attribute.String("error", e.Err.Error()))
		}
		span.AddEvent("phase", trace.WithAttributes(attrs...))
	}))

	start := time.Now()
	executor, err := lifecycle.Run(inst, h.config.Build)
	result.WallTime = time.Since(start)

	if err != nil {
		var pe *lifecycle.PhaseError
		if errors.As(err, &pe) {
			result.FailedPhase = pe.Phase
		}
		result.Error = err.Error()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.config.Logger.Error("instance failed", "run", h.RunID(), "instance", result.Name, "error", err)
		return result
	}

	result.ExitCode = executor.ExitCode()
	if t, ok := executor.(wallTimer); ok {
		result.WallTime = t.WallTime()
	}
	if h.config.Verbose {
		result.Output = executor.Output()
	}

	span.SetAttributes(attribute.Int("instance.exit_code", result.ExitCode))
	h.config.Logger.Info("instance done", "run", h.RunID(), "instance", result.Name,
		"exit_code", result.ExitCode, "wall_time", result.WallTime)

	return result
}
