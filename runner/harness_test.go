package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sarchlab/akita/v4/sim"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host/local"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
	"github.com/specs-feup/clava-benchmarks/runner"
)

type fakeExe string

func (e fakeExe) Path() string { return string(e) }

type fakeExecutor struct {
	code int
	runs int
}

func (e *fakeExecutor) Execute(string, ...string) error {
	e.runs++
	return nil
}

func (e *fakeExecutor) ExitCode() int  { return e.code }
func (e *fakeExecutor) Output() string { return "done" }

var toyRecipe = &lifecycle.Recipe{
	Suite: "Toy",
	Flags: lifecycle.Define(),
	Libs:  []string{"m"},
	Sources: lifecycle.FixedFiles(func(sel catalog.Selection) []string {
		return []string{sel.Benchmark + ".c"}
	}),
}

var _ = Describe("Harness", func() {
	var (
		h        *local.Host
		out      *bytes.Buffer
		recorder *tracetest.SpanRecorder
		tp       *sdktrace.TracerProvider
		codes    map[string]int
	)

	BeforeEach(func() {
		base := GinkgoT().TempDir()
		writeTree(filepath.Join(base, "res"), map[string]string{
			"ep.c":     "int main(void) { return 0; }\n",
			"cg.c":     "int main(void) { return 2; }\n",
			"broken.c": "int main(void) { return 0; }\n",
		})

		var err error
		h, err = local.New(context.Background(), local.Options{
			ResourcesDir: filepath.Join(base, "res"),
			WorkDir:      filepath.Join(base, "work"),
			BuildDir:     filepath.Join(base, "build"),
			Standard:     "c89",
			Flags:        "-O2",
		})
		Expect(err).NotTo(HaveOccurred())

		out = &bytes.Buffer{}
		recorder = tracetest.NewSpanRecorder()
		tp = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		DeferCleanup(func() { _ = tp.Shutdown(context.Background()) })

		codes = map[string]int{"ep": 0, "cg": 2}
	})

	build := func(inst *lifecycle.Instance) error {
		Expect(h.Config.Flags()).To(Equal("-O2 -DCLASS_" + inst.Selection().Size))

		code, ok := codes[inst.Selection().Benchmark]
		if !ok {
			return errors.New("compiler error")
		}
		inst.SetExecutable(fakeExe("/build/"+inst.Name()), &fakeExecutor{code: code})
		return nil
	}

	newHarness := func(hooks ...sim.Hook) *runner.Harness {
		harness := runner.NewHarness(runner.HarnessConfig{
			Suite:  "Toy",
			Build:  build,
			Hooks:  hooks,
			Tracer: tp.Tracer("test"),
			Output: out,
		})
		for _, bench := range []string{"ep", "cg", "broken", "missing"} {
			sel := catalog.Selection{Benchmark: bench, Size: "S"}
			harness.AddInstance(lifecycle.NewInstance(h.Env(), toyRecipe, sel, "c99"))
		}
		return harness
	}

	It("should run every instance in order and record where it failed", func() {
		harness := newHarness()
		results := harness.RunAll(context.Background())

		Expect(results).To(HaveLen(4))

		var names []string
		for _, r := range results {
			names = append(names, r.Name)
			Expect(r.ID).NotTo(BeEmpty())
		}
		Expect(names).To(Equal([]string{"Toy-ep-S", "Toy-cg-S", "Toy-broken-S", "Toy-missing-S"}))

		Expect(results[0].Passed()).To(BeTrue())
		Expect(results[1].ExitCode).To(Equal(2))
		Expect(results[1].FailedPhase).To(BeEmpty())
		Expect(results[1].Passed()).To(BeFalse())
		Expect(results[2].FailedPhase).To(Equal(lifecycle.PhaseBuild))
		Expect(results[2].Error).To(ContainSubstring("compiler error"))
		Expect(results[3].FailedPhase).To(Equal(lifecycle.PhaseLoad))

		for _, inst := range harness.Instances() {
			Expect(inst.State()).To(Equal(lifecycle.Closed))
		}
		Expect(h.Config.Standard()).To(Equal("c89"))
		Expect(h.Config.Flags()).To(Equal("-O2"))
		Expect(h.Workspace.Depth()).To(BeZero())
	})

	It("should give every run and instance its own ID", func() {
		a, b := newHarness(), newHarness()
		Expect(a.RunID()).NotTo(Equal(b.RunID()))

		results := a.RunAll(context.Background())
		Expect(results[0].ID).NotTo(Equal(results[1].ID))
	})

	It("should not start instances once the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		harness := newHarness()
		Expect(harness.RunAll(ctx)).To(BeEmpty())
		Expect(harness.Instances()[0].State()).To(Equal(lifecycle.Created))
	})

	It("should trace the run and each instance", func() {
		newHarness().RunAll(context.Background())

		spans := recorder.Ended()
		Expect(spans).To(HaveLen(5))

		run := spans[4]
		Expect(run.Name()).To(Equal("runner.RunAll"))
		for _, s := range spans[:4] {
			Expect(s.Name()).To(Equal("runner.Instance"))
			Expect(s.Parent().SpanID()).To(Equal(run.SpanContext().SpanID()))
		}

		// prologue, load, build, execute, close
		Expect(spans[0].Events()).To(HaveLen(5))
		// prologue, load, close, then the recorded error
		events := spans[3].Events()
		Expect(events).To(HaveLen(4))
		for _, e := range events[:3] {
			Expect(e.Name).To(Equal("phase"))
		}
		Expect(events[3].Name).To(Equal("exception"))
		Expect(spans[3].Status().Description).To(ContainSubstring("load failed"))
	})

	It("should count phases by outcome", func() {
		reg := prometheus.NewRegistry()
		metrics := runner.NewMetricsHook(reg)

		newHarness(metrics).RunAll(context.Background())

		Expect(testutil.ToFloat64(metrics.PhaseTotal.WithLabelValues("Toy", "prologue", "success"))).To(Equal(4.0))
		Expect(testutil.ToFloat64(metrics.PhaseTotal.WithLabelValues("Toy", "load", "error"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.PhaseTotal.WithLabelValues("Toy", "build", "error"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.PhaseTotal.WithLabelValues("Toy", "execute", "success"))).To(Equal(2.0))
		Expect(testutil.ToFloat64(metrics.PhaseTotal.WithLabelValues("Toy", "close", "success"))).To(Equal(4.0))

		Expect(testutil.CollectAndCount(metrics.PhaseDuration)).To(Equal(5))
		Expect(testutil.CollectAndCount(metrics.PhaseTotal, "clava_bench_phase_total")).To(Equal(7))
	})

	It("should log failed phases", func() {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		newHarness(runner.NewLogHook(logger)).RunAll(context.Background())

		Expect(logs.String()).To(ContainSubstring(`"msg":"phase started"`))
		Expect(logs.String()).To(ContainSubstring(`"msg":"phase failed","instance":"Toy-broken-S","phase":"build"`))
	})

	Describe("reports", func() {
		var (
			harness *runner.Harness
			results []runner.Result
		)

		BeforeEach(func() {
			harness = newHarness()
			results = harness.RunAll(context.Background())
			out.Reset()
		})

		It("should summarize the results", func() {
			s := runner.Summarize(results)
			Expect(s.TotalInstances).To(Equal(4))
			Expect(s.Passed).To(Equal(1))
			Expect(s.Failed).To(Equal(3))
		})

		It("should print text", func() {
			Expect(harness.Print(runner.FormatText, results)).To(Succeed())
			Expect(out.String()).To(HavePrefix("=== Toy Benchmark Results ===\nRun: " + harness.RunID() + "\n"))
			Expect(out.String()).To(ContainSubstring("Instance: Toy-cg-S\n  Benchmark: cg\n  Size:      S\n  Exit Code: 2\n"))
			Expect(out.String()).To(ContainSubstring("  Failed:    build\n"))
			Expect(out.String()).To(ContainSubstring("Passed 1 of 4 in "))
		})

		It("should print CSV", func() {
			harness.PrintCSV(results)

			lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
			Expect(lines).To(HaveLen(5))
			Expect(string(lines[0])).To(Equal("name,suite,benchmark,size,exit_code,failed_phase,wall_time_ns"))
			Expect(string(lines[3])).To(HavePrefix("Toy-broken-S,Toy,broken,S,0,build,"))
		})

		It("should print JSON", func() {
			Expect(harness.Print(runner.FormatJSON, results)).To(Succeed())

			var report runner.Report
			Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
			Expect(report.Metadata.RunID).To(Equal(harness.RunID()))
			Expect(report.Metadata.Suite).To(Equal("Toy"))
			Expect(report.Results).To(HaveLen(4))
			Expect(report.Summary.Failed).To(Equal(3))
		})

		It("should reject unknown formats", func() {
			Expect(harness.Print("xml", results)).To(MatchError(ContainSubstring("unknown output format")))
		})
	})
})
