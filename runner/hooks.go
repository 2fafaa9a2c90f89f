package runner

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

const metricsNamespace = "clava_bench"

// Phase outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// MetricsHook records the duration and outcome of every phase.
type MetricsHook struct {
	// PhaseDuration measures phases in seconds.
	// Labels: suite, phase
	PhaseDuration *prometheus.HistogramVec

	// PhaseTotal counts finished phases.
	// Labels: suite, phase, outcome (success, error)
	PhaseTotal *prometheus.CounterVec
}

// NewMetricsHook registers the phase metrics with reg.
func NewMetricsHook(reg prometheus.Registerer) *MetricsHook {
	factory := promauto.With(reg)

	return &MetricsHook{
		PhaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of benchmark lifecycle phases",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"suite", "phase"},
		),
		PhaseTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "phase_total",
				Help:      "Total benchmark lifecycle phases by outcome",
			},
			[]string{"suite", "phase", "outcome"},
		),
	}
}

// Func implements sim.Hook.
func (m *MetricsHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != lifecycle.HookPosPhaseEnd {
		return
	}
	e, ok := ctx.Detail.(lifecycle.PhaseEvent)
	if !ok {
		return
	}

	suite := e.Instance.Suite()
	phase := string(e.Phase)

	outcome := OutcomeSuccess
	if e.Err != nil {
		outcome = OutcomeError
	}

	m.PhaseDuration.WithLabelValues(suite, phase).Observe(e.Duration.Seconds())
	m.PhaseTotal.WithLabelValues(suite, phase, outcome).Inc()
}

// LogHook logs phase transitions.
type LogHook struct {
	logger *slog.Logger
}

// NewLogHook creates a LogHook writing to logger.
func NewLogHook(logger *slog.Logger) *LogHook {
	return &LogHook{logger: logger}
}

// Func implements sim.Hook.
func (l *LogHook) Func(ctx sim.HookCtx) {
	e, ok := ctx.Detail.(lifecycle.PhaseEvent)
	if !ok {
		return
	}

	switch {
	case ctx.Pos == lifecycle.HookPosPhaseStart:
		l.logger.Debug("phase started",
			"instance", e.Instance.Name(), "phase", e.Phase, "state", e.From)
	case e.Err != nil:
		l.logger.Warn("phase failed",
			"instance", e.Instance.Name(), "phase", e.Phase, "duration", e.Duration, "error", e.Err)
	default:
		l.logger.Info("phase done",
			"instance", e.Instance.Name(), "phase", e.Phase, "state", e.To, "duration", e.Duration)
	}
}
