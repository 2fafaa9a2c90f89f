package runner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Report is the complete output format for run results.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Results  []Result       `json:"results"`
	Summary  ReportSummary  `json:"summary"`
}

// ReportMetadata contains information about the run.
type ReportMetadata struct {
	// Timestamp when the report was written
	Timestamp string `json:"timestamp"`
	RunID     string `json:"run_id"`
	Suite     string `json:"suite"`
	Version   string `json:"version,omitempty"`
}

// ReportSummary contains aggregate statistics across all instances.
type ReportSummary struct {
	TotalInstances int `json:"total_instances"`
	Passed         int `json:"passed"`

	// Failed counts instances with a failed phase or a non-zero exit code.
	Failed int `json:"failed"`

	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates results.
func Summarize(results []Result) ReportSummary {
	s := ReportSummary{TotalInstances: len(results)}
	for _, r := range results {
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
		s.TotalWallTime += r.WallTime
	}
	return s
}

// Print writes results in the given format.
func (h *Harness) Print(format string, results []Result) error {
	switch format {
	case FormatText, "":
		h.PrintResults(results)
		return nil
	case FormatCSV:
		h.PrintCSV(results)
		return nil
	case FormatJSON:
		return h.PrintJSON(results)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// PrintResults outputs results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	out := h.config.Output

	_, _ = fmt.Fprintf(out, "=== %s Benchmark Results ===\n", h.config.Suite)
	_, _ = fmt.Fprintf(out, "Run: %s\n", h.RunID())
	_, _ = fmt.Fprintln(out, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(out, "Instance: %s\n", r.Name)
		_, _ = fmt.Fprintf(out, "  Benchmark: %s\n", r.Benchmark)
		_, _ = fmt.Fprintf(out, "  Size:      %s\n", r.Size)
		if r.FailedPhase != "" {
			_, _ = fmt.Fprintf(out, "  Failed:    %s\n", r.FailedPhase)
			_, _ = fmt.Fprintf(out, "  Error:     %s\n", r.Error)
		} else {
			_, _ = fmt.Fprintf(out, "  Exit Code: %d\n", r.ExitCode)
		}
		if r.Output != "" {
			_, _ = fmt.Fprintln(out, "  --- Output ---")
			_, _ = fmt.Fprint(out, r.Output)
			if r.Output[len(r.Output)-1] != '\n' {
				_, _ = fmt.Fprintln(out)
			}
		}
		_, _ = fmt.Fprintf(out, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(out, "")
	}

	s := Summarize(results)
	_, _ = fmt.Fprintf(out, "Passed %d of %d in %v\n", s.Passed, s.TotalInstances, s.TotalWallTime)
}

// PrintCSV outputs results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "name,suite,benchmark,size,exit_code,failed_phase,wall_time_ns")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%s,%s,%d,%s,%d\n",
			r.Name,
			r.Suite,
			r.Benchmark,
			r.Size,
			r.ExitCode,
			r.FailedPhase,
			r.WallTime.Nanoseconds(),
		)
	}
}

// PrintJSON outputs results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []Result) error {
	report := Report{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RunID:     h.RunID(),
			Suite:     h.config.Suite,
			Version:   h.config.Version,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
