package provision

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/systemstart/bootstrap/pkg/steps"
)

// Reporter streams per-step outcomes to the log as they complete and
// renders a final summary table.
type Reporter struct {
	out   io.Writer
	runID string
}

// NewReporter creates a Reporter writing its summary to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, runID: uuid.NewString()}
}

// RunID returns the identifier of this run, used to correlate log lines.
func (r *Reporter) RunID() string { return r.runID }

// StepFinished logs one step's outcome as soon as it is known.
func (r *Reporter) StepFinished(res StepResult) {
	switch res.Status {
	case steps.StatusSuccess:
		slog.Info("step succeeded", "step", res.Name, "duration", res.Duration)
	case steps.StatusSkipped:
		slog.Info("step skipped", "step", res.Name, "reason", res.Output)
	case steps.StatusFailed:
		slog.Error("step failed",
			"step", res.Name,
			"exitCode", res.ExitCode,
			"error", res.Err,
			"output", res.Output)
	}
}

// Summary renders the final run report: one row per step plus counts.
func (r *Reporter) Summary(results []StepResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(table.Row{"STEP", "GROUP", "KIND", "STATUS", "DURATION", "EXIT"})

	for _, res := range results {
		status := string(res.Status)
		if res.Status == steps.StatusFailed && res.Optional {
			status += " (optional)"
		}
		tw.AppendRow(table.Row{
			res.Name,
			res.Group,
			res.Kind,
			status,
			res.Duration.Round(time.Millisecond),
			res.ExitCode,
		})
	}
	tw.Render()

	success, skipped, failed := Counts(results)
	fmt.Fprintf(r.out, "run %s: %d succeeded, %d skipped, %d failed\n", r.runID, success, skipped, failed)
}

// PlanSummary renders what a dry run would do.
func (r *Reporter) PlanSummary(entries []PlanEntry) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(table.Row{"STEP", "GROUP", "KIND", "ACTION"})

	for _, e := range entries {
		action := "run"
		if !e.Run {
			action = "skip: " + e.Reason
		}
		tw.AppendRow(table.Row{e.Name, e.Group, e.Kind, action})
	}
	tw.Render()
}

// Counts tallies results by status.
func Counts(results []StepResult) (success, skipped, failed int) {
	for _, res := range results {
		switch res.Status {
		case steps.StatusSuccess:
			success++
		case steps.StatusSkipped:
			skipped++
		case steps.StatusFailed:
			failed++
		}
	}
	return success, skipped, failed
}

// Failed reports whether any required step failed. This drives the
// process exit code: optional steps may fail without failing the run.
func Failed(results []StepResult) bool {
	for _, res := range results {
		if res.Status == steps.StatusFailed && !res.Optional {
			return true
		}
	}
	return false
}
