// Package provision executes provisioning steps in manifest order and
// aggregates their results.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/systemstart/bootstrap/pkg/api"
	"github.com/systemstart/bootstrap/pkg/credentials"
	"github.com/systemstart/bootstrap/pkg/steps"
)

// StepResult records the outcome of one configured step.
type StepResult struct {
	Name     string
	Group    string
	Kind     string
	Optional bool
	Status   steps.Status
	ExitCode int
	Output   string
	Err      error
	Duration time.Duration
}

// PlanEntry describes what a dry run would do for one step.
type PlanEntry struct {
	Name   string
	Group  string
	Kind   string
	Run    bool
	Reason string
}

// Config wires an Engine. Zero-value fields fall back to the real
// environment (os/exec lookups, process env, ExecRunner).
type Config struct {
	WorkDir      string
	TemplateData map[string]any
	Credentials  credentials.Source
	Runner       steps.Runner
	LookupEnv    func(string) (string, bool)
	LookPath     func(string) (string, error)
	StepTimeout  time.Duration
	Reporter     *Reporter
}

// Engine runs provisioning steps one at a time, in order. A failing
// step does not stop the run unless it asks for that via haltOnFailure.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine, applying defaults for unset seams.
func NewEngine(cfg Config) *Engine {
	if cfg.Runner == nil {
		cfg.Runner = steps.ExecRunner{}
	}
	if cfg.LookupEnv == nil {
		cfg.LookupEnv = os.LookupEnv
	}
	if cfg.LookPath == nil {
		cfg.LookPath = exec.LookPath
	}
	if cfg.Credentials == nil {
		cfg.Credentials = credentials.NewResolver(os.LookupEnv, "")
	}
	if cfg.Reporter == nil {
		cfg.Reporter = NewReporter(os.Stdout)
	}
	return &Engine{cfg: cfg}
}

// Run executes every configured step and returns one result per step,
// in order. The error is non-nil iff a required step failed; execution
// only stops early when a failed required step sets haltOnFailure.
func (e *Engine) Run(ctx context.Context, configs []api.StepConfig) ([]StepResult, error) {
	slog.Info("starting provisioning run", "run", e.cfg.Reporter.RunID(), "steps", len(configs))

	results := make([]StepResult, 0, len(configs))
	halted := false

	for _, cfg := range configs {
		res := e.runStep(ctx, cfg)
		results = append(results, res)
		e.cfg.Reporter.StepFinished(res)

		if res.Status == steps.StatusFailed && !cfg.Optional && cfg.HaltOnFailure {
			slog.Error("halting run after required step failure", "step", cfg.Name)
			halted = true
			break
		}
	}

	failed := 0
	for _, res := range results {
		if res.Status == steps.StatusFailed && !res.Optional {
			failed++
		}
	}

	switch {
	case halted:
		return results, fmt.Errorf("run halted: step %q failed", results[len(results)-1].Name)
	case failed > 0:
		return results, fmt.Errorf("%d required step(s) failed", failed)
	}
	return results, nil
}

// Plan evaluates each step's condition without invoking anything.
func (e *Engine) Plan(ctx context.Context, configs []api.StepConfig) ([]PlanEntry, error) {
	entries := make([]PlanEntry, 0, len(configs))
	for _, cfg := range configs {
		run, reason, err := steps.EvalCondition(cfg.Condition, e.stepContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", cfg.Name, err)
		}
		entries = append(entries, PlanEntry{
			Name:   cfg.Name,
			Group:  cfg.Group,
			Kind:   cfg.Kind,
			Run:    run,
			Reason: reason,
		})
	}
	return entries, nil
}

func (e *Engine) runStep(ctx context.Context, cfg api.StepConfig) StepResult {
	start := time.Now()
	res := StepResult{Name: cfg.Name, Group: cfg.Group, Kind: cfg.Kind, Optional: cfg.Optional}

	sctx := e.stepContext(ctx)

	run, reason, err := steps.EvalCondition(cfg.Condition, sctx)
	if err != nil {
		res.Status = steps.StatusFailed
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}
	if !run {
		slog.Info("skipping step", "step", cfg.Name, "reason", reason)
		res.Status = steps.StatusSkipped
		res.Output = reason
		res.Duration = time.Since(start)
		return res
	}

	step, err := steps.NewStep(cfg)
	if err != nil {
		res.Status = steps.StatusFailed
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if e.cfg.StepTimeout > 0 {
		stepCtx, cancel := context.WithTimeout(ctx, e.cfg.StepTimeout)
		defer cancel()
		sctx.Context = stepCtx
	}

	outcome, err := step.Run(sctx)
	res.Duration = time.Since(start)

	if outcome != nil {
		res.Status = outcome.Status
		res.ExitCode = outcome.ExitCode
		res.Output = outcome.Output
	}
	if err != nil {
		res.Status = steps.StatusFailed
		res.Err = err
	} else if outcome == nil {
		res.Status = steps.StatusSuccess
	}
	return res
}

func (e *Engine) stepContext(ctx context.Context) steps.StepContext {
	return steps.StepContext{
		Context:      ctx,
		WorkDir:      e.cfg.WorkDir,
		TemplateData: e.cfg.TemplateData,
		Credentials:  e.cfg.Credentials,
		Runner:       e.cfg.Runner,
		LookupEnv:    e.cfg.LookupEnv,
		LookPath:     e.cfg.LookPath,
	}
}
