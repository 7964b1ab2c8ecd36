package steps

import (
	"context"

	"github.com/systemstart/bootstrap/pkg/credentials"
)

// Status is the terminal state of one provisioning step.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// StepContext provides the runtime context for a step.
type StepContext struct {
	Context      context.Context
	WorkDir      string
	TemplateData map[string]any
	Credentials  credentials.Source
	Runner       Runner
	LookupEnv    func(string) (string, bool)
	LookPath     func(string) (string, error)
}

// Outcome holds what a step reports about its own execution. On failure
// it still carries the exit code and captured output for the run report.
type Outcome struct {
	Status   Status
	ExitCode int
	Output   string
}

// Step is the interface all provisioning steps implement.
type Step interface {
	Name() string
	Run(ctx StepContext) (*Outcome, error)
}
