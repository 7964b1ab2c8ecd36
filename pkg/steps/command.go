package steps

import (
	"fmt"
	"log/slog"

	"github.com/systemstart/bootstrap/pkg/api"
)

type commandStep struct {
	name string
	cfg  *api.CommandConfig
}

// NewCommandStep creates a command step.
func NewCommandStep(name string, cfg *api.CommandConfig) Step {
	return &commandStep{name: name, cfg: cfg}
}

func (s *commandStep) Name() string { return s.name }

func (s *commandStep) Run(ctx StepContext) (*Outcome, error) {
	args, err := RenderArgs(s.name, s.cfg.Args, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering args: %w", err)
	}

	slog.Info("running command", "step", s.name, "program", s.cfg.Program)

	output, code, err := ctx.Runner.Run(ctx.Context, CommandSpec{
		Program: s.cfg.Program,
		Args:    args,
		Dir:     ctx.WorkDir,
	})
	if err != nil {
		return &Outcome{Status: StatusFailed, ExitCode: code, Output: output},
			fmt.Errorf("%s failed: %w", s.cfg.Program, err)
	}

	return &Outcome{Status: StatusSuccess, Output: output}, nil
}
