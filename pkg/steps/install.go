package steps

import (
	"fmt"
	"log/slog"

	"github.com/systemstart/bootstrap/pkg/api"
)

type installStep struct {
	name string
	cfg  *api.InstallConfig
}

// NewInstallStep creates an install step. It probes for CheckBinary so
// reapplying a fully provisioned machine performs no installs.
func NewInstallStep(name string, cfg *api.InstallConfig) Step {
	return &installStep{name: name, cfg: cfg}
}

func (s *installStep) Name() string { return s.name }

func (s *installStep) Run(ctx StepContext) (*Outcome, error) {
	if s.cfg.CheckBinary != "" {
		if path, err := ctx.LookPath(s.cfg.CheckBinary); err == nil {
			slog.Info("already installed", "step", s.name, "binary", s.cfg.CheckBinary, "path", path)
			return &Outcome{
				Status: StatusSkipped,
				Output: fmt.Sprintf("%s already installed at %s", s.cfg.CheckBinary, path),
			}, nil
		}
	}

	args, err := RenderArgs(s.name, s.cfg.Args, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering args: %w", err)
	}

	slog.Info("installing", "step", s.name, "program", s.cfg.Program)

	output, code, err := ctx.Runner.Run(ctx.Context, CommandSpec{
		Program: s.cfg.Program,
		Args:    args,
		Dir:     ctx.WorkDir,
	})
	if err != nil {
		return &Outcome{Status: StatusFailed, ExitCode: code, Output: output},
			fmt.Errorf("install via %s failed: %w", s.cfg.Program, err)
	}

	return &Outcome{Status: StatusSuccess, Output: output}, nil
}
