package steps

import (
	"fmt"
	"log/slog"

	"github.com/systemstart/bootstrap/pkg/api"
)

type mcpStep struct {
	name string
	cfg  *api.MCPConfig
}

// NewMCPStep creates an mcp registration step. The agent CLI is an
// opaque boundary: registration happens through `<agent> mcp add`, and
// idempotency through a `<agent> mcp get` probe.
func NewMCPStep(name string, cfg *api.MCPConfig) Step {
	return &mcpStep{name: name, cfg: cfg}
}

func (s *mcpStep) Name() string { return s.name }

func (s *mcpStep) Run(ctx StepContext) (*Outcome, error) {
	agent := s.cfg.Agent
	if agent == "" {
		agent = api.DefaultAgentProgram
	}

	if _, _, err := ctx.Runner.Run(ctx.Context, CommandSpec{
		Program: agent,
		Args:    []string{"mcp", "get", s.cfg.Server},
		Dir:     ctx.WorkDir,
	}); err == nil {
		slog.Info("mcp server already registered", "step", s.name, "server", s.cfg.Server)
		return &Outcome{
			Status: StatusSkipped,
			Output: fmt.Sprintf("server %s already registered", s.cfg.Server),
		}, nil
	}

	args, err := s.addArgs(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("registering mcp server", "step", s.name, "agent", agent, "server", s.cfg.Server)

	output, code, err := ctx.Runner.Run(ctx.Context, CommandSpec{
		Program: agent,
		Args:    args,
		Dir:     ctx.WorkDir,
	})
	if err != nil {
		return &Outcome{Status: StatusFailed, ExitCode: code, Output: output},
			fmt.Errorf("registering %s failed: %w", s.cfg.Server, err)
	}

	return &Outcome{Status: StatusSuccess, Output: output}, nil
}

// addArgs builds the `mcp add` argument list. Env values and the URL may
// reference credentials, so they render through the template funcs.
func (s *mcpStep) addArgs(ctx StepContext) ([]string, error) {
	args := []string{"mcp", "add"}

	if s.cfg.Scope != "" {
		args = append(args, "--scope", s.cfg.Scope)
	}
	if s.cfg.Transport != "" {
		args = append(args, "--transport", s.cfg.Transport)
	}

	env, err := RenderEnv(s.name, s.cfg.Env, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering env: %w", err)
	}
	for _, entry := range env {
		args = append(args, "--env", entry)
	}

	args = append(args, s.cfg.Server)

	if s.cfg.URL != "" {
		url, err := RenderString(s.name, s.cfg.URL, ctx)
		if err != nil {
			return nil, fmt.Errorf("rendering url: %w", err)
		}
		return append(args, url), nil
	}

	serverArgs, err := RenderArgs(s.name, s.cfg.Args, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering args: %w", err)
	}

	args = append(args, "--", s.cfg.Command)
	return append(args, serverArgs...), nil
}
