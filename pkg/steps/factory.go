package steps

import (
	"fmt"

	"github.com/systemstart/bootstrap/pkg/api"
)

// NewStep creates a Step implementation from a StepConfig.
func NewStep(cfg api.StepConfig) (Step, error) {
	switch cfg.Kind {
	case api.StepKindCommand:
		return NewCommandStep(cfg.Name, cfg.Command), nil
	case api.StepKindInstall:
		return NewInstallStep(cfg.Name, cfg.Install), nil
	case api.StepKindMCP:
		return NewMCPStep(cfg.Name, cfg.MCP), nil
	case api.StepKindFiles:
		return NewFilesStep(cfg.Name, cfg.Files), nil
	case api.StepKindSettings:
		return NewSettingsStep(cfg.Name, cfg.Settings), nil
	default:
		return nil, fmt.Errorf("unknown step kind: %s", cfg.Kind)
	}
}
