package api

import (
	"fmt"
)

var validStepKinds = map[string]bool{
	StepKindCommand:  true,
	StepKindInstall:  true,
	StepKindMCP:      true,
	StepKindFiles:    true,
	StepKindSettings: true,
}

// Validate checks the manifest configuration for errors. A manifest that
// fails validation must abort the run before any step executes.
func (m *Manifest) Validate() error {
	if len(m.Steps) == 0 {
		return fmt.Errorf("manifest has no steps")
	}

	names := make(map[string]int)

	for i, step := range m.Steps {
		if step.Name == "" {
			return fmt.Errorf("step %d: name is required", i)
		}
		if prev, exists := names[step.Name]; exists {
			return fmt.Errorf("step %d: duplicate step name %q (first defined at step %d)", i, step.Name, prev)
		}
		names[step.Name] = i

		if !validStepKinds[step.Kind] {
			return fmt.Errorf("step %q: unknown kind %q", step.Name, step.Kind)
		}

		if step.Condition != nil && step.Condition.Empty() {
			return fmt.Errorf("step %q: condition block has no clauses", step.Name)
		}

		if err := validateStepConfig(step); err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
	}

	return nil
}

func validateStepConfig(step StepConfig) error {
	switch step.Kind {
	case StepKindCommand:
		if step.Command == nil {
			return fmt.Errorf("command config is required")
		}
		if step.Command.Program == "" {
			return fmt.Errorf("command.program is required")
		}
	case StepKindInstall:
		if step.Install == nil {
			return fmt.Errorf("install config is required")
		}
		if step.Install.Program == "" {
			return fmt.Errorf("install.program is required")
		}
	case StepKindMCP:
		return validateMCPConfig(step)
	case StepKindFiles:
		return validateFilesConfig(step)
	case StepKindSettings:
		return validateSettingsConfig(step)
	}
	return nil
}

func validateMCPConfig(step StepConfig) error {
	if step.MCP == nil {
		return fmt.Errorf("mcp config is required")
	}
	if step.MCP.Server == "" {
		return fmt.Errorf("mcp.server is required")
	}
	if step.MCP.Command == "" && step.MCP.URL == "" {
		return fmt.Errorf("one of mcp.command or mcp.url is required")
	}
	if step.MCP.Command != "" && step.MCP.URL != "" {
		return fmt.Errorf("mcp.command and mcp.url are mutually exclusive")
	}
	return nil
}

func validateFilesConfig(step StepConfig) error {
	if step.Files == nil {
		return fmt.Errorf("files config is required")
	}
	if step.Files.Source == "" {
		return fmt.Errorf("files.source is required")
	}
	if step.Files.Dest == "" {
		return fmt.Errorf("files.dest is required")
	}
	return nil
}

func validateSettingsConfig(step StepConfig) error {
	if step.Settings == nil {
		return fmt.Errorf("settings config is required")
	}
	if step.Settings.Root == "" {
		return fmt.Errorf("settings.root is required")
	}
	if step.Settings.Output == "" {
		return fmt.Errorf("settings.output is required")
	}
	return nil
}
