package api

const (
	DefaultFileInclude     = "**/*"
	DefaultSettingsPattern = "**/.claude/settings.local.json"
	DefaultAgentProgram    = "claude"

	StepKindCommand  = "command"
	StepKindInstall  = "install"
	StepKindMCP      = "mcp"
	StepKindFiles    = "files"
	StepKindSettings = "settings"
)

// Manifest is the bootstrap.yaml configuration format.
type Manifest struct {
	Context map[string]any `yaml:"context"`
	Steps   []StepConfig   `yaml:"steps"`

	// Set by the loader, not from YAML.
	FilePath string `yaml:"-"`
}

// StepConfig defines a single provisioning step. Exactly one kind config
// block must be set, matching Kind.
type StepConfig struct {
	Name          string           `yaml:"name"`
	Group         string           `yaml:"group"`
	Kind          string           `yaml:"kind"`
	Optional      bool             `yaml:"optional"`
	HaltOnFailure bool             `yaml:"haltOnFailure"`
	Condition     *ConditionConfig `yaml:"condition,omitempty"`
	Command       *CommandConfig   `yaml:"command,omitempty"`
	Install       *InstallConfig   `yaml:"install,omitempty"`
	MCP           *MCPConfig       `yaml:"mcp,omitempty"`
	Files         *FilesConfig     `yaml:"files,omitempty"`
	Settings      *SettingsConfig  `yaml:"settings,omitempty"`
}

// Path returns the selector path of the step (group/name) used for
// --only matching.
func (s StepConfig) Path() string {
	if s.Group == "" {
		return s.Name
	}
	return s.Group + "/" + s.Name
}

// ConditionConfig gates whether a step runs. Every clause that is set
// must hold, otherwise the step is skipped.
type ConditionConfig struct {
	Credential    string `yaml:"credential"`
	Env           string `yaml:"env"`
	BinaryPresent string `yaml:"binaryPresent"`
	BinaryAbsent  string `yaml:"binaryAbsent"`
}

// Empty reports whether no clause is set.
func (c ConditionConfig) Empty() bool {
	return c.Credential == "" && c.Env == "" && c.BinaryPresent == "" && c.BinaryAbsent == ""
}

// CommandConfig configures the command step.
type CommandConfig struct {
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
}

// InstallConfig configures the install step. When CheckBinary is already
// resolvable on PATH the installer is not invoked again.
type InstallConfig struct {
	Program     string   `yaml:"program"`
	Args        []string `yaml:"args"`
	CheckBinary string   `yaml:"checkBinary"`
}

// MCPConfig configures the mcp registration step. Either Command (with
// optional Args) for stdio servers, or URL for remote transports.
type MCPConfig struct {
	Server    string            `yaml:"server"`
	Agent     string            `yaml:"agent"`
	Scope     string            `yaml:"scope"`
	Transport string            `yaml:"transport"`
	Env       map[string]string `yaml:"env"`
	URL       string            `yaml:"url"`
	Command   string            `yaml:"command"`
	Args      []string          `yaml:"args"`
}

// FilesConfig configures the files step.
type FilesConfig struct {
	Source    string   `yaml:"source"`
	Dest      string   `yaml:"dest"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Overwrite bool     `yaml:"overwrite"`
}

// SettingsConfig configures the settings merge step.
type SettingsConfig struct {
	Root    string `yaml:"root"`
	Pattern string `yaml:"pattern"`
	Output  string `yaml:"output"`
}
