package steps

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/bootstrap/pkg/api"
)

type settingsStep struct {
	name string
	cfg  *api.SettingsConfig
}

// NewSettingsStep creates a settings step that merges the allow lists of
// agent permission files found under a root directory.
func NewSettingsStep(name string, cfg *api.SettingsConfig) Step {
	return &settingsStep{name: name, cfg: cfg}
}

func (s *settingsStep) Name() string { return s.name }

type settingsFile struct {
	Permissions struct {
		Allow []string `json:"allow"`
	} `json:"permissions"`
}

func (s *settingsStep) Run(ctx StepContext) (*Outcome, error) {
	root, err := RenderString(s.name, s.cfg.Root, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering root: %w", err)
	}
	output, err := RenderString(s.name, s.cfg.Output, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering output: %w", err)
	}

	if !filepath.IsAbs(root) {
		root = filepath.Join(ctx.WorkDir, root)
	}

	pattern := s.cfg.Pattern
	if pattern == "" {
		pattern = api.DefaultSettingsPattern
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	slices.Sort(matches)

	if len(matches) == 0 {
		return &Outcome{
			Status: StatusSkipped,
			Output: fmt.Sprintf("no settings files matching %s under %s", pattern, root),
		}, nil
	}

	merged, parsed := mergeAllowLists(root, matches)

	if err := writeSettings(output, merged); err != nil {
		return nil, err
	}

	slog.Info("settings merged", "step", s.name, "files", parsed, "permissions", len(merged), "output", output)
	return &Outcome{
		Status: StatusSuccess,
		Output: fmt.Sprintf("merged %d permission(s) from %d file(s)", len(merged), parsed),
	}, nil
}

// mergeAllowLists unions the permissions.allow entries of every readable
// settings file. Unreadable or malformed files are logged and skipped so
// one broken project does not break the merge.
func mergeAllowLists(root string, files []string) ([]string, int) {
	seen := make(map[string]bool)
	parsed := 0

	for _, f := range files {
		path := filepath.Join(root, f)

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable settings file", "path", path, "error", err)
			continue
		}

		var sf settingsFile
		if err := json.Unmarshal(data, &sf); err != nil {
			slog.Warn("skipping malformed settings file", "path", path, "error", err)
			continue
		}

		for _, perm := range sf.Permissions.Allow {
			seen[perm] = true
		}
		parsed++
	}

	merged := make([]string, 0, len(seen))
	for perm := range seen {
		merged = append(merged, perm)
	}
	slices.Sort(merged)
	return merged, parsed
}

func writeSettings(path string, allow []string) error {
	var sf settingsFile
	sf.Permissions.Allow = allow

	data, err := json.MarshalIndent(&sf, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding merged settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing merged settings: %w", err)
	}
	return nil
}
