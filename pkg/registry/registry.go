// Package registry holds the canonical ordered list of provisioning
// steps and selects subsets of it for a run.
package registry

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/bootstrap/pkg/api"
)

// DefaultManifestName is the manifest file picked up from the working
// directory when --config is not given.
const DefaultManifestName = "bootstrap.yaml"

// BuiltinPath marks a manifest that came from the embedded default.
const BuiltinPath = "<built-in>"

//go:embed bootstrap.yaml
var builtinManifest []byte

// Load returns the manifest at path if given, a bootstrap.yaml in
// workDir if present, or the built-in default.
func Load(path, workDir string) (*api.Manifest, error) {
	if path != "" {
		return api.LoadManifest(path)
	}

	local := filepath.Join(workDir, DefaultManifestName)
	if _, err := os.Stat(local); err == nil {
		return api.LoadManifest(local)
	}

	m, err := api.ParseManifest(builtinManifest)
	if err != nil {
		return nil, fmt.Errorf("built-in manifest: %w", err)
	}
	m.FilePath = BuiltinPath
	return m, nil
}

// Select filters steps by doublestar patterns matched against the step
// path (group/name) or the bare group. An empty selector keeps every
// step. Order is preserved; selection never reorders.
func Select(m *api.Manifest, only []string) ([]api.StepConfig, error) {
	if len(only) == 0 {
		return m.Steps, nil
	}

	for _, pattern := range only {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid selector pattern %q", pattern)
		}
	}

	var selected []api.StepConfig
	for _, step := range m.Steps {
		if matchesAny(step, only) {
			selected = append(selected, step)
		}
	}
	return selected, nil
}

func matchesAny(step api.StepConfig, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, step.Path()); ok {
			return true
		}
		if step.Group != "" {
			if ok, _ := doublestar.Match(pattern, step.Group); ok {
				return true
			}
		}
	}
	return false
}

// MergeContext performs a shallow merge of manifest context over the
// base run data. Manifest keys override base keys at the top level.
func MergeContext(base, manifest map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(manifest))
	maps.Copy(merged, base)
	maps.Copy(merged, manifest)
	return merged
}
