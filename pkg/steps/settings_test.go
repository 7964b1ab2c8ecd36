package steps

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/systemstart/bootstrap/pkg/api"
)

func TestSettingsStep_MergesAllowLists(t *testing.T) {
	ctx := testContext(t, &spyRunner{})
	root := ctx.WorkDir
	writeTestFile(t, root, "proj-a/.claude/settings.local.json",
		`{"permissions": {"allow": ["Bash(git status)", "Read(**)"]}}`)
	writeTestFile(t, root, "proj-b/.claude/settings.local.json",
		`{"permissions": {"allow": ["Bash(git status)", "Bash(npm test)"]}}`)

	output := filepath.Join(t.TempDir(), "settings.local.json")

	step := NewSettingsStep("merge-settings", &api.SettingsConfig{
		Root:   ".",
		Output: output,
	})

	outcome, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", outcome.Status)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var merged settingsFile
	if err := json.Unmarshal(data, &merged); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	want := []string{"Bash(git status)", "Bash(npm test)", "Read(**)"}
	if !slices.Equal(merged.Permissions.Allow, want) {
		t.Errorf("merged allow = %v, want %v", merged.Permissions.Allow, want)
	}
}

func TestSettingsStep_SkipsMalformedFiles(t *testing.T) {
	ctx := testContext(t, &spyRunner{})
	root := ctx.WorkDir
	writeTestFile(t, root, "good/.claude/settings.local.json",
		`{"permissions": {"allow": ["Read(**)"]}}`)
	writeTestFile(t, root, "bad/.claude/settings.local.json", `{broken`)

	output := filepath.Join(t.TempDir(), "settings.local.json")

	step := NewSettingsStep("merge-settings", &api.SettingsConfig{Root: ".", Output: output})

	outcome, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", outcome.Status)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var merged settingsFile
	if err := json.Unmarshal(data, &merged); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(merged.Permissions.Allow, []string{"Read(**)"}) {
		t.Errorf("merged allow = %v", merged.Permissions.Allow)
	}
}

func TestSettingsStep_NoFilesSkips(t *testing.T) {
	ctx := testContext(t, &spyRunner{})

	step := NewSettingsStep("merge-settings", &api.SettingsConfig{
		Root:   ".",
		Output: filepath.Join(t.TempDir(), "settings.local.json"),
	})

	outcome, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusSkipped {
		t.Fatalf("expected skipped, got %s", outcome.Status)
	}
}

func TestSettingsStep_CustomPattern(t *testing.T) {
	ctx := testContext(t, &spyRunner{})
	root := ctx.WorkDir
	writeTestFile(t, root, "a/custom.json", `{"permissions": {"allow": ["Bash(ls)"]}}`)

	output := filepath.Join(t.TempDir(), "out.json")

	step := NewSettingsStep("merge-settings", &api.SettingsConfig{
		Root:    ".",
		Pattern: "**/custom.json",
		Output:  output,
	})

	outcome, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", outcome.Status)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}
