package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// spyRunner records every invocation and answers with a canned response
// or a custom run func.
type spyRunner struct {
	calls []CommandSpec
	run   func(spec CommandSpec) (string, int, error)
}

func (s *spyRunner) Run(_ context.Context, spec CommandSpec) (string, int, error) {
	s.calls = append(s.calls, spec)
	if s.run != nil {
		return s.run(spec)
	}
	return "", 0, nil
}

// stubCredentials resolves from a fixed map; empty values count as absent.
type stubCredentials map[string]string

func (c stubCredentials) Resolve(key string) (string, bool, error) {
	v, ok := c[key]
	return v, ok && v != "", nil
}

// testContext builds a StepContext wired to the given spy with nothing
// on PATH and an empty environment.
func testContext(t *testing.T, runner *spyRunner) StepContext {
	t.Helper()
	return StepContext{
		Context:      context.Background(),
		WorkDir:      t.TempDir(),
		TemplateData: map[string]any{},
		Credentials:  stubCredentials{},
		Runner:       runner,
		LookupEnv:    func(string) (string, bool) { return "", false },
		LookPath:     func(name string) (string, error) { return "", fmt.Errorf("%s not found", name) },
	}
}

// writeTestFile writes content to a file in dir, failing the test on error.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
