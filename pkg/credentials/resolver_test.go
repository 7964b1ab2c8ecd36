package credentials

import (
	"os"
	"path/filepath"
	"testing"
)

func envWith(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeCredFile(t *testing.T, content string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(f, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestResolve_EnvironmentPrecedence(t *testing.T) {
	f := writeCredFile(t, "GITHUB_PAT=from-file\n")
	r := NewResolver(envWith(map[string]string{"GITHUB_PAT": "from-env"}), f)

	v, ok, err := r.Resolve("GITHUB_PAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "from-env" {
		t.Fatalf("expected from-env, got %q (ok=%v)", v, ok)
	}
}

func TestResolve_FileFallback(t *testing.T) {
	f := writeCredFile(t, "# local credentials\nGITHUB_PAT=abc123\n")
	r := NewResolver(envWith(nil), f)

	v, ok, err := r.Resolve("GITHUB_PAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "abc123" {
		t.Fatalf("expected abc123, got %q (ok=%v)", v, ok)
	}
}

func TestResolve_AbsentEverywhere(t *testing.T) {
	f := writeCredFile(t, "OTHER_KEY=value\n")
	r := NewResolver(envWith(nil), f)

	_, ok, err := r.Resolve("GITHUB_PAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected credential to be absent")
	}
}

func TestResolve_EmptyEnvValueFallsThrough(t *testing.T) {
	f := writeCredFile(t, "GITHUB_PAT=abc123\n")
	r := NewResolver(envWith(map[string]string{"GITHUB_PAT": ""}), f)

	v, ok, err := r.Resolve("GITHUB_PAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "abc123" {
		t.Fatalf("expected file value, got %q (ok=%v)", v, ok)
	}
}

func TestResolve_NoFileConfigured(t *testing.T) {
	r := NewResolver(envWith(nil), "")

	_, ok, err := r.Resolve("GITHUB_PAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected credential to be absent")
	}
}

func TestResolve_MissingFileIsNotAnError(t *testing.T) {
	r := NewResolver(envWith(nil), filepath.Join(t.TempDir(), "nope.env"))

	_, ok, err := r.Resolve("GITHUB_PAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected credential to be absent")
	}
}

func TestCheck_MalformedFile(t *testing.T) {
	f := writeCredFile(t, "this is not a key value pair\n")
	r := NewResolver(envWith(nil), f)

	if err := r.Check(); err == nil {
		t.Fatal("expected error for malformed credential file")
	}
}

func TestCheck_MissingFileOK(t *testing.T) {
	r := NewResolver(envWith(nil), filepath.Join(t.TempDir(), "nope.env"))
	if err := r.Check(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
