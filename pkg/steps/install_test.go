package steps

import (
	"fmt"
	"testing"

	"github.com/systemstart/bootstrap/pkg/api"
)

func TestInstallStep_AlreadyInstalled(t *testing.T) {
	spy := &spyRunner{}
	ctx := testContext(t, spy)
	ctx.LookPath = func(name string) (string, error) {
		if name == "pnpm" {
			return "/usr/local/bin/pnpm", nil
		}
		return "", fmt.Errorf("%s not found", name)
	}

	step := NewInstallStep("install-pnpm", &api.InstallConfig{
		Program:     "pixi",
		Args:        []string{"global", "install", "pnpm"},
		CheckBinary: "pnpm",
	})

	outcome, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusSkipped {
		t.Fatalf("expected skipped, got %s", outcome.Status)
	}
	if len(spy.calls) != 0 {
		t.Fatalf("installer must not run when binary is present, got %d calls", len(spy.calls))
	}
}

func TestInstallStep_Installs(t *testing.T) {
	spy := &spyRunner{}
	ctx := testContext(t, spy)

	step := NewInstallStep("install-pnpm", &api.InstallConfig{
		Program:     "pixi",
		Args:        []string{"global", "install", "pnpm"},
		CheckBinary: "pnpm",
	})

	outcome, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", outcome.Status)
	}
	if len(spy.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(spy.calls))
	}
}

func TestInstallStep_Reapply(t *testing.T) {
	// After a successful install the binary is on PATH; rerunning the same
	// step must skip instead of reinstalling.
	spy := &spyRunner{}
	ctx := testContext(t, spy)

	installed := false
	spy.run = func(spec CommandSpec) (string, int, error) {
		installed = true
		return "", 0, nil
	}
	ctx.LookPath = func(name string) (string, error) {
		if installed && name == "bun" {
			return "/home/dev/.bun/bin/bun", nil
		}
		return "", fmt.Errorf("%s not found", name)
	}

	step := NewInstallStep("install-bun", &api.InstallConfig{
		Program:     "npm",
		Args:        []string{"install", "-g", "bun"},
		CheckBinary: "bun",
	})

	first, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := step.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Status != StatusSuccess || second.Status != StatusSkipped {
		t.Fatalf("expected success then skipped, got %s then %s", first.Status, second.Status)
	}
	if len(spy.calls) != 1 {
		t.Fatalf("installer must run exactly once, got %d calls", len(spy.calls))
	}
}

func TestInstallStep_InstallerFails(t *testing.T) {
	spy := &spyRunner{run: func(spec CommandSpec) (string, int, error) {
		return "E404 not found", 1, fmt.Errorf("%s exited with status 1", spec.Program)
	}}
	ctx := testContext(t, spy)

	step := NewInstallStep("install-bun", &api.InstallConfig{Program: "npm", Args: []string{"install", "-g", "bun"}})

	outcome, err := step.Run(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if outcome.Status != StatusFailed || outcome.ExitCode != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}
