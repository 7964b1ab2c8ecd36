package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandSpec describes one sub-process invocation. Env entries are
// appended to the inherited environment.
type CommandSpec struct {
	Program string
	Args    []string
	Dir     string
	Env     []string
}

// Runner executes an external command and returns its captured output
// and exit code. The output is opaque: it is recorded for reporting and
// never parsed.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec) (output string, exitCode int, err error)
}

// ExecRunner runs commands with os/exec, blocking until the sub-process
// exits. Stdout and stderr are captured into a single buffer.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, spec CommandSpec) (string, int, error) {
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := strings.TrimRight(buf.String(), "\n")

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, exitErr.ExitCode(), fmt.Errorf("%s exited with status %d", spec.Program, exitErr.ExitCode())
		}
		return output, -1, fmt.Errorf("starting %s: %w", spec.Program, err)
	}
	return output, 0, nil
}
