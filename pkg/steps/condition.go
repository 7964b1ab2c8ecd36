package steps

import (
	"fmt"

	"github.com/systemstart/bootstrap/pkg/api"
)

// EvalCondition reports whether a step should run. A false result
// carries the reason for the skip. A missing credential or environment
// variable is a skip, never an error.
func EvalCondition(cfg *api.ConditionConfig, ctx StepContext) (bool, string, error) {
	if cfg == nil {
		return true, "", nil
	}

	if cfg.Credential != "" {
		_, ok, err := ctx.Credentials.Resolve(cfg.Credential)
		if err != nil {
			return false, "", fmt.Errorf("resolving credential %q: %w", cfg.Credential, err)
		}
		if !ok {
			return false, fmt.Sprintf("credential %s is not configured", cfg.Credential), nil
		}
	}

	if cfg.Env != "" {
		if v, ok := ctx.LookupEnv(cfg.Env); !ok || v == "" {
			return false, fmt.Sprintf("environment variable %s is not set", cfg.Env), nil
		}
	}

	if cfg.BinaryPresent != "" {
		if _, err := ctx.LookPath(cfg.BinaryPresent); err != nil {
			return false, fmt.Sprintf("%s is not on PATH", cfg.BinaryPresent), nil
		}
	}

	if cfg.BinaryAbsent != "" {
		if _, err := ctx.LookPath(cfg.BinaryAbsent); err == nil {
			return false, fmt.Sprintf("%s is already on PATH", cfg.BinaryAbsent), nil
		}
	}

	return true, "", nil
}
