package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/systemstart/bootstrap/pkg/credentials"
	"github.com/systemstart/bootstrap/pkg/provision"
	"github.com/systemstart/bootstrap/pkg/registry"
)

var (
	onlyPatterns []string
	stepTimeout  time.Duration
	dryRun       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the provisioning steps",
	Long: `Run executes every configured step in manifest order. A failed step
does not stop the run; the exit code is non-zero when any required step
failed.`,
	RunE: runSteps,
}

func init() {
	runCmd.Flags().StringSliceVar(&onlyPatterns, "only", nil,
		"run only steps matching these group/name patterns (e.g. --only mcp)")
	runCmd.Flags().DurationVar(&stepTimeout, "timeout", 0,
		"per-step timeout (0 = wait forever)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"evaluate step conditions and print the plan without running anything")
	rootCmd.AddCommand(runCmd)
}

func runSteps(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	manifest, err := registry.Load(configFile, workDir)
	if err != nil {
		return err
	}
	slog.Info("loaded manifest", "path", manifest.FilePath, "steps", len(manifest.Steps))

	selected, err := registry.Select(manifest, onlyPatterns)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		slog.Warn("no steps selected", "only", onlyPatterns)
		return nil
	}

	creds := credentials.NewResolver(os.LookupEnv, envFile)
	if err := creds.Check(); err != nil {
		return err
	}

	data, err := templateData(manifest.Context)
	if err != nil {
		return err
	}

	reporter := provision.NewReporter(cmd.OutOrStdout())
	engine := provision.NewEngine(provision.Config{
		WorkDir:      workDir,
		TemplateData: data,
		Credentials:  creds,
		StepTimeout:  stepTimeout,
		Reporter:     reporter,
	})

	if dryRun {
		entries, err := engine.Plan(cmd.Context(), selected)
		if err != nil {
			return err
		}
		reporter.PlanSummary(entries)
		return nil
	}

	results, runErr := engine.Run(cmd.Context(), selected)
	reporter.Summary(results)

	if runErr != nil {
		return &stepFailureError{err: runErr}
	}
	return nil
}

func templateData(manifestContext map[string]any) (map[string]any, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}

	base := map[string]any{
		"Home": home,
		"OS":   runtime.GOOS,
		"Arch": runtime.GOARCH,
	}
	return registry.MergeContext(base, manifestContext), nil
}
