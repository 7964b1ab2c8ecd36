package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/systemstart/bootstrap/pkg/logging"
)

// Exit codes for the bootstrap CLI.
const (
	exitOK = iota
	exitConfigurationError
	exitStepFailures
)

var (
	configFile  string
	envFile     string
	loggingType string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Provision developer tooling and agent integrations",
	Long: `bootstrap provisions a development environment from a declarative
step manifest: it installs CLI tooling through package managers, copies
agent command files into place, and registers MCP servers with an AI
coding agent CLI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(loggingType, logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"step manifest (default: ./bootstrap.yaml, then the built-in manifest)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"credential file in KEY=VALUE format")
	rootCmd.PersistentFlags().StringVar(&loggingType, "logging-type", logging.DefaultType,
		"logging type: json, text or tint")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel,
		"logging level: debug, info, warn, error")
}

// stepFailureError marks run errors caused by failed steps rather than
// bad configuration, so the two get distinct exit codes.
type stepFailureError struct {
	err error
}

func (e *stepFailureError) Error() string { return e.err.Error() }
func (e *stepFailureError) Unwrap() error { return e.err }

func execute() int {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`{{printf "bootstrap version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	var sfe *stepFailureError
	if errors.As(err, &sfe) {
		return exitStepFailures
	}
	return exitConfigurationError
}
