package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/systemstart/bootstrap/pkg/api"
	"github.com/systemstart/bootstrap/pkg/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured provisioning steps",
	RunE:  listSteps,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listSteps(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	manifest, err := registry.Load(configFile, workDir)
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"STEP", "GROUP", "KIND", "OPTIONAL", "CONDITION"})

	for _, step := range manifest.Steps {
		tw.AppendRow(table.Row{
			step.Name,
			step.Group,
			step.Kind,
			step.Optional,
			conditionSummary(step.Condition),
		})
	}
	tw.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "%d step(s) from %s\n", len(manifest.Steps), manifest.FilePath)
	return nil
}

func conditionSummary(c *api.ConditionConfig) string {
	if c == nil {
		return ""
	}

	var clauses []string
	if c.Credential != "" {
		clauses = append(clauses, "credential "+c.Credential)
	}
	if c.Env != "" {
		clauses = append(clauses, "env "+c.Env)
	}
	if c.BinaryPresent != "" {
		clauses = append(clauses, c.BinaryPresent+" on PATH")
	}
	if c.BinaryAbsent != "" {
		clauses = append(clauses, c.BinaryAbsent+" not on PATH")
	}
	return strings.Join(clauses, ", ")
}
