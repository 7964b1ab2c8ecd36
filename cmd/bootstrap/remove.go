package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systemstart/bootstrap/pkg/api"
	"github.com/systemstart/bootstrap/pkg/credentials"
	"github.com/systemstart/bootstrap/pkg/registry"
	"github.com/systemstart/bootstrap/pkg/steps"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the files installed by the files steps",
	Long: `Remove deletes every file a files step would install: files in the
destination whose relative path matches a file the source provides.
Files the manifest does not know about are left alone.`,
	RunE: removeFiles,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func removeFiles(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	manifest, err := registry.Load(configFile, workDir)
	if err != nil {
		return err
	}

	creds := credentials.NewResolver(os.LookupEnv, envFile)
	if err := creds.Check(); err != nil {
		return err
	}

	data, err := templateData(manifest.Context)
	if err != nil {
		return err
	}

	sctx := steps.StepContext{
		Context:      cmd.Context(),
		WorkDir:      workDir,
		TemplateData: data,
		Credentials:  creds,
	}

	removed, missing := 0, 0
	for _, step := range manifest.Steps {
		if step.Kind != api.StepKindFiles {
			continue
		}
		r, m, err := steps.RemoveInstalledFiles(sctx, step.Name, step.Files)
		if err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
		removed += r
		missing += m
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %d file(s), %d already absent\n", removed, missing)
	return nil
}
