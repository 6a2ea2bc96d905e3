package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-factorygen/pkg/orchestrator"
)

func newGenerateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write factory modules for every selected app",
		Long: "generate rewrites every base factory and app index, and creates the editable " +
			"factory of a model only when it does not exist yet.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd)
		},
	}
	a.addSourceFlags(cmd)
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command) error {
	req, err := a.request()
	if err != nil {
		return err
	}
	orch, err := a.orchestrator(cmd)
	if err != nil {
		return err
	}

	result, err := orch.Generate(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to generate factories: %w", err)
	}

	a.logger.Info("run summary",
		"run", result.RunID,
		"apps", len(result.Apps),
		"files", len(result.Written()),
		"size", humanize.Bytes(uint64(result.Bytes())),
	)
	return printSummary(cmd.OutOrStdout(), result)
}

// printSummary lists the editable factory module of every generated model.
func printSummary(w io.Writer, result orchestrator.Result) error {
	if _, err := fmt.Fprintln(w, "Successfully created factories:"); err != nil {
		return err
	}
	for _, path := range result.Factories() {
		if _, err := fmt.Fprintf(w, "- %s\n", path); err != nil {
			return err
		}
	}
	return nil
}
