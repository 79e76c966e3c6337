package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-advise/internal/cli"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the financial snapshot without asking the model",
		Long: `Aggregate the stored records into a financial snapshot and print it.
No prompt is rendered and no model is called.`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	asJSON, err := outputJSON(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newReadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.engine.Aggregate(ctx, scopeFromConfig(a.cfg))
	if err != nil {
		return fmt.Errorf("failed to aggregate records: %w", err)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), snap)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSummary(snap))
	return nil
}
