package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-advise/internal/cli"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/recommend"
)

func allCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Generate every recommendation type at once",
		Long: `Aggregate the records once and request general, budget, investment, debt
and credit advice concurrently. A failing type does not fail the others.`,
		Args: cobra.NoArgs,
		RunE: runAll,
	}

	cmd.Flags().Int("concurrency", 0, "maximum concurrent model requests (0 = unbounded)")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

func runAll(cmd *cobra.Command, _ []string) error {
	asJSON, err := outputJSON(cmd)
	if err != nil {
		return err
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr()).
		WithTask("Recommendation run", "Re-run with: advise all")
	ctx := interrupts.HandleInterrupts(cmd.Context(), true)
	defer interrupts.Stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []recommend.AllOption{recommend.WithConcurrency(concurrency)}
	if !noProgress {
		bar := cli.NewProgress(cmd.ErrOrStderr(), len(model.AllRecommendationTypes()), "Generating recommendations...")
		var mu sync.Mutex
		opts = append(opts, recommend.WithProgress(func(recType model.RecommendationType, _ recommend.Response) {
			mu.Lock()
			defer mu.Unlock()
			bar.Step(fmt.Sprintf("Finished %s", recType))
		}))
		defer bar.Finish()
	}

	resp := a.svc.All(ctx, scopeFromConfig(a.cfg), opts...)

	defer printCacheStats(cmd, a)

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAll(resp))
	}

	if resp.Succeeded == 0 {
		return responseError(recommend.ErrorModelUnavailable, recommend.UnavailableMessage)
	}
	return nil
}
