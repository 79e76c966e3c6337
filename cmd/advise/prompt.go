package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-advise/internal/cli"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/prompt"
)

func promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt <general|budget|investment|debt|credit|custom>",
		Short: "Render the prompt that would be sent to the model",
		Long: `Aggregate the records and render the prompt for a recommendation type
without calling the model. Useful for checking what data the model sees.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: append(typeNames(), customType),
		RunE:      runPrompt,
	}

	cmd.Flags().StringSlice("focus", nil, "focus areas for a custom prompt")
	cmd.Flags().String("persona", "", "advisor persona for a custom prompt")
	cmd.Flags().String("title", "", "title for a custom prompt")
	cmd.Flags().Bool("stats", false, "print size statistics after the prompt")

	return cmd
}

func runPrompt(cmd *cobra.Command, args []string) error {
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

	arg := strings.ToLower(strings.TrimSpace(args[0]))
	var p *prompt.Prompt
	if arg == customType {
		focus, _ := cmd.Flags().GetStringSlice("focus")
		persona, _ := cmd.Flags().GetString("persona")
		title, _ := cmd.Flags().GetString("title")
		p, err = a.prompts.BuildCustom(snap, prompt.CustomOptions{
			Persona:    persona,
			Title:      title,
			FocusAreas: focus,
			Options:    promptOptions(a.cfg),
		})
	} else {
		recType, parseErr := model.ParseRecommendationType(arg)
		if parseErr != nil {
			return common.NewUserError(fmt.Sprintf("Unknown recommendation type %q", args[0]), parseErr)
		}
		p, err = a.prompts.Build(recType, snap, promptOptions(a.cfg))
	}
	if err != nil {
		return common.NewUserError("Prompt could not be built", err)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), p)
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.Text)
	for _, w := range p.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(w))
	}
	if show, _ := cmd.Flags().GetBool("stats"); show {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(fmt.Sprintf("%d characters, ~%d tokens, %d lines",
			p.Stats.Characters, p.Stats.EstimatedTokens, p.Stats.LineCount)))
	}
	return nil
}
