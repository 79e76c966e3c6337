package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-advise/internal/cli"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/prompt"
	"github.com/Veraticus/the-spice-must-advise/internal/recommend"
)

const customType = "custom"

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <general|budget|investment|debt|credit|custom>",
		Short: "Generate one recommendation",
		Long: `Generate advice of one type for the configured owner.

Results are cached by the advice cache until the financial records change or
the TTL expires. Custom recommendations are never cached.

Examples:
  # Debt advice for the configured owner
  advise recommend debt

  # Custom advice with your own focus areas
  advise recommend custom --focus "saving for a house" --focus "retirement at 55"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: append(typeNames(), customType),
		RunE:      runRecommend,
	}

	cmd.Flags().StringSlice("focus", nil, "focus areas for a custom recommendation")
	cmd.Flags().String("persona", "", "advisor persona for a custom recommendation")
	cmd.Flags().String("title", "", "title for a custom recommendation")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	asJSON, err := outputJSON(cmd)
	if err != nil {
		return err
	}

	arg := strings.ToLower(strings.TrimSpace(args[0]))
	var recType model.RecommendationType
	if arg != customType {
		recType, err = model.ParseRecommendationType(arg)
		if err != nil {
			return common.NewUserError(
				fmt.Sprintf("Unknown recommendation type %q (use one of %s)", args[0], strings.Join(append(typeNames(), customType), ", ")), err)
		}
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	scope := scopeFromConfig(a.cfg)

	var resp recommend.Response
	if arg == customType {
		focus, _ := cmd.Flags().GetStringSlice("focus")
		persona, _ := cmd.Flags().GetString("persona")
		title, _ := cmd.Flags().GetString("title")
		resp = a.svc.Custom(ctx, scope, prompt.CustomOptions{
			Persona:    persona,
			Title:      title,
			FocusAreas: focus,
			Options:    promptOptions(a.cfg),
		})
	} else {
		resp = a.svc.Recommend(ctx, scope, recType)
	}

	defer printCacheStats(cmd, a)

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderResponse(resp))
	}

	if !resp.Success {
		return responseError(resp.Error, resp.Message)
	}
	return nil
}

func typeNames() []string {
	types := model.AllRecommendationTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
