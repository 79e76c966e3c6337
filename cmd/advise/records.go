package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-advise/internal/cli"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/importer"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage stored financial records",
		Long:  `Import, list and clear the incomes, assets, liabilities and credit cards used for advice.`,
	}

	// Subcommands
	cmd.AddCommand(recordsImportCmd())
	cmd.AddCommand(recordsImportOFXCmd())
	cmd.AddCommand(recordsListCmd())
	cmd.AddCommand(recordsClearCmd())

	return cmd
}

func recordsImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import records from a YAML file",
		Long: `Import records from a YAML document:

  owner: alice
  incomes:
    - {source: Employer, category: salary, amount: 5000, frequency: monthly}
  assets:
    - {name: Emergency Fund, category: savings, current_value: 25000}
  liabilities:
    - {name: Car Loan, type: auto-loan, outstanding_amount: 15000, interest_rate: 6.5, monthly_payment: 350}
  credit_cards:
    - {card_name: Everyday Card, credit_limit: 10000, outstanding_balance: 2500, interest_rate: 22.9, minimum_payment: 50}

Every record is validated before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: runRecordsImport,
	}

	cmd.Flags().Bool("replace", false, "delete the owner's existing records first")

	return cmd
}

func runRecordsImport(cmd *cobra.Command, args []string) error {
	replace, _ := cmd.Flags().GetBool("replace")

	ctx := cmd.Context()
	a, err := newReadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	im := importer.New(a.store, slog.Default())
	res, err := im.ImportFile(ctx, args[0], importer.Options{Owner: a.cfg.Owner, Replace: replace})
	if err != nil {
		return common.NewUserError("Import failed", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d records for %s", res.Total(), res.Owner)))
	return nil
}

func recordsImportOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import balances from OFX/QFX statements",
		Long: `Import account balances from OFX or QFX (Quicken) files exported from your bank.
Checking and savings balances become assets; credit card statements become credit cards.
Re-importing a statement for the same account updates it in place.

Examples:
  advise records import-ofx --owner alice ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecordsImportOFX,
	}
}

func runRecordsImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newReadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Owner == "" {
		return common.NewUserError("An owner is required for OFX imports: pass --owner or set owner in the config", nil)
	}

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return common.NewUserError("No files found to import", nil)
	}

	im := importer.New(a.store, slog.Default())
	var total importer.Result
	failed := 0
	for _, path := range allFiles {
		res, err := im.ImportOFXFile(ctx, path, a.cfg.Owner)
		if err != nil {
			slog.Error("Failed to import statement", "file", filepath.Base(path), "error", err)
			failed++
			continue
		}
		slog.Info("Imported statement",
			"file", filepath.Base(path),
			"assets", res.Assets,
			"credit_cards", res.CreditCards)
		total.Assets += res.Assets
		total.CreditCards += res.CreditCards
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d accounts and %d credit cards from %d files",
		total.Assets, total.CreditCards, len(allFiles)-failed)))
	if failed > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d files could not be imported", failed)))
	}
	return nil
}

// recordListing is the JSON shape of records list.
type recordListing struct {
	Scope       string             `json:"scope"`
	Incomes     []model.Income     `json:"incomes"`
	Assets      []model.Asset      `json:"assets"`
	Liabilities []model.Liability  `json:"liabilities"`
	CreditCards []model.CreditCard `json:"credit_cards"`
}

func recordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE:  runRecordsList,
	}
}

func runRecordsList(cmd *cobra.Command, _ []string) error {
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

	scope := scopeFromConfig(a.cfg)
	listing := recordListing{Scope: scope.String()}
	if listing.Incomes, err = a.store.ListIncomes(ctx, scope); err != nil {
		return err
	}
	if listing.Assets, err = a.store.ListAssets(ctx, scope); err != nil {
		return err
	}
	if listing.Liabilities, err = a.store.ListLiabilities(ctx, scope); err != nil {
		return err
	}
	if listing.CreditCards, err = a.store.ListCreditCards(ctx, scope); err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), listing)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderListing(listing))
	return nil
}

func renderListing(l recordListing) string {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("Records for " + l.Scope))
	b.WriteString("\n")

	section := func(title string, rows []string) {
		if len(rows) == 0 {
			rows = []string{cli.SubtleStyle.Render("(none)")}
		}
		b.WriteString(cli.RenderBox(fmt.Sprintf("%s (%d)", title, len(rows)), strings.Join(rows, "\n")))
		b.WriteString("\n")
	}

	rows := make([]string, 0, len(l.Incomes))
	for _, inc := range l.Incomes {
		rows = append(rows, cli.RenderRow(inc.Source, fmt.Sprintf("%.2f %s", inc.Amount, inc.Frequency)))
	}
	section("Incomes", rows)

	rows = make([]string, 0, len(l.Assets))
	for _, as := range l.Assets {
		rows = append(rows, cli.RenderRow(as.Name, fmt.Sprintf("%.2f (%s)", as.CurrentValue, as.Category)))
	}
	section("Assets", rows)

	rows = make([]string, 0, len(l.Liabilities))
	for _, li := range l.Liabilities {
		rows = append(rows, cli.RenderRow(li.Name, fmt.Sprintf("%.2f at %.2f%% (%s)", li.OutstandingAmount, li.InterestRate, li.Type)))
	}
	section("Liabilities", rows)

	rows = make([]string, 0, len(l.CreditCards))
	for _, cc := range l.CreditCards {
		rows = append(rows, cli.RenderRow(cc.CardName, fmt.Sprintf("%.2f of %.2f", cc.OutstandingBalance, cc.CreditLimit)))
	}
	section("Credit Cards", rows)

	return strings.TrimRight(b.String(), "\n")
}

func recordsClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record of the owner",
		Args:  cobra.NoArgs,
		RunE:  runRecordsClear,
	}

	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	return cmd
}

func runRecordsClear(cmd *cobra.Command, _ []string) error {
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	ctx := cmd.Context()
	a, err := newReadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Owner == "" {
		return common.NewUserError("An owner is required: pass --owner or set owner in the config", nil)
	}

	if !skipConfirm {
		reader := cli.NewAnswerReader(cmd.InOrStdin())
		ok, err := cli.Confirm(ctx, reader, cmd.OutOrStdout(), fmt.Sprintf("Delete all records for %s?", a.cfg.Owner), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
			return nil
		}
	}

	if err := a.store.DeleteOwnerRecords(ctx, a.cfg.Owner); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted all records for "+a.cfg.Owner))
	return nil
}
