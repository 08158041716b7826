package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/primogreedy/scout/internal/contracts"
)

var checkRegion string

// checkCmd evaluates a single ticker on demand, bypassing discovery
var checkCmd = &cobra.Command{
	Use:   "check <ticker>",
	Short: "Run one ticker through scoring, the gatekeeper and the analyst",
	Long: `Resolves the ticker's fundamentals and feeds it straight into the
gatekeeper, skipping pool building and ranking. A pass gets a memo
and a ledger entry, a reject prints the reasons.

Example:
  go run ./cmd/scout check ACME --region USA
  go run ./cmd/scout check SDI --region UK`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, ok := contracts.ParseRegion(checkRegion)
		if !ok {
			return fmt.Errorf("unknown region %q", checkRegion)
		}

		app, closeApp, err := buildApp()
		if err != nil {
			return err
		}
		defer closeApp()

		candidate, err := app.yahoo.Resolve(cmd.Context(), args[0], region)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", args[0], err)
		}

		report := app.newOrchestrator(region).CheckTicker(cmd.Context(), *candidate)
		fmt.Print(app.formatter.Format(map[contracts.Region]*contracts.RegionReport{region: report}))
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkRegion, "region", "USA", "market region of the ticker")
	rootCmd.AddCommand(checkCmd)
}
