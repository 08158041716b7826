package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// ledgerCmd groups the seen-ticker ledger operations
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and maintain the seen-ticker ledger",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickers inside the exclusion window",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := buildApp()
		if err != nil {
			return err
		}
		defer closeApp()

		if app.ledgerRepo == nil {
			return fmt.Errorf("ledger list needs a configured database")
		}

		entries, err := app.ledgerRepo.List(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("ledger is empty")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-10s %-4s seen %s\n", e.Ticker, e.Region, e.SeenAt.Format("2006-01-02"))
		}
		return nil
	},
}

var ledgerPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete entries past the exclusion window",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := buildApp()
		if err != nil {
			return err
		}
		defer closeApp()

		dropped, err := app.store.Prune(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("pruned %d expired entries\n", dropped)
		return nil
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerPruneCmd)
	rootCmd.AddCommand(ledgerCmd)
}
