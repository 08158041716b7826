package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// portfolioCmd prints the paper-trade track record
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the paper-trade track record with live returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := buildApp()
		if err != nil {
			return err
		}
		defer closeApp()

		summary, err := app.tracker.Evaluate(cmd.Context())
		if err != nil {
			return err
		}
		if len(summary.Positions) == 0 {
			fmt.Println("portfolio is empty, no picks tracked yet")
			return nil
		}

		fmt.Printf("%-10s %-4s %-12s %10s %10s %8s\n",
			"TICKER", "RGN", "ENTERED", "ENTRY", "CURRENT", "RETURN")
		for _, p := range summary.Positions {
			if !p.Priced {
				fmt.Printf("%-10s %-4s %-12s %10.2f %10s %8s\n",
					p.Ticker, p.Region, p.EnteredAt.Format("2006-01-02"), p.EntryPrice, "-", "-")
				continue
			}
			fmt.Printf("%-10s %-4s %-12s %10.2f %10.2f %+7.2f%%\n",
				p.Ticker, p.Region, p.EnteredAt.Format("2006-01-02"), p.EntryPrice, p.CurrentPrice, p.ReturnPct)
		}

		if summary.Priced > 0 {
			fmt.Printf("\n%d positions priced, %d winners, average return %+.2f%%\n",
				summary.Priced, summary.Winners, summary.TotalPct/float64(summary.Priced))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}
