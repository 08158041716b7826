package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	regionsFlag  []string
)

// rootCmd represents the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Micro-cap deep value discovery pipeline",
	Long: `Scout discovers, scores and filters micro-cap equity candidates
across regions, hands survivors to the analyst for a memo, and mails
the daily digest.

Usage:
  go run ./cmd/scout [command]

Examples:
  go run ./cmd/scout run
  go run ./cmd/scout run --regions USA,UK
  go run ./cmd/scout check ACME --region USA
  go run ./cmd/scout schedule
  go run ./cmd/scout ledger list
  go run ./cmd/scout portfolio`,
}

// Execute runs the root command; called by main.main()
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default from STRATEGY_FILE)")
	rootCmd.PersistentFlags().StringSliceVar(&regionsFlag, "regions", nil, "regions to run (default from SCOUT_REGIONS)")
}
