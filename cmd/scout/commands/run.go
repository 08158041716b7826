package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// runCmd executes one full discovery cycle and prints the digest
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one discovery cycle across the configured regions",
	Long: `Builds the candidate pool per region, scores and ranks it, walks the
ranked queue through the gatekeeper, writes a memo for each accepted
pick and prints the digest. With email configured the digest is also
delivered.

Example:
  go run ./cmd/scout run
  go run ./cmd/scout run --regions USA,UK`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := buildApp()
		if err != nil {
			return err
		}
		defer closeApp()

		regions, err := app.regions()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.RunDeadline)
		defer cancel()

		reports := app.runCycle(ctx, regions)
		fmt.Print(app.formatter.Format(reports))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
