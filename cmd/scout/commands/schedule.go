package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/scheduler"
	"github.com/primogreedy/scout/internal/scheduler/jobs"
)

var cronSchedule string

// scheduleCmd runs the daily cycle on a cron cadence until signalled
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the discovery cycle daily on a cron schedule",
	Long: `Starts a long-lived process that runs one discovery cycle per day.
The run deadline bounds each cycle; regions that do not start in time
are reported as skipped in that day's digest.

Example:
  go run ./cmd/scout schedule
  go run ./cmd/scout schedule --cron "0 0 7 * * 1-5"`,
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

		job := jobs.NewDailyScout(
			func(ctx context.Context, regions []contracts.Region) map[contracts.Region]*contracts.RegionReport {
				return app.runCycle(ctx, regions)
			},
			regions, app.cfg.RunDeadline, cronSchedule, app.log)

		sched := scheduler.New(app.log)
		if err := sched.AddJob(job); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		app.log.Info("Shutdown signal received")
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&cronSchedule, "cron", "", "cron expression with seconds (default daily 06:30 UTC)")
	rootCmd.AddCommand(scheduleCmd)
}
