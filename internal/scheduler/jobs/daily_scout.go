// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/logger"
)

// RunFunc executes one full discovery cycle across the given regions
type RunFunc func(ctx context.Context, regions []contracts.Region) map[contracts.Region]*contracts.RegionReport

// DailyScout runs the discovery cycle once per trading day. The run
// deadline bounds the cycle; regions not started in time are reported
// as skipped by the coordinator, never dropped.
type DailyScout struct {
	run      RunFunc
	regions  []contracts.Region
	deadline time.Duration
	schedule string
	logger   *logger.Logger
}

// NewDailyScout creates the daily job. An empty schedule defaults to
// a 06:30 UTC run, ahead of the US open.
func NewDailyScout(run RunFunc, regions []contracts.Region, deadline time.Duration, schedule string, log *logger.Logger) *DailyScout {
	if schedule == "" {
		schedule = "0 30 6 * * *"
	}
	return &DailyScout{
		run:      run,
		regions:  regions,
		deadline: deadline,
		schedule: schedule,
		logger:   log,
	}
}

func (j *DailyScout) Name() string     { return "daily_scout" }
func (j *DailyScout) Schedule() string { return j.schedule }

// Run executes the cycle under the wall-clock deadline and fails only
// when every region failed, so the scheduler's retry does not re-run
// a day that produced at least one report worth reading.
func (j *DailyScout) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.deadline)
	defer cancel()

	reports := j.run(ctx, j.regions)

	failed := 0
	for region, report := range reports {
		j.logger.WithFields(map[string]interface{}{
			"region": string(region),
			"kind":   string(report.Kind),
		}).Info("Region outcome")
		if report.Kind == contracts.ReportSkipped && report.Err != nil {
			failed++
		}
	}

	if len(reports) > 0 && failed == len(reports) {
		return fmt.Errorf("daily scout: all %d regions skipped", failed)
	}
	return nil
}
