package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/logger"
)

// OrchestratorFactory builds a region's orchestrator. Injected so the
// coordinator can be tested against stub orchestrators.
type OrchestratorFactory func(region contracts.Region) RegionRunner

// RegionRunner is the coordinator's view of one region's orchestrator
type RegionRunner interface {
	Run(ctx context.Context) *contracts.RegionReport
}

// Coordinator fans the orchestrator out across the configured regions
// and aggregates terminal outcomes. Every requested region appears in
// the result exactly once: terminal, failed or skipped, never absent.
type Coordinator struct {
	factory    OrchestratorFactory
	concurrent bool
	logger     *logger.Logger
}

// NewCoordinator creates a run coordinator
func NewCoordinator(factory OrchestratorFactory, concurrent bool, log *logger.Logger) *Coordinator {
	return &Coordinator{factory: factory, concurrent: concurrent, logger: log}
}

// Run executes the regions to completion, honoring the deadline on
// ctx: a region not yet started when the deadline passes is reported
// as skipped. A started region always runs to its terminal state.
func (c *Coordinator) Run(ctx context.Context, regions []contracts.Region) map[contracts.Region]*contracts.RegionReport {
	reports := make(map[contracts.Region]*contracts.RegionReport, len(regions))

	if !c.concurrent {
		for _, region := range regions {
			reports[region] = c.runRegion(ctx, region)
		}
		return reports
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, region := range regions {
		wg.Add(1)
		go func(region contracts.Region) {
			defer wg.Done()
			report := c.runRegion(ctx, region)
			mu.Lock()
			reports[region] = report
			mu.Unlock()
		}(region)
	}
	wg.Wait()

	return reports
}

// runRegion runs one region with skip and panic isolation. A panic in
// a region's orchestrator must not take down the other regions' runs.
func (c *Coordinator) runRegion(ctx context.Context, region contracts.Region) (report *contracts.RegionReport) {
	if err := ctx.Err(); err != nil {
		c.logger.WithField("region", string(region)).Warn("Run deadline passed, skipping region")
		return &contracts.RegionReport{
			Region: region,
			Kind:   contracts.ReportSkipped,
			Err:    fmt.Errorf("region %s skipped: %w", region, err),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(map[string]interface{}{
				"region": string(region),
				"panic":  fmt.Sprint(r),
			}).Error("Region orchestrator panicked")
			report = &contracts.RegionReport{
				Region: region,
				Kind:   contracts.ReportExhausted,
				Err:    fmt.Errorf("region %s orchestrator panic: %v", region, r),
			}
		}
	}()

	return c.factory(region).Run(ctx)
}
