package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/logger"
)

type stubRunner struct {
	report *contracts.RegionReport
	panics bool
	delay  time.Duration
}

func (r *stubRunner) Run(ctx context.Context) *contracts.RegionReport {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.panics {
		panic("boom")
	}
	return r.report
}

func acceptedReport(region contracts.Region) *contracts.RegionReport {
	return &contracts.RegionReport{
		Region: region,
		Kind:   contracts.ReportAccepted,
		Run:    &contracts.RegionRun{Region: region, State: contracts.StateAccepted},
	}
}

func factory(runners map[contracts.Region]RegionRunner) OrchestratorFactory {
	return func(region contracts.Region) RegionRunner {
		return runners[region]
	}
}

func TestCoordinatorEveryRegionReported(t *testing.T) {
	regions := []contracts.Region{contracts.RegionUSA, contracts.RegionUK, contracts.RegionCanada}
	runners := map[contracts.Region]RegionRunner{}
	for _, r := range regions {
		runners[r] = &stubRunner{report: acceptedReport(r)}
	}

	for _, concurrent := range []bool{false, true} {
		c := NewCoordinator(factory(runners), concurrent, logger.NewNop())
		got := c.Run(context.Background(), regions)

		require.Len(t, got, len(regions), "concurrent=%v", concurrent)
		for _, r := range regions {
			require.NotNil(t, got[r], "region %s missing (concurrent=%v)", r, concurrent)
			assert.Equal(t, r, got[r].Region)
		}
	}
}

func TestCoordinatorSkipsAfterDeadline(t *testing.T) {
	runners := map[contracts.Region]RegionRunner{
		contracts.RegionUSA: &stubRunner{report: acceptedReport(contracts.RegionUSA)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCoordinator(factory(runners), false, logger.NewNop())
	got := c.Run(ctx, []contracts.Region{contracts.RegionUSA})

	require.NotNil(t, got[contracts.RegionUSA], "a skipped region must still appear in the output")
	assert.Equal(t, contracts.ReportSkipped, got[contracts.RegionUSA].Kind)
	assert.Error(t, got[contracts.RegionUSA].Err)
	assert.Nil(t, got[contracts.RegionUSA].Run)
}

func TestCoordinatorIsolatesPanics(t *testing.T) {
	runners := map[contracts.Region]RegionRunner{
		contracts.RegionUSA: &stubRunner{panics: true},
		contracts.RegionUK:  &stubRunner{report: acceptedReport(contracts.RegionUK)},
	}

	c := NewCoordinator(factory(runners), false, logger.NewNop())
	got := c.Run(context.Background(), []contracts.Region{contracts.RegionUSA, contracts.RegionUK})

	require.NotNil(t, got[contracts.RegionUSA])
	assert.Equal(t, contracts.ReportExhausted, got[contracts.RegionUSA].Kind)
	assert.Error(t, got[contracts.RegionUSA].Err)

	require.NotNil(t, got[contracts.RegionUK])
	assert.Equal(t, contracts.ReportAccepted, got[contracts.RegionUK].Kind)
}

func TestCoordinatorConcurrentRunsComplete(t *testing.T) {
	regions := []contracts.Region{contracts.RegionUSA, contracts.RegionUK, contracts.RegionCanada, contracts.RegionAustralia}
	runners := map[contracts.Region]RegionRunner{}
	for _, r := range regions {
		runners[r] = &stubRunner{report: acceptedReport(r), delay: 50 * time.Millisecond}
	}

	c := NewCoordinator(factory(runners), true, logger.NewNop())
	start := time.Now()
	got := c.Run(context.Background(), regions)
	elapsed := time.Since(start)

	require.Len(t, got, len(regions))
	assert.Less(t, elapsed, 150*time.Millisecond, "regions should overlap, not serialize")
}
