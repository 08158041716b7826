package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primogreedy/scout/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	failures int
	calls    int
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(ctx context.Context) error {
	j.calls++
	if j.calls <= j.failures {
		return errors.New("feed down")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	s := New(logger.NewNop())
	s.retryDelay = 0
	return s
}

func TestAddJobRejectsDuplicateName(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&stubJob{name: "daily", schedule: "0 30 6 * * *"}))
	err := s.AddJob(&stubJob{name: "daily", schedule: "0 0 12 * * *"})
	assert.Error(t, err)
}

func TestAddJobRejectsBadCronExpression(t *testing.T) {
	s := newTestScheduler()

	err := s.AddJob(&stubJob{name: "daily", schedule: "not a schedule"})
	assert.Error(t, err)
}

func TestRunJobUnknownName(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.RunJob("missing"))
}

func TestRunJobRecordsSuccess(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "daily", schedule: "0 30 6 * * *"}

	s.runJob(job)

	history := s.History("daily")
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Empty(t, history[0].Error)
	assert.Equal(t, 1, job.calls)
}

func TestRunJobRetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "daily", schedule: "0 30 6 * * *", failures: 2}

	s.runJob(job)

	history := s.History("daily")
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, 3, job.calls)
}

func TestRunJobGivesUpAfterRetries(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "daily", schedule: "0 30 6 * * *", failures: 10}

	s.runJob(job)

	history := s.History("daily")
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, "feed down", history[0].Error)
	assert.Equal(t, s.maxRetries+1, job.calls)
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "daily", schedule: "0 30 6 * * *"}
	s.runJob(job)

	first := s.History("daily")
	first[0].JobName = "mutated"
	assert.Equal(t, "daily", s.History("daily")[0].JobName)
}
