// Package scheduler runs the daily discovery cycle on a cron cadence.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/primogreedy/scout/pkg/logger"
)

// Job is a schedulable unit of work
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression, e.g. "0 30 6 * * *"
	Schedule() string
}

// JobResult records one execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Scheduler manages scheduled jobs. Failed runs are retried a few
// times with a fixed delay before the cycle is given up until the
// next scheduled trigger.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	history map[string][]JobResult
	mu      sync.RWMutex

	maxRetries int
	retryDelay time.Duration
}

const historyLimit = 100

// New creates a scheduler
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log,
		jobs:       make(map[string]Job),
		history:    make(map[string][]JobResult),
		maxRetries: 2,
		retryDelay: 1 * time.Minute,
	}
}

// AddJob registers a job on its cron schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	if _, err := s.cron.AddFunc(job.Schedule(), func() { s.runJob(job) }); err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	s.jobs[name] = job

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")
	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunJob triggers a job immediately, outside its schedule
func (s *Scheduler) RunJob(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	go s.runJob(job)
	return nil
}

// History returns the recorded results for a job, oldest first
func (s *Scheduler) History(name string) []JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]JobResult, len(s.history[name]))
	copy(out, s.history[name])
	return out
}

func (s *Scheduler) runJob(job Job) {
	name := job.Name()
	start := time.Now()
	s.logger.WithField("job", name).Info("Job started")

	var lastErr error
	success := false
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := job.Run(context.Background()); err == nil {
			success = true
			break
		} else {
			lastErr = err
		}

		s.logger.WithFields(map[string]interface{}{
			"job":     name,
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		}).Warn("Job execution failed, retrying")

		if attempt < s.maxRetries {
			time.Sleep(s.retryDelay)
		}
	}

	result := JobResult{
		JobName:   name,
		StartTime: start,
		Duration:  time.Since(start),
		Success:   success,
	}
	if !success && lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	s.history[name] = append(s.history[name], result)
	if len(s.history[name]) > historyLimit {
		s.history[name] = s.history[name][len(s.history[name])-historyLimit:]
	}
	s.mu.Unlock()

	if success {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
		}).Info("Job completed successfully")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
			"error":    result.Error,
		}).Error("Job failed after all retries")
	}
}
