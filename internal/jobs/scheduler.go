// Package jobs runs the API's background maintenance on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/straye-as/chirps-api/internal/logger"
	"github.com/straye-as/chirps-api/internal/metrics"
	"go.uber.org/zap"
)

// Job is a named unit of background work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages background jobs using cron scheduling.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
	jobs   map[string]cron.EntryID
}

// NewScheduler creates a new job scheduler with the given logger.
// Expressions use the six-field format with a leading seconds field.
func NewScheduler(logger *zap.Logger) *Scheduler {
	cronLogger := cronZapLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler. Jobs added before this call will begin running.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler")
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once running jobs complete.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob schedules job on cronExpr. Each run gets its own context bounded by timeout.
//   - "0 30 3 * * *" - 03:30:00 every day
//   - "@every 1h"    - Every hour
func (s *Scheduler) AddJob(cronExpr string, timeout time.Duration, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		_ = RunNow(ctx, job, s.logger)
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))

	return nil
}

// RemoveJob removes a job by name.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(entryID)
	delete(s.jobs, name)

	s.logger.Info("removed scheduled job",
		zap.String("job_name", name))

	return nil
}

// GetJobNames returns the names of all registered jobs, sorted.
func (s *Scheduler) GetJobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunNow executes job once, recording its duration and outcome
func RunNow(ctx context.Context, job Job, log *zap.Logger) error {
	log = logger.WithJob(log, job.Name())
	start := time.Now()
	log.Info("running job")

	err := job.Run(ctx)
	duration := time.Since(start)
	metrics.RecordJobRun(job.Name(), duration, err == nil)

	if err != nil {
		log.Error("job failed", zap.Duration("duration", duration), zap.Error(err))
		return err
	}

	log.Info("completed job", zap.Duration("duration", duration))
	return nil
}

// cronZapLogger adapts zap to cron.Logger
type cronZapLogger struct {
	logger *zap.Logger
}

func (l cronZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronZapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
