package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/straye-as/chirps-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_AddAndRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("0 30 3 * * *", time.Minute, &countingJob{name: "b"}))
	require.NoError(t, s.AddJob("@every 1h", time.Minute, &countingJob{name: "a"}))
	assert.Equal(t, []string{"a", "b"}, s.GetJobNames())

	err := s.AddJob("@every 1h", time.Minute, &countingJob{name: "a"})
	assert.Error(t, err)

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.GetJobNames())
	assert.Error(t, s.RemoveJob("a"))
}

func TestScheduler_InvalidExpression(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	err := s.AddJob("not a schedule", time.Minute, &countingJob{name: "broken"})
	assert.Error(t, err)
	assert.Empty(t, s.GetJobNames())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	job := &countingJob{name: "tick"}
	require.NoError(t, s.AddJob("@every 1s", time.Second, job))

	s.Start()
	defer func() { <-s.Stop().Done() }()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunNow(t *testing.T) {
	ok := &countingJob{name: "ok"}
	require.NoError(t, jobs.RunNow(context.Background(), ok, zap.NewNop()))
	assert.Equal(t, int32(1), ok.runs.Load())

	boom := errors.New("boom")
	failing := &countingJob{name: "failing", err: boom}
	assert.ErrorIs(t, jobs.RunNow(context.Background(), failing, zap.NewNop()), boom)
}
