package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appmembership "github.com/fitdesk/backend/internal/application/membership"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// ---------------------------------------------------------------------------
// Job Tests
// ---------------------------------------------------------------------------

func TestNewJob(t *testing.T) {
	job := NewJob(JobTypeSuspensionActivation, 3)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, JobTypeSuspensionActivation, job.Type)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
}

func TestJob_Start(t *testing.T) {
	job := NewJob(JobTypeScheduledCancellation, 3)
	job.Error = "previous error"

	job.Start()

	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.Empty(t, job.Error)
}

func TestJob_Complete(t *testing.T) {
	job := NewJob(JobTypeSuspensionActivation, 3)
	job.Start()

	job.Complete()

	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.NotNil(t, job.CompletedAt)
}

func TestJob_Fail(t *testing.T) {
	job := NewJob(JobTypeSuspensionActivation, 3)
	job.Start()

	job.Fail("database unavailable")

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Equal(t, "database unavailable", job.Error)
}

func TestJob_ShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		status     JobStatus
		retryCount int
		maxRetries int
		expected   bool
	}{
		{"Failed with retries available", JobStatusFailed, 0, 3, true},
		{"Failed max retries reached", JobStatusFailed, 3, 3, false},
		{"Success should not retry", JobStatusSuccess, 0, 3, false},
		{"Running should not retry", JobStatusRunning, 0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob(JobTypeSuspensionActivation, tt.maxRetries)
			job.Status = tt.status
			job.RetryCount = tt.retryCount

			assert.Equal(t, tt.expected, job.ShouldRetry())
		})
	}
}

func TestJob_ScheduleRetry(t *testing.T) {
	job := NewJob(JobTypeSuspensionActivation, 3)
	job.Fail("transient error")

	job.ScheduleRetry(5 * time.Minute)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.NotNil(t, job.NextRetryAt)
	assert.Empty(t, job.Error)
}

// ---------------------------------------------------------------------------
// Scheduler Tests
// ---------------------------------------------------------------------------

// recordingExecutor captures the jobs it runs
type recordingExecutor struct {
	mu     sync.Mutex
	jobs   []*Job
	err    error
	expect int
	done   chan struct{}
}

func newRecordingExecutor(expect int) *recordingExecutor {
	e := &recordingExecutor{done: make(chan struct{})}
	if expect == 0 {
		close(e.done)
	}
	e.expect = expect
	return e
}

func (e *recordingExecutor) Execute(_ context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	if len(e.jobs) == e.expect {
		close(e.done)
	}
	return e.err
}

func (e *recordingExecutor) executed() []*Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Job, len(e.jobs))
	copy(out, e.jobs)
	return out
}

func TestScheduler_StartAndStop(t *testing.T) {
	executor := newRecordingExecutor(2)
	cfg := DefaultConfig()
	cfg.SweepInterval = time.Hour
	s := NewScheduler(cfg, executor, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	// Start is idempotent
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-executor.done:
	case <-time.After(5 * time.Second):
		t.Fatal("initial sweep did not run")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	assert.False(t, s.IsRunning())
}

func TestScheduler_InitialSweepRunsBothJobTypes(t *testing.T) {
	executor := newRecordingExecutor(2)
	cfg := DefaultConfig()
	cfg.SweepInterval = time.Hour
	s := NewScheduler(cfg, executor, newTestLogger())

	require.NoError(t, s.Start(context.Background()))

	select {
	case <-executor.done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep jobs did not run")
	}

	// Stop drains the workers so job state is settled before asserting
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	types := map[JobType]bool{}
	for _, job := range executor.executed() {
		types[job.Type] = true
		assert.Equal(t, JobStatusSuccess, job.Status)
	}
	assert.True(t, types[JobTypeSuspensionActivation])
	assert.True(t, types[JobTypeScheduledCancellation])
}

func TestScheduler_SubmitJob_NotRunning(t *testing.T) {
	s := NewScheduler(DefaultConfig(), newRecordingExecutor(0), newTestLogger())

	err := s.SubmitJob(NewJob(JobTypeSuspensionActivation, 3))

	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

// ---------------------------------------------------------------------------
// LifecycleExecutor Tests
// ---------------------------------------------------------------------------

// fakeSweeper returns canned sweep results
type fakeSweeper struct {
	activations   appmembership.SweepResult
	cancellations appmembership.SweepResult
	err           error
}

func (f *fakeSweeper) ActivateDueSuspensions(context.Context) (appmembership.SweepResult, error) {
	return f.activations, f.err
}

func (f *fakeSweeper) ExecuteDueCancellations(context.Context) (appmembership.SweepResult, error) {
	return f.cancellations, f.err
}

func TestLifecycleExecutor_Execute(t *testing.T) {
	sweeper := &fakeSweeper{
		activations:   appmembership.SweepResult{Processed: 3, Failed: 1},
		cancellations: appmembership.SweepResult{Processed: 2},
	}
	executor := NewLifecycleExecutor(sweeper)

	job := NewJob(JobTypeSuspensionActivation, 3)
	require.NoError(t, executor.Execute(context.Background(), job))
	assert.Equal(t, 3, job.Processed)
	assert.Equal(t, 1, job.Failed)

	job = NewJob(JobTypeScheduledCancellation, 3)
	require.NoError(t, executor.Execute(context.Background(), job))
	assert.Equal(t, 2, job.Processed)
	assert.Equal(t, 0, job.Failed)
}

func TestLifecycleExecutor_Execute_UnknownType(t *testing.T) {
	executor := NewLifecycleExecutor(&fakeSweeper{})

	job := NewJob(JobType("NONSENSE"), 3)
	err := executor.Execute(context.Background(), job)

	assert.ErrorIs(t, err, ErrInvalidJobType)
}

func TestLifecycleExecutor_Execute_SweepError(t *testing.T) {
	executor := NewLifecycleExecutor(&fakeSweeper{err: errors.New("db down")})

	job := NewJob(JobTypeSuspensionActivation, 3)
	err := executor.Execute(context.Background(), job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
