package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType represents the type of lifecycle sweep to run
type JobType string

const (
	JobTypeSuspensionActivation  JobType = "SUSPENSION_ACTIVATION"
	JobTypeScheduledCancellation JobType = "SCHEDULED_CANCELLATION"
)

// AllJobTypes returns every lifecycle sweep type in execution order.
// Activations run before cancellations so a contract suspended and
// cancelled on the same date settles in a deterministic state.
func AllJobTypes() []JobType {
	return []JobType{
		JobTypeSuspensionActivation,
		JobTypeScheduledCancellation,
	}
}

// Job is a single lifecycle sweep run with its retry bookkeeping.
type Job struct {
	ID          uuid.UUID
	Type        JobType
	Status      JobStatus
	Error       string
	Processed   int
	Failed      int
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

func NewJob(jobType JobType, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running and clears any error from an earlier
// attempt.
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry moves a failed job back to pending with a retry deadline.
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor runs one lifecycle sweep job.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Config holds scheduler configuration
type Config struct {
	Enabled           bool
	SweepInterval     time.Duration
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		SweepInterval:     time.Hour,
		MaxConcurrentJobs: 2,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
	}
}

// Scheduler runs the contract lifecycle sweeps on a fixed interval.
// Sweeps are idempotent so overlapping or repeated runs are harmless.
type Scheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger

	jobs    chan *Job
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewScheduler(config Config, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, 100),
	}
}

// Start launches the worker pool and the sweep ticker. Calling Start on a
// running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)

	for range s.config.MaxConcurrentJobs {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	s.wg.Add(1)
	go s.tick(ctx)

	s.logger.Info("Lifecycle scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("sweep_interval", s.config.SweepInterval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels the workers and waits for in-flight jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Lifecycle scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Lifecycle scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// SubmitJob enqueues a job without blocking.
func (s *Scheduler) SubmitJob(job *Job) error {
	if !s.running.Load() {
		return ErrSchedulerNotRunning
	}
	if !s.enqueue(job) {
		return ErrJobQueueFull
	}
	s.logger.Debug("Job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
	return nil
}

// ScheduleSweep enqueues one job per lifecycle sweep type.
func (s *Scheduler) ScheduleSweep() error {
	for _, jobType := range AllJobTypes() {
		if err := s.SubmitJob(NewJob(jobType, s.config.RetryAttempts)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) enqueue(job *Job) bool {
	select {
	case s.jobs <- job:
		return true
	default:
		return false
	}
}

// tick submits a sweep immediately and then on every interval.
func (s *Scheduler) tick(ctx context.Context) {
	defer s.wg.Done()

	if err := s.ScheduleSweep(); err != nil {
		s.logger.Error("Initial sweep submission failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ScheduleSweep(); err != nil {
				s.logger.Error("Sweep submission failed", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.run(ctx, job)
		}
	}
}

// run executes one job, requeueing it on failure until retries run out.
func (s *Scheduler) run(ctx context.Context, job *Job) {
	// A retried job that is not due yet goes back to the queue.
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		if !s.enqueue(job) {
			s.logger.Warn("Failed to re-queue job for retry", zap.String("job_id", job.ID.String()))
		}
		return
	}

	job.Start()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		s.logger.Error("Lifecycle sweep job failed",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Error(err),
		)
		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			if !s.enqueue(job) {
				s.logger.Warn("Failed to re-queue job for retry", zap.String("job_id", job.ID.String()))
			}
		}
		return
	}

	job.Complete()
	s.logger.Info("Lifecycle sweep job completed",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Int("processed", job.Processed),
		zap.Int("failed", job.Failed),
	)
}
