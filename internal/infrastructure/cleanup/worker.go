package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appmembership "github.com/fitdesk/backend/internal/application/membership"
)

// Config holds cleanup worker configuration
type Config struct {
	QueueSize   int
	Workers     int
	TaskTimeout time.Duration
}

// DefaultConfig returns default cleanup worker configuration
func DefaultConfig() Config {
	return Config{
		QueueSize:   256,
		Workers:     2,
		TaskTimeout: time.Minute,
	}
}

// Worker runs best-effort cleanup tasks after the primary transaction
// commits. Task failures are logged and dropped; nothing here may
// affect the outcome of the operation that enqueued the task.
type Worker struct {
	config Config
	logger *zap.Logger

	tasks     chan appmembership.CleanupTask
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewWorker creates a new cleanup worker
func NewWorker(config Config, logger *zap.Logger) *Worker {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = DefaultConfig().TaskTimeout
	}
	return &Worker{
		config: config,
		logger: logger,
		tasks:  make(chan appmembership.CleanupTask, config.QueueSize),
	}
}

// Start launches the worker goroutines
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.config.Workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}

	w.logger.Info("Cleanup worker started",
		zap.Int("workers", w.config.Workers),
		zap.Int("queue_size", w.config.QueueSize),
	)
}

// Stop drains in-flight tasks and shuts the workers down
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Cleanup worker stopped")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Cleanup worker stop timed out")
		return ctx.Err()
	}
}

// Enqueue accepts a task for asynchronous execution. A full queue drops
// the task with a warning; cleanup work is reconstructible and must not
// block the request path.
func (w *Worker) Enqueue(task appmembership.CleanupTask) {
	w.mu.Lock()
	running := w.isRunning
	w.mu.Unlock()

	if !running {
		w.logger.Warn("Cleanup task dropped, worker not running",
			zap.String("task", task.Name))
		return
	}

	select {
	case w.tasks <- task:
	default:
		w.logger.Warn("Cleanup queue full, task dropped",
			zap.String("task", task.Name))
	}
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			// Drain whatever is already queued before exiting
			for {
				select {
				case task := <-w.tasks:
					w.execute(context.Background(), task, workerID)
				default:
					return
				}
			}
		case task := <-w.tasks:
			w.execute(ctx, task, workerID)
		}
	}
}

func (w *Worker) execute(ctx context.Context, task appmembership.CleanupTask, workerID int) {
	taskCtx, cancel := context.WithTimeout(ctx, w.config.TaskTimeout)
	defer cancel()

	if err := task.Run(taskCtx); err != nil {
		w.logger.Error("Cleanup task failed",
			zap.Int("worker_id", workerID),
			zap.String("task", task.Name),
			zap.Error(err),
		)
		return
	}

	w.logger.Debug("Cleanup task completed",
		zap.Int("worker_id", workerID),
		zap.String("task", task.Name),
	)
}

var _ appmembership.CleanupQueue = (*Worker)(nil)
