package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appmembership "github.com/fitdesk/backend/internal/application/membership"
)

func TestWorker_ExecutesEnqueuedTasks(t *testing.T) {
	w := NewWorker(DefaultConfig(), zap.NewNop())
	w.Start(context.Background())

	var ran atomic.Int32
	done := make(chan struct{})
	w.Enqueue(appmembership.CleanupTask{
		Name: "delete-enrollments",
		Run: func(context.Context) error {
			ran.Add(1)
			close(done)
			return nil
		},
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not run")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Stop(stopCtx))
	assert.Equal(t, int32(1), ran.Load())
}

func TestWorker_TaskFailureDoesNotStopWorker(t *testing.T) {
	w := NewWorker(Config{QueueSize: 8, Workers: 1, TaskTimeout: time.Second}, zap.NewNop())
	w.Start(context.Background())

	done := make(chan struct{})
	w.Enqueue(appmembership.CleanupTask{
		Name: "failing",
		Run:  func(context.Context) error { return errors.New("boom") },
	})
	w.Enqueue(appmembership.CleanupTask{
		Name: "after-failure",
		Run: func(context.Context) error {
			close(done)
			return nil
		},
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker stopped processing after a failed task")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Stop(stopCtx))
}

func TestWorker_EnqueueWhileStoppedDropsTask(t *testing.T) {
	w := NewWorker(DefaultConfig(), zap.NewNop())

	// Never started; must not panic or block
	w.Enqueue(appmembership.CleanupTask{
		Name: "orphan",
		Run:  func(context.Context) error { return nil },
	})
}

func TestWorker_StopDrainsQueuedTasks(t *testing.T) {
	w := NewWorker(Config{QueueSize: 16, Workers: 1, TaskTimeout: time.Second}, zap.NewNop())
	w.Start(context.Background())

	var ran atomic.Int32
	block := make(chan struct{})
	w.Enqueue(appmembership.CleanupTask{
		Name: "blocker",
		Run: func(context.Context) error {
			<-block
			ran.Add(1)
			return nil
		},
	})
	for i := 0; i < 3; i++ {
		w.Enqueue(appmembership.CleanupTask{
			Name: "queued",
			Run: func(context.Context) error {
				ran.Add(1)
				return nil
			},
		})
	}

	close(block)
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Stop(stopCtx))
	assert.Equal(t, int32(4), ran.Load())
}
