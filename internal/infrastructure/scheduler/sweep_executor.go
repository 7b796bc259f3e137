package scheduler

import (
	"context"

	appmembership "github.com/fitdesk/backend/internal/application/membership"
)

// ContractSweeper runs the date-driven contract lifecycle transitions
type ContractSweeper interface {
	ActivateDueSuspensions(ctx context.Context) (appmembership.SweepResult, error)
	ExecuteDueCancellations(ctx context.Context) (appmembership.SweepResult, error)
}

// LifecycleExecutor dispatches sweep jobs to the contract service
type LifecycleExecutor struct {
	sweeper ContractSweeper
}

// NewLifecycleExecutor creates an executor backed by the given sweeper
func NewLifecycleExecutor(sweeper ContractSweeper) *LifecycleExecutor {
	return &LifecycleExecutor{sweeper: sweeper}
}

// Execute runs the sweep named by the job and records its counts
func (e *LifecycleExecutor) Execute(ctx context.Context, job *Job) error {
	var result appmembership.SweepResult
	var err error

	switch job.Type {
	case JobTypeSuspensionActivation:
		result, err = e.sweeper.ActivateDueSuspensions(ctx)
	case JobTypeScheduledCancellation:
		result, err = e.sweeper.ExecuteDueCancellations(ctx)
	default:
		return ErrInvalidJobType
	}
	if err != nil {
		return err
	}

	job.Processed = result.Processed
	job.Failed = result.Failed
	return nil
}

var _ JobExecutor = (*LifecycleExecutor)(nil)
