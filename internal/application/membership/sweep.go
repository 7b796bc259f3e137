package membership

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const sweepBatchSize = 200

// SweepResult counts what a sweep pass touched
type SweepResult struct {
	Processed int
	Failed    int
}

// ActivateDueSuspensions advances every scheduled suspension whose start
// date has arrived. Each suspension runs in its own transaction so one
// failure never blocks the rest; processing order across contracts
// carries no meaning.
func (s *ContractService) ActivateDueSuspensions(ctx context.Context) (SweepResult, error) {
	today := s.today()
	var result SweepResult

	var due []membership.Suspension
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		due, err = repos.SuspensionRepo().FindDueScheduled(ctx, today, sweepBatchSize)
		return err
	})
	if err != nil {
		return result, err
	}

	for i := range due {
		sus := due[i]
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			contract, err := repos.ContractRepo().FindByID(ctx, sus.ContractID)
			if err != nil {
				if shared.IsNotFound(err) {
					s.logger.Warn("due suspension references missing contract",
						zap.String("suspension_id", sus.ID.String()))
					return nil
				}
				return err
			}
			if err := contract.ActivateScheduledSuspension(&sus, today); err != nil {
				return err
			}
			if err := repos.ContractRepo().SaveWithLock(ctx, contract); err != nil {
				return err
			}
			return repos.SuspensionRepo().Save(ctx, &sus)
		})
		if err != nil {
			result.Failed++
			s.logger.Error("suspension activation failed",
				zap.String("suspension_id", sus.ID.String()), zap.Error(err))
			continue
		}
		result.Processed++
	}

	return result, nil
}

// ExecuteDueCancellations completes every scheduled cancellation whose
// date has arrived, applying the same cascade as an immediate cancel.
func (s *ContractService) ExecuteDueCancellations(ctx context.Context) (SweepResult, error) {
	today := s.today()
	var result SweepResult

	var due []membership.Contract
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		due, err = repos.ContractRepo().FindDueScheduledCancellations(ctx, today, sweepBatchSize)
		return err
	})
	if err != nil {
		return result, err
	}

	for i := range due {
		contract := due[i]
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := contract.ExecuteScheduledCancellation(today); err != nil {
				return err
			}
			return repos.ContractRepo().SaveWithLock(ctx, &contract)
		})
		if err != nil {
			result.Failed++
			s.logger.Error("scheduled cancellation failed",
				zap.String("contract_code", contract.ContractCode), zap.Error(err))
			continue
		}
		result.Processed++

		s.enqueueCancellationCleanup(contract.Scope(), &contract)
	}

	return result, nil
}
