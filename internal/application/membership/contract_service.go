package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContractService drives contract lifecycle transitions. Every primary
// mutation runs in one transaction; the cascading cleanup after a
// cancellation is enqueued post-commit and never fails the operation.
type ContractService struct {
	txScope     TransactionScope
	sequences   shared.SequenceGenerator
	enrollments EnrollmentStore
	policies    BranchPolicyStore
	receivables finance.ReceivableRepository
	cleanup     CleanupQueue
	logger      *zap.Logger
	today       func() valueobject.Date
}

// NewContractService creates a new ContractService
func NewContractService(
	txScope TransactionScope,
	sequences shared.SequenceGenerator,
	enrollments EnrollmentStore,
	policies BranchPolicyStore,
	receivables finance.ReceivableRepository,
	cleanup CleanupQueue,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		txScope:     txScope,
		sequences:   sequences,
		enrollments: enrollments,
		policies:    policies,
		receivables: receivables,
		cleanup:     cleanup,
		logger:      logger,
		today:       func() valueobject.Date { return valueobject.Today(time.UTC) },
	}
}

// SetTodayProvider overrides the clock, used by tests and the daily sweep
func (s *ContractService) SetTodayProvider(today func() valueobject.Date) {
	s.today = today
}

// CreateContractRequest creates a standalone contract, outside of a sale
type CreateContractRequest struct {
	ClientID          uuid.UUID `json:"client_id" binding:"required"`
	PlanName          string    `json:"plan_name" binding:"required"`
	StartDate         string    `json:"start_date" binding:"required"`
	EndDate           string    `json:"end_date"`
	AllowSuspension   bool      `json:"allow_suspension"`
	SuspensionMaxDays int       `json:"suspension_max_days"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID                    uuid.UUID `json:"id"`
	ContractCode          string    `json:"contract_code"`
	ClientID              uuid.UUID `json:"client_id"`
	PlanName              string    `json:"plan_name"`
	Status                string    `json:"status"`
	StartDate             string    `json:"start_date"`
	EndDate               string    `json:"end_date,omitempty"`
	AllowSuspension       bool      `json:"allow_suspension"`
	SuspensionMaxDays     int       `json:"suspension_max_days"`
	TotalSuspendedDays    int       `json:"total_suspended_days"`
	PendingSuspensionDays int       `json:"pending_suspension_days"`
	CancelDate            string    `json:"cancel_date,omitempty"`
	CancelReason          string    `json:"cancel_reason,omitempty"`
	Version               int       `json:"version"`
}

func toContractResponse(c *membership.Contract) *ContractResponse {
	resp := &ContractResponse{
		ID:                    c.ID,
		ContractCode:          c.ContractCode,
		ClientID:              c.ClientID,
		PlanName:              c.PlanName,
		Status:                c.Status.String(),
		StartDate:             c.StartDate.String(),
		AllowSuspension:       c.AllowSuspension,
		SuspensionMaxDays:     c.SuspensionMaxDays,
		TotalSuspendedDays:    c.TotalSuspendedDays,
		PendingSuspensionDays: c.PendingSuspensionDays,
		CancelReason:          c.CancelReason,
		Version:               c.Version,
	}
	if !c.EndDate.IsZero() {
		resp.EndDate = c.EndDate.String()
	}
	if !c.CancelDate.IsZero() {
		resp.CancelDate = c.CancelDate.String()
	}
	return resp
}

// CreateContract creates a new contract with a generated code
func (s *ContractService) CreateContract(ctx context.Context, scope shared.Scope, req CreateContractRequest) (*ContractResponse, error) {
	startDate, err := valueobject.ParseDate(req.StartDate)
	if err != nil {
		return nil, shared.NewInvalidArgument("INVALID_START_DATE", err.Error())
	}
	var endDate valueobject.Date
	if req.EndDate != "" {
		if endDate, err = valueobject.ParseDate(req.EndDate); err != nil {
			return nil, shared.NewInvalidArgument("INVALID_END_DATE", err.Error())
		}
	}

	code, err := s.sequences.Next(ctx, scope, shared.SequenceContract)
	if err != nil {
		return nil, err
	}

	contract, err := membership.NewContract(scope, code, req.ClientID, req.PlanName,
		startDate, endDate, req.AllowSuspension, req.SuspensionMaxDays)
	if err != nil {
		return nil, err
	}

	if err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ContractRepo().Save(ctx, contract)
	}); err != nil {
		return nil, err
	}

	return toContractResponse(contract), nil
}

// GetContract loads one contract for the scope
func (s *ContractService) GetContract(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ContractResponse, error) {
	var contract *membership.Contract
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.ContractRepo().FindByIDForScope(ctx, scope, id)
		return err
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFound("CONTRACT_NOT_FOUND", "Contract not found")
		}
		return nil, err
	}
	return toContractResponse(contract), nil
}

// ScheduleSuspensionRequest asks for a suspension over a closed date
// interval
type ScheduleSuspensionRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

// SuspensionResponse summarizes a suspension after scheduling
type SuspensionResponse struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	DaysUsed   int       `json:"days_used"`
	NewEndDate string    `json:"new_end_date,omitempty"`
}

// ScheduleSuspension books or immediately activates a suspension
func (s *ContractService) ScheduleSuspension(ctx context.Context, scope shared.Scope, contractID uuid.UUID, req ScheduleSuspensionRequest) (*SuspensionResponse, error) {
	startDate, err := valueobject.ParseDate(req.StartDate)
	if err != nil {
		return nil, shared.NewInvalidArgument("INVALID_SUSPENSION_DATES", err.Error())
	}
	endDate, err := valueobject.ParseDate(req.EndDate)
	if err != nil {
		return nil, shared.NewInvalidArgument("INVALID_SUSPENSION_DATES", err.Error())
	}

	var sus *membership.Suspension
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		contract, err := repos.ContractRepo().FindByIDForScope(ctx, scope, contractID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("CONTRACT_NOT_FOUND", "Contract not found")
			}
			return err
		}

		sus, err = contract.ScheduleSuspension(startDate, endDate, req.Reason, s.today())
		if err != nil {
			return err
		}

		if err := repos.ContractRepo().SaveWithLock(ctx, contract); err != nil {
			return err
		}
		return repos.SuspensionRepo().Save(ctx, sus)
	})
	if err != nil {
		return nil, err
	}

	resp := &SuspensionResponse{
		ID:       sus.ID,
		Status:   sus.Status.String(),
		DaysUsed: sus.DaysUsed,
	}
	if sus.Status == membership.SuspensionStatusActive {
		resp.NewEndDate = sus.NewEndDate.String()
	}
	return resp, nil
}

// StopSuspensionResponse reports how a suspension ended
type StopSuspensionResponse struct {
	Type               string `json:"type"`
	UnusedDays         int    `json:"unused_days"`
	NewContractEndDate string `json:"new_contract_end_date,omitempty"`
}

// StopSuspension revokes a scheduled suspension or ends an active one
// early, returning the unused days to the contract
func (s *ContractService) StopSuspension(ctx context.Context, scope shared.Scope, contractID, suspensionID uuid.UUID) (*StopSuspensionResponse, error) {
	var result *membership.StopSuspensionResult
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		contract, err := repos.ContractRepo().FindByIDForScope(ctx, scope, contractID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("CONTRACT_NOT_FOUND", "Contract not found")
			}
			return err
		}
		sus, err := repos.SuspensionRepo().FindByID(ctx, suspensionID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("SUSPENSION_NOT_FOUND", "Suspension not found")
			}
			return err
		}

		result, err = contract.StopSuspension(sus, s.today())
		if err != nil {
			return err
		}

		if err := repos.ContractRepo().SaveWithLock(ctx, contract); err != nil {
			return err
		}
		return repos.SuspensionRepo().Save(ctx, sus)
	})
	if err != nil {
		return nil, err
	}

	resp := &StopSuspensionResponse{
		Type:       result.Type,
		UnusedDays: result.UnusedDays,
	}
	if !result.NewContractEndDate.IsZero() {
		resp.NewContractEndDate = result.NewContractEndDate.String()
	}
	return resp, nil
}

// CancelContractRequest cancels a contract now or at a scheduled date
type CancelContractRequest struct {
	Reason        string `json:"reason"`
	RefundRevenue bool   `json:"refund_revenue"`
	Schedule      bool   `json:"schedule"`
	CancelDate    string `json:"cancel_date"`
}

// CancelContractResponse reports the resulting contract status
type CancelContractResponse struct {
	Status string `json:"status"`
}

// CancelContract cancels immediately or books a scheduled cancellation.
// Immediate cancellation enqueues the best-effort cleanup cascade after
// the primary transaction commits.
func (s *ContractService) CancelContract(ctx context.Context, scope shared.Scope, contractID uuid.UUID, req CancelContractRequest) (*CancelContractResponse, error) {
	var contract *membership.Contract
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.ContractRepo().FindByIDForScope(ctx, scope, contractID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("CONTRACT_NOT_FOUND", "Contract not found")
			}
			return err
		}

		if req.Schedule {
			cancelDate, err := valueobject.ParseDate(req.CancelDate)
			if err != nil {
				return shared.NewInvalidArgument("INVALID_CANCEL_DATE", err.Error())
			}
			if err := contract.ScheduleCancellation(cancelDate, req.Reason, s.today()); err != nil {
				return err
			}
		} else {
			if err := contract.Cancel(req.Reason, req.RefundRevenue); err != nil {
				return err
			}
		}

		return repos.ContractRepo().SaveWithLock(ctx, contract)
	})
	if err != nil {
		return nil, err
	}

	if contract.IsCancelled() {
		s.enqueueCancellationCleanup(scope, contract)
	}

	return &CancelContractResponse{Status: contract.Status.String()}, nil
}

// enqueueCancellationCleanup schedules the post-commit cascade: drop the
// client's enrollments and, when the branch policy asks for it, cancel
// open receivables linked to the contract's originating sale.
func (s *ContractService) enqueueCancellationCleanup(scope shared.Scope, contract *membership.Contract) {
	clientID := contract.ClientID
	sourceSaleID := contract.SourceSaleID
	contractCode := contract.ContractCode

	s.cleanup.Enqueue(CleanupTask{
		Name: fmt.Sprintf("contract-cancel-cleanup:%s", contractCode),
		Run: func(ctx context.Context) error {
			if err := s.enrollments.DeleteRecurringForClient(ctx, scope, clientID); err != nil {
				s.logger.Warn("failed to delete recurring enrollments",
					zap.String("contract_code", contractCode), zap.Error(err))
			}
			if err := s.enrollments.DeleteFutureSessionsForClient(ctx, scope, clientID); err != nil {
				s.logger.Warn("failed to delete future session enrollments",
					zap.String("contract_code", contractCode), zap.Error(err))
			}

			if sourceSaleID == nil {
				return nil
			}
			cancelDebt, err := s.policies.CancelDebtOnCancelledContracts(ctx, scope)
			if err != nil {
				s.logger.Warn("failed to load branch policy",
					zap.String("contract_code", contractCode), zap.Error(err))
				return nil
			}
			if !cancelDebt {
				return nil
			}

			open, err := s.receivables.FindOpenBySale(ctx, *sourceSaleID)
			if err != nil {
				s.logger.Warn("failed to load sale receivables",
					zap.String("contract_code", contractCode), zap.Error(err))
				return nil
			}
			for _, r := range open {
				if err := r.Cancel("contract cancelled"); err != nil {
					continue
				}
				if err := s.receivables.Save(ctx, r); err != nil {
					s.logger.Warn("failed to cancel receivable",
						zap.String("receivable_code", r.ReceivableCode), zap.Error(err))
				}
			}
			return nil
		},
	})
}
