package membership

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ListContracts returns a page of the scope's contracts, newest first
func (s *ContractService) ListContracts(ctx context.Context, scope shared.Scope, filter membership.ContractFilter) ([]ContractResponse, int64, error) {
	var page []membership.Contract
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, total, err = repos.ContractRepo().FindAllForScope(ctx, scope, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]ContractResponse, len(page))
	for i := range page {
		out[i] = *toContractResponse(&page[i])
	}
	return out, total, nil
}

// SuspensionDetail represents a suspension in API responses
type SuspensionDetail struct {
	ID        uuid.UUID `json:"id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	DaysUsed  int       `json:"days_used"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
}

// ListSuspensions returns every suspension of a contract, oldest first
func (s *ContractService) ListSuspensions(ctx context.Context, scope shared.Scope, contractID uuid.UUID) ([]SuspensionDetail, error) {
	var suspensions []membership.Suspension
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.ContractRepo().FindByIDForScope(ctx, scope, contractID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("CONTRACT_NOT_FOUND", "Contract not found")
			}
			return err
		}
		var err error
		suspensions, err = repos.SuspensionRepo().FindByContract(ctx, contractID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]SuspensionDetail, len(suspensions))
	for i, sus := range suspensions {
		out[i] = SuspensionDetail{
			ID:        sus.ID,
			StartDate: sus.StartDate.String(),
			EndDate:   sus.EndDate.String(),
			DaysUsed:  sus.DaysUsed,
			Status:    sus.Status.String(),
			Reason:    sus.Reason,
		}
	}
	return out, nil
}
