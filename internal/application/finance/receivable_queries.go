package finance

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableResponse represents a receivable in API responses
type ReceivableResponse struct {
	ID             uuid.UUID       `json:"id"`
	ReceivableCode string          `json:"receivable_code"`
	ClientID       uuid.UUID       `json:"client_id"`
	Description    string          `json:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
	DueDate        string          `json:"due_date,omitempty"`
	Status         string          `json:"status"`
	SaleID         *uuid.UUID      `json:"sale_id,omitempty"`
	ContractID     *uuid.UUID      `json:"contract_id,omitempty"`
}

func toReceivableResponse(r *finance.Receivable) ReceivableResponse {
	resp := ReceivableResponse{
		ID:             r.ID,
		ReceivableCode: r.ReceivableCode,
		ClientID:       r.ClientID,
		Description:    r.Description,
		Amount:         r.Amount.Amount(),
		Balance:        r.Balance.Amount(),
		Status:         r.Status.String(),
		SaleID:         r.SaleID,
		ContractID:     r.ContractID,
	}
	if r.DueDate != nil {
		resp.DueDate = r.DueDate.String()
	}
	return resp
}

// ListOpenReceivables returns a client's open receivables, oldest first
func (s *ReceivableService) ListOpenReceivables(ctx context.Context, scope shared.Scope, clientID uuid.UUID) ([]ReceivableResponse, error) {
	var open []*finance.Receivable
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		open, err = repos.ReceivableRepo().FindOpenByClient(ctx, scope, clientID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]ReceivableResponse, len(open))
	for i, r := range open {
		out[i] = toReceivableResponse(r)
	}
	return out, nil
}
