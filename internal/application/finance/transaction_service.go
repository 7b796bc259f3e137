package finance

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService owns the ledger correction APIs. Ledger entries are
// immutable in normal operation; these endpoints exist for the rare
// amendment, and every change emits the before snapshot so the summary
// aggregator can move the contribution.
type TransactionService struct {
	txScope   TransactionScope
	sequences shared.SequenceGenerator
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(txScope TransactionScope, sequences shared.SequenceGenerator) *TransactionService {
	return &TransactionService{txScope: txScope, sequences: sequences}
}

// CreateTransactionRequest records a manual ledger entry
type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description"`
	ClientID    *uuid.UUID      `json:"client_id"`
	SaleID      *uuid.UUID      `json:"sale_id"`
}

// UpdateTransactionRequest amends an existing ledger entry
type UpdateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransactionCode string          `json:"transaction_code"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	Description     string          `json:"description,omitempty"`
	ClientID        *uuid.UUID      `json:"client_id,omitempty"`
	SaleID          *uuid.UUID      `json:"sale_id,omitempty"`
	Version         int             `json:"version"`
}

func toTransactionResponse(t *finance.FinancialTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		TransactionCode: t.TransactionCode,
		Type:            t.Type.String(),
		Amount:          t.Amount.Amount(),
		Date:            t.Date.String(),
		Description:     t.Description,
		ClientID:        t.ClientID,
		SaleID:          t.SaleID,
		Version:         t.Version,
	}
}

// Create records a new ledger entry with a generated code
func (s *TransactionService) Create(ctx context.Context, scope shared.Scope, req CreateTransactionRequest) (*TransactionResponse, error) {
	date, err := valueobject.ParseDate(req.Date)
	if err != nil {
		return nil, shared.NewInvalidArgument("INVALID_DATE", err.Error())
	}

	code, err := s.sequences.Next(ctx, scope, shared.SequenceTransaction)
	if err != nil {
		return nil, err
	}

	tx, err := finance.NewFinancialTransaction(scope, code,
		finance.TransactionType(req.Type), valueobject.NewMoneyBRL(req.Amount), date, req.Description)
	if err != nil {
		return nil, err
	}
	if req.ClientID != nil {
		tx.LinkClient(*req.ClientID)
	}
	if req.SaleID != nil {
		tx.LinkSale(*req.SaleID)
	}

	if err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.TransactionRepo().Save(ctx, tx)
	}); err != nil {
		return nil, err
	}

	return toTransactionResponse(tx), nil
}

// Get loads one ledger entry for the scope
func (s *TransactionService) Get(ctx context.Context, scope shared.Scope, id uuid.UUID) (*TransactionResponse, error) {
	var tx *finance.FinancialTransaction
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		tx, err = repos.TransactionRepo().FindByIDForScope(ctx, scope, id)
		return err
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFound("TRANSACTION_NOT_FOUND", "Transaction not found")
		}
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// List pages through the scope's ledger
func (s *TransactionService) List(ctx context.Context, scope shared.Scope, filter finance.TransactionFilter) ([]TransactionResponse, int64, error) {
	var entries []finance.FinancialTransaction
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entries, total, err = repos.TransactionRepo().FindAllForScope(ctx, scope, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(entries))
	for i := range entries {
		responses[i] = *toTransactionResponse(&entries[i])
	}
	return responses, total, nil
}

// Update amends amount, date or description of an existing entry
func (s *TransactionService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	date, err := valueobject.ParseDate(req.Date)
	if err != nil {
		return nil, shared.NewInvalidArgument("INVALID_DATE", err.Error())
	}

	var tx *finance.FinancialTransaction
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		tx, err = repos.TransactionRepo().FindByIDForScope(ctx, scope, id)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("TRANSACTION_NOT_FOUND", "Transaction not found")
			}
			return err
		}
		if err := tx.Amend(valueobject.NewMoneyBRL(req.Amount), date, req.Description); err != nil {
			return err
		}
		return repos.TransactionRepo().Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// Delete removes a ledger entry, emitting the reversal event first
func (s *TransactionService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx, err := repos.TransactionRepo().FindByIDForScope(ctx, scope, id)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("TRANSACTION_NOT_FOUND", "Transaction not found")
			}
			return err
		}
		tx.MarkDeleted()
		return repos.TransactionRepo().Delete(ctx, tx)
	})
}
