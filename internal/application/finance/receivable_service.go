package finance

import (
	"context"
	"time"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceivableService applies client payments across open debts
type ReceivableService struct {
	txScope   TransactionScope
	sequences shared.SequenceGenerator
	logger    *zap.Logger
	today     func() valueobject.Date
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(txScope TransactionScope, sequences shared.SequenceGenerator, logger *zap.Logger) *ReceivableService {
	return &ReceivableService{
		txScope:   txScope,
		sequences: sequences,
		logger:    logger,
		today:     func() valueobject.Date { return valueobject.Today(time.UTC) },
	}
}

// SetTodayProvider overrides the clock, used by tests
func (s *ReceivableService) SetTodayProvider(today func() valueobject.Date) {
	s.today = today
}

// PayReceivablesRequest pays down a client's open debts oldest first
type PayReceivablesRequest struct {
	ClientID uuid.UUID       `json:"client_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Method   string          `json:"method" binding:"required"`
	// ReceivableIDs optionally restricts the payment to a subset of the
	// client's open receivables
	ReceivableIDs []uuid.UUID `json:"receivable_ids"`
	// NextDueDate, when set on a partial payment, rolls the unpaid
	// remainder into a fresh receivable due on that date
	NextDueDate string `json:"next_due_date"`
}

// PayReceivablesResponse reports how the payment landed
type PayReceivablesResponse struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	StillPending    decimal.Decimal `json:"still_pending"`
	NewReceivableID *uuid.UUID      `json:"new_receivable_id,omitempty"`
}

// PayReceivables loads the client's open receivables, distributes the
// amount oldest debt first, writes one negative ledger entry for the
// outflow and updates every touched receivable, all in one transaction.
// A partial payment with a next due date rolls the remainder into a new
// receivable so collection continuity survives.
func (s *ReceivableService) PayReceivables(ctx context.Context, scope shared.Scope, req PayReceivablesRequest) (*PayReceivablesResponse, error) {
	if req.ClientID == uuid.Nil {
		return nil, shared.NewInvalidArgument("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewInvalidArgument("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if req.Method == "" {
		return nil, shared.NewInvalidArgument("INVALID_METHOD", "Payment method is required")
	}
	var nextDueDate *valueobject.Date
	if req.NextDueDate != "" {
		d, err := valueobject.ParseDate(req.NextDueDate)
		if err != nil {
			return nil, shared.NewInvalidArgument("INVALID_DUE_DATE", err.Error())
		}
		nextDueDate = &d
	}

	amount := valueobject.NewMoneyBRL(req.Amount)
	var resp *PayReceivablesResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		open, err := repos.ReceivableRepo().FindOpenByClient(ctx, scope, req.ClientID, req.ReceivableIDs)
		if err != nil {
			return err
		}
		if len(open) == 0 {
			return shared.NewNotFound("NO_OPEN_RECEIVABLES", "Client has no open receivables")
		}

		totalPending := valueobject.ZeroBRL()
		for _, r := range open {
			totalPending = totalPending.MustAdd(r.Balance)
		}

		dist := finance.DistributePayment(open, amount)
		if !dist.TotalDistributed.IsPositive() {
			return shared.NewFailedPrecondition("NOTHING_DISTRIBUTED",
				"No open balance could absorb the payment")
		}

		code, err := s.sequences.Next(ctx, scope, shared.SequenceTransaction)
		if err != nil {
			return err
		}
		tx, err := finance.NewFinancialTransaction(scope, code,
			finance.TransactionTypeReceivablePayment,
			dist.TotalDistributed.Negate(), s.today(),
			"Receivable payment via "+req.Method)
		if err != nil {
			return err
		}
		tx.PaymentMethod = req.Method
		tx.LinkClient(req.ClientID)
		if err := repos.TransactionRepo().Save(ctx, tx); err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*finance.Receivable, len(open))
		for _, r := range open {
			byID[r.ID] = r
		}
		var firstSaleID *uuid.UUID
		for _, alloc := range dist.Allocations {
			r := byID[alloc.ReceivableID]
			if err := r.ApplyPayment(alloc.Amount); err != nil {
				return err
			}
			if err := repos.ReceivableRepo().SaveWithLock(ctx, r); err != nil {
				return err
			}
			if firstSaleID == nil && r.SaleID != nil {
				firstSaleID = r.SaleID
			}
		}

		stillPending := totalPending.MustSubtract(dist.TotalDistributed)

		resp = &PayReceivablesResponse{
			TransactionID: tx.ID,
			TotalPaid:     dist.TotalDistributed.Amount(),
			StillPending:  stillPending.Amount(),
		}

		if stillPending.IsPositive() && nextDueDate != nil {
			rCode, err := s.sequences.Next(ctx, scope, shared.SequenceReceivable)
			if err != nil {
				return err
			}
			residual, err := finance.NewReceivable(scope, rCode, req.ClientID,
				"Rolled-over balance", stillPending, nextDueDate)
			if err != nil {
				return err
			}
			if firstSaleID != nil {
				residual.LinkSale(*firstSaleID)
			}
			if err := repos.ReceivableRepo().Save(ctx, residual); err != nil {
				return err
			}
			resp.NewReceivableID = &residual.ID

			// The rolled-over receivable replaces the old open balances it
			// covers; cancel what it superseded so debt is not counted twice.
			for _, r := range open {
				if r.IsOpen() && r.Balance.IsPositive() {
					if err := r.Cancel("rolled into " + rCode); err != nil {
						return err
					}
					if err := repos.ReceivableRepo().SaveWithLock(ctx, r); err != nil {
						return err
					}
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
