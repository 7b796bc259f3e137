package finance

import (
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// TransactionType classifies a financial transaction
type TransactionType string

const (
	TransactionTypeSale              TransactionType = "SALE"
	TransactionTypeExpense           TransactionType = "EXPENSE"
	TransactionTypeReceivablePayment TransactionType = "RECEIVABLE_PAYMENT"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeExpense, TransactionTypeReceivablePayment:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// FinancialTransaction is a ledger entry of money movement. Sales carry a
// positive amount, expenses and receivable payments a negative one. The
// entry is immutable in normal operation; the correction service may amend
// amount, date and description, emitting the before snapshot so the
// aggregator can reverse the earlier contribution.
type FinancialTransaction struct {
	shared.BranchAggregateRoot
	TransactionCode string
	Type            TransactionType
	Amount          valueobject.Money
	Date            valueobject.Date
	Description     string
	PaymentMethod   string
	ClientID        *uuid.UUID
	SaleID          *uuid.UUID
}

// TransactionSnapshot freezes the aggregation-relevant fields of a
// transaction at a point in time
type TransactionSnapshot struct {
	Type   TransactionType   `json:"type"`
	Amount valueobject.Money `json:"amount"`
	Date   valueobject.Date  `json:"date"`
}

// Snapshot captures the current aggregation-relevant state
func (t *FinancialTransaction) Snapshot() TransactionSnapshot {
	return TransactionSnapshot{
		Type:   t.Type,
		Amount: t.Amount,
		Date:   t.Date,
	}
}

// NewFinancialTransaction creates a new ledger entry. The amount sign must
// match the type: sales are inflows, expenses and receivable payments
// outflows.
func NewFinancialTransaction(
	scope shared.Scope,
	transactionCode string,
	transactionType TransactionType,
	amount valueobject.Money,
	date valueobject.Date,
	description string,
) (*FinancialTransaction, error) {
	if scope.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_SCOPE", "Tenant and branch are required")
	}
	if transactionCode == "" {
		return nil, shared.NewInvalidArgument("INVALID_TRANSACTION_CODE", "Transaction code cannot be empty")
	}
	if !transactionType.IsValid() {
		return nil, shared.NewInvalidArgument("INVALID_TRANSACTION_TYPE", "Unknown transaction type")
	}
	if amount.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}
	if date.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_DATE", "Transaction date is required")
	}
	switch transactionType {
	case TransactionTypeSale:
		if amount.IsNegative() {
			return nil, shared.NewInvalidArgument("INVALID_AMOUNT_SIGN", "Sale transactions must carry a positive amount")
		}
	case TransactionTypeExpense, TransactionTypeReceivablePayment:
		if amount.IsPositive() {
			return nil, shared.NewInvalidArgument("INVALID_AMOUNT_SIGN",
				"Expense and receivable payment transactions must carry a negative amount")
		}
	}

	tx := &FinancialTransaction{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(scope.TenantID, scope.BranchID),
		TransactionCode:     transactionCode,
		Type:                transactionType,
		Amount:              amount,
		Date:                date,
		Description:         description,
	}

	tx.AddDomainEvent(NewTransactionCreatedEvent(tx))

	return tx, nil
}

// LinkClient records the client the money moved for
func (t *FinancialTransaction) LinkClient(clientID uuid.UUID) {
	t.ClientID = &clientID
}

// LinkSale records the sale that produced this entry
func (t *FinancialTransaction) LinkSale(saleID uuid.UUID) {
	t.SaleID = &saleID
}

// Amend corrects amount, date or description after the fact. The event
// carries the before snapshot so downstream aggregates can subtract the
// prior contribution and add the new one, splitting buckets when the date
// moved.
func (t *FinancialTransaction) Amend(amount valueobject.Money, date valueobject.Date, description string) error {
	if amount.IsZero() {
		return shared.NewInvalidArgument("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}
	if date.IsZero() {
		return shared.NewInvalidArgument("INVALID_DATE", "Transaction date is required")
	}

	before := t.Snapshot()
	t.Amount = amount
	t.Date = date
	t.Description = description
	t.touch()

	t.AddDomainEvent(NewTransactionUpdatedEvent(t, before))
	return nil
}

// MarkDeleted raises the deletion event carrying the final snapshot. The
// repository performs the actual removal.
func (t *FinancialTransaction) MarkDeleted() {
	t.AddDomainEvent(NewTransactionDeletedEvent(t))
}

func (t *FinancialTransaction) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
