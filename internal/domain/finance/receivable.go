package finance

import (
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceivableStatus represents the status of a client receivable
type ReceivableStatus string

const (
	ReceivableStatusOpen      ReceivableStatus = "OPEN"
	ReceivableStatusPaid      ReceivableStatus = "PAID"
	ReceivableStatusCancelled ReceivableStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusOpen, ReceivableStatusPaid, ReceivableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// Receivable is a debt a client owes the branch, usually the unpaid
// portion of a sale.
//
// Invariant: zero <= Balance <= Amount while the receivable lives, and
// Balance only ever decreases through ApplyPayment.
type Receivable struct {
	shared.BranchAggregateRoot
	ReceivableCode string
	ClientID       uuid.UUID
	Description    string
	Amount         valueobject.Money
	Balance        valueobject.Money
	// DueDate is nil for receivables without a collection deadline; the
	// payment distributor sorts those last
	DueDate    *valueobject.Date
	Status     ReceivableStatus
	SaleID     *uuid.UUID
	ContractID *uuid.UUID

	CancelReason string
}

// NewReceivable creates a new open receivable carrying the full amount
// as its balance
func NewReceivable(
	scope shared.Scope,
	receivableCode string,
	clientID uuid.UUID,
	description string,
	amount valueobject.Money,
	dueDate *valueobject.Date,
) (*Receivable, error) {
	if scope.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_SCOPE", "Tenant and branch are required")
	}
	if receivableCode == "" {
		return nil, shared.NewInvalidArgument("INVALID_RECEIVABLE_CODE", "Receivable code cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewInvalidArgument("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewInvalidArgument("INVALID_AMOUNT", "Receivable amount must be positive")
	}

	r := &Receivable{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(scope.TenantID, scope.BranchID),
		ReceivableCode:      receivableCode,
		ClientID:            clientID,
		Description:         description,
		Amount:              amount,
		Balance:             amount,
		DueDate:             dueDate,
		Status:              ReceivableStatusOpen,
	}

	r.AddDomainEvent(NewReceivableCreatedEvent(r))

	return r, nil
}

// LinkSale records the sale that produced this receivable
func (r *Receivable) LinkSale(saleID uuid.UUID) {
	r.SaleID = &saleID
}

// LinkContract records the contract this receivable collects for
func (r *Receivable) LinkContract(contractID uuid.UUID) {
	r.ContractID = &contractID
}

// IsOpen returns true while the receivable still accepts payments
func (r *Receivable) IsOpen() bool {
	return r.Status == ReceivableStatusOpen
}

// ApplyPayment reduces the balance by the given amount. The receivable
// becomes PAID exactly when the balance reaches zero; overshooting is an
// invalid argument because the distributor already clamps allocations.
func (r *Receivable) ApplyPayment(amount valueobject.Money) error {
	if !r.IsOpen() {
		return shared.NewFailedPrecondition("RECEIVABLE_NOT_OPEN",
			"Payments can only be applied to open receivables")
	}
	if !amount.IsPositive() {
		return shared.NewInvalidArgument("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	newBalance, err := r.Balance.Subtract(amount)
	if err != nil {
		return shared.NewInvalidArgument("CURRENCY_MISMATCH", err.Error())
	}
	if newBalance.IsNegative() {
		return shared.NewInvalidArgument("PAYMENT_EXCEEDS_BALANCE",
			"Payment amount exceeds the outstanding balance")
	}

	r.Balance = newBalance
	if r.Balance.IsZero() {
		r.Status = ReceivableStatusPaid
	}
	r.touch()

	r.AddDomainEvent(NewReceivablePaymentAppliedEvent(r, amount))
	return nil
}

// Cancel voids an open receivable. Paid receivables stay paid.
func (r *Receivable) Cancel(reason string) error {
	if r.Status == ReceivableStatusCancelled {
		return nil
	}
	if r.Status != ReceivableStatusOpen {
		return shared.NewFailedPrecondition("RECEIVABLE_NOT_OPEN",
			"Only open receivables can be cancelled")
	}

	r.Status = ReceivableStatusCancelled
	r.CancelReason = reason
	r.touch()

	r.AddDomainEvent(NewReceivableCancelledEvent(r))
	return nil
}

// Version stays at its loaded value; the repository bumps it on save.
func (r *Receivable) touch() {
	r.UpdatedAt = time.Now()
}
