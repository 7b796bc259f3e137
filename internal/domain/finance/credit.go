package finance

import (
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Credit is a client-held balance created when a sale's payments exceed
// its net total. Status derives from how much has been consumed.
type Credit struct {
	shared.BranchAggregateRoot
	ClientID uuid.UUID
	Amount   valueobject.Money
	Consumed valueobject.Money
	SaleID   *uuid.UUID
}

// NewCredit creates a new unconsumed credit
func NewCredit(scope shared.Scope, clientID uuid.UUID, amount valueobject.Money) (*Credit, error) {
	if scope.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_SCOPE", "Tenant and branch are required")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewInvalidArgument("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewInvalidArgument("INVALID_AMOUNT", "Credit amount must be positive")
	}

	return &Credit{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(scope.TenantID, scope.BranchID),
		ClientID:            clientID,
		Amount:              amount,
		Consumed:            valueobject.Zero(amount.Currency()),
	}, nil
}

// LinkSale records the overpaid sale the credit came from
func (c *Credit) LinkSale(saleID uuid.UUID) {
	c.SaleID = &saleID
}

// Available returns the unconsumed remainder
func (c *Credit) Available() valueobject.Money {
	return c.Amount.MustSubtract(c.Consumed)
}

// IsExhausted returns true once the whole credit has been consumed
func (c *Credit) IsExhausted() bool {
	return c.Available().IsZero()
}

// Consume spends part of the credit
func (c *Credit) Consume(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewInvalidArgument("INVALID_AMOUNT", "Consumption amount must be positive")
	}
	available := c.Available()
	if greater, err := amount.GreaterThan(available); err != nil {
		return shared.NewInvalidArgument("CURRENCY_MISMATCH", err.Error())
	} else if greater {
		return shared.NewFailedPrecondition("CREDIT_EXHAUSTED",
			"Consumption amount exceeds the available credit")
	}

	c.Consumed = c.Consumed.MustAdd(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
