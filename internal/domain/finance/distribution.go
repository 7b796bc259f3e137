package finance

import (
	"sort"

	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentAllocation is one receivable's share of a distributed payment
type PaymentAllocation struct {
	ReceivableID uuid.UUID
	Amount       valueobject.Money
	// NewBalance is the receivable balance once this allocation lands
	NewBalance valueobject.Money
	FullyPaid  bool
}

// PaymentDistribution is the result of spreading a payment amount over a
// set of open receivables
type PaymentDistribution struct {
	Allocations      []PaymentAllocation
	TotalDistributed valueobject.Money
	// RemainingAmount is whatever could not be applied because the open
	// balances ran out. Normal operation leaves this at zero.
	RemainingAmount valueobject.Money
}

// DistributePayment spreads amount over the receivables oldest debt
// first: ascending due date, receivables without a due date last, ties
// broken by creation time. Each receivable absorbs min(remaining,
// balance). The function only computes the plan; callers apply it.
func DistributePayment(receivables []*Receivable, amount valueobject.Money) PaymentDistribution {
	ordered := make([]*Receivable, len(receivables))
	copy(ordered, receivables)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case a.DueDate.Equal(*b.DueDate):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})

	remaining := amount
	total := valueobject.Zero(amount.Currency())
	var allocations []PaymentAllocation

	for _, r := range ordered {
		if remaining.IsZero() {
			break
		}
		if !r.IsOpen() || !r.Balance.IsPositive() {
			continue
		}

		allocated := remaining.Min(r.Balance)
		remaining = remaining.MustSubtract(allocated)
		total = total.MustAdd(allocated)
		newBalance := r.Balance.MustSubtract(allocated)

		allocations = append(allocations, PaymentAllocation{
			ReceivableID: r.ID,
			Amount:       allocated,
			NewBalance:   newBalance,
			FullyPaid:    newBalance.IsZero(),
		})
	}

	return PaymentDistribution{
		Allocations:      allocations,
		TotalDistributed: total,
		RemainingAmount:  remaining,
	}
}
