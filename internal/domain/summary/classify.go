package summary

import (
	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
)

// ClassifyTransaction computes the counters one ledger entry contributes
// to its date bucket. Sales add revenue; expenses and receivable payments
// are stored negative on the ledger and accumulate as positive totals in
// their own counters, with receivable payments also counting as revenue
// because they collect earlier sales.
func ClassifyTransaction(s finance.TransactionSnapshot) Counters {
	var c Counters
	amount := s.Amount.Amount()
	switch s.Type {
	case finance.TransactionTypeSale:
		c.RevenueTotal = amount
	case finance.TransactionTypeExpense:
		c.ExpenseTotal = amount.Abs()
	case finance.TransactionTypeReceivablePayment:
		c.ReceivablePaymentsTotal = amount.Abs()
		c.RevenueTotal = amount.Abs()
	}
	return c
}

// ClassifySale computes the counters one sale contributes to its date
// bucket. Cancelled sales contribute nothing.
func ClassifySale(s sales.SaleSnapshot) Counters {
	var c Counters
	if s.Status != sales.SaleStatusCompleted {
		return c
	}
	c.SalesCount = 1
	c.SalesTotal = s.Net.Amount()
	return c
}

// ClassifyContractTransition computes flow counters from a status
// transition. Detection is edge-triggered (wasX && !isX), never a
// comparison of absolute snapshots, so unrelated field edits on the same
// document can never double-count.
func ClassifyContractTransition(previous, next membership.ContractStatus) Counters {
	var c Counters
	if previous == next {
		return c
	}

	wasActive := previous == membership.ContractStatusActive
	isActive := next == membership.ContractStatusActive
	if isActive && !wasActive {
		c.ActiveContractsDelta++
	}
	if wasActive && !isActive {
		c.ActiveContractsDelta--
	}

	if next == membership.ContractStatusSuspended && previous != membership.ContractStatusSuspended {
		c.ContractsSuspended++
	}
	if next == membership.ContractStatusScheduledCancellation && previous != membership.ContractStatusScheduledCancellation {
		c.ScheduledCancellations++
	}
	if next == membership.ContractStatusCancelled && previous != membership.ContractStatusCancelled {
		c.ContractsCancelled++
		c.Churn++
	}
	return c
}

// ContractCreatedCounters is the contribution of a newly created contract
func ContractCreatedCounters() Counters {
	return Counters{
		ContractsStarted:     1,
		ActiveContractsDelta: 1,
	}
}

// ChangeDeltas turns a before/after pair of classified contributions into
// the increments to apply. When the bucket date moved, the full before
// contribution is reversed on the old date and the full after
// contribution lands on the new date; otherwise a single net delta is
// emitted. Nil snapshots express creation (before nil) and deletion
// (after nil). Zero deltas are dropped.
func ChangeDeltas(scope shared.Scope, before, after *DatedCounters) []Delta {
	var deltas []Delta
	emit := func(d Delta) {
		if !d.Counters.IsZero() {
			deltas = append(deltas, d)
		}
	}

	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		emit(Delta{Scope: scope, Date: after.Date, Counters: after.Counters})
	case after == nil:
		emit(Delta{Scope: scope, Date: before.Date, Counters: before.Counters.Negate()})
	case before.Date.Equal(after.Date):
		emit(Delta{Scope: scope, Date: after.Date, Counters: before.Counters.Negate().Add(after.Counters)})
	default:
		emit(Delta{Scope: scope, Date: before.Date, Counters: before.Counters.Negate()})
		emit(Delta{Scope: scope, Date: after.Date, Counters: after.Counters})
	}
	return deltas
}

// DatedCounters pairs a contribution with the bucket it belongs to
type DatedCounters struct {
	Date valueobject.Date
	Counters
}

// Dated builds a DatedCounters for ChangeDeltas
func Dated(date valueobject.Date, c Counters) *DatedCounters {
	return &DatedCounters{Date: date, Counters: c}
}
