package summary

import (
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Counters are the additive metrics a summary document accumulates.
// They are only ever mutated through atomic increments; a Counters value
// here is always a delta or a read snapshot, never a working copy to
// write back.
type Counters struct {
	RevenueTotal            decimal.Decimal `json:"revenue_total"`
	ExpenseTotal            decimal.Decimal `json:"expense_total"`
	ReceivablePaymentsTotal decimal.Decimal `json:"receivable_payments_total"`
	SalesCount              int             `json:"sales_count"`
	SalesTotal              decimal.Decimal `json:"sales_total"`
	ContractsStarted        int             `json:"contracts_started"`
	ContractsCancelled      int             `json:"contracts_cancelled"`
	ContractsSuspended      int             `json:"contracts_suspended"`
	ScheduledCancellations  int             `json:"scheduled_cancellations"`
	ActiveContractsDelta    int             `json:"active_contracts_delta"`
	Churn                   int             `json:"churn"`
}

// IsZero reports whether applying the counters would change nothing
func (c Counters) IsZero() bool {
	return c.RevenueTotal.IsZero() &&
		c.ExpenseTotal.IsZero() &&
		c.ReceivablePaymentsTotal.IsZero() &&
		c.SalesCount == 0 &&
		c.SalesTotal.IsZero() &&
		c.ContractsStarted == 0 &&
		c.ContractsCancelled == 0 &&
		c.ContractsSuspended == 0 &&
		c.ScheduledCancellations == 0 &&
		c.ActiveContractsDelta == 0 &&
		c.Churn == 0
}

// Add returns the element-wise sum
func (c Counters) Add(other Counters) Counters {
	return Counters{
		RevenueTotal:            c.RevenueTotal.Add(other.RevenueTotal),
		ExpenseTotal:            c.ExpenseTotal.Add(other.ExpenseTotal),
		ReceivablePaymentsTotal: c.ReceivablePaymentsTotal.Add(other.ReceivablePaymentsTotal),
		SalesCount:              c.SalesCount + other.SalesCount,
		SalesTotal:              c.SalesTotal.Add(other.SalesTotal),
		ContractsStarted:        c.ContractsStarted + other.ContractsStarted,
		ContractsCancelled:      c.ContractsCancelled + other.ContractsCancelled,
		ContractsSuspended:      c.ContractsSuspended + other.ContractsSuspended,
		ScheduledCancellations:  c.ScheduledCancellations + other.ScheduledCancellations,
		ActiveContractsDelta:    c.ActiveContractsDelta + other.ActiveContractsDelta,
		Churn:                   c.Churn + other.Churn,
	}
}

// Negate returns the element-wise negation, used to reverse a prior
// contribution
func (c Counters) Negate() Counters {
	return Counters{
		RevenueTotal:            c.RevenueTotal.Neg(),
		ExpenseTotal:            c.ExpenseTotal.Neg(),
		ReceivablePaymentsTotal: c.ReceivablePaymentsTotal.Neg(),
		SalesCount:              -c.SalesCount,
		SalesTotal:              c.SalesTotal.Neg(),
		ContractsStarted:        -c.ContractsStarted,
		ContractsCancelled:      -c.ContractsCancelled,
		ContractsSuspended:      -c.ContractsSuspended,
		ScheduledCancellations:  -c.ScheduledCancellations,
		ActiveContractsDelta:    -c.ActiveContractsDelta,
		Churn:                   -c.Churn,
	}
}

// Delta is one atomic increment destined for the daily bucket of Date and
// the monthly bucket of Date's month
type Delta struct {
	Scope shared.Scope
	Date  valueobject.Date
	Counters
}

// DailySummary is the per-day aggregate document for one tenant branch.
// It is derived state: correct when the sum of all deltas ever applied
// equals the true aggregate.
type DailySummary struct {
	Scope shared.Scope
	Date  valueobject.Date
	Counters
}

// MonthlySummary is the per-month aggregate document, keyed "YYYY-MM"
type MonthlySummary struct {
	Scope shared.Scope
	Month string
	Counters
}
