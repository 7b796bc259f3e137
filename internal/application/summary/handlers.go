package summary

import (
	"context"
	"time"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/domain/summary"
	"go.uber.org/zap"
)

// The handlers below feed the daily and monthly summaries from the event
// stream. Delivery is at-least-once via the outbox processor: every
// handler computes a before/after delta from the event payload alone and
// never re-derives absolute totals, so replays after a mid-batch crash
// stay bounded. A true duplicate delivery of the same event would apply
// its delta twice; the idempotency store in front of the bus makes that
// rare, not impossible, and the risk is accepted rather than masked.

func applyDeltas(ctx context.Context, repo summary.Repository, logger *zap.Logger, deltas []summary.Delta) error {
	for _, delta := range deltas {
		if err := repo.ApplyDelta(ctx, delta); err != nil {
			logger.Error("failed to apply summary delta",
				zap.String("date", delta.Date.String()), zap.Error(err))
			return err
		}
	}
	return nil
}

func eventScope(event shared.DomainEvent) shared.Scope {
	return shared.Scope{TenantID: event.TenantID(), BranchID: event.BranchID()}
}

// TransactionSummaryHandler folds ledger entry changes into the summaries
type TransactionSummaryHandler struct {
	repo   summary.Repository
	logger *zap.Logger
}

// NewTransactionSummaryHandler creates a new TransactionSummaryHandler
func NewTransactionSummaryHandler(repo summary.Repository, logger *zap.Logger) *TransactionSummaryHandler {
	return &TransactionSummaryHandler{repo: repo, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *TransactionSummaryHandler) EventTypes() []string {
	return []string{
		finance.EventTypeTransactionCreated,
		finance.EventTypeTransactionUpdated,
		finance.EventTypeTransactionDeleted,
	}
}

// Handle applies the transaction's contribution delta
func (h *TransactionSummaryHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	scope := eventScope(event)
	var deltas []summary.Delta

	switch e := event.(type) {
	case *finance.TransactionCreatedEvent:
		deltas = summary.ChangeDeltas(scope, nil,
			summary.Dated(e.After.Date, summary.ClassifyTransaction(e.After)))
	case *finance.TransactionUpdatedEvent:
		deltas = summary.ChangeDeltas(scope,
			summary.Dated(e.Before.Date, summary.ClassifyTransaction(e.Before)),
			summary.Dated(e.After.Date, summary.ClassifyTransaction(e.After)))
	case *finance.TransactionDeletedEvent:
		deltas = summary.ChangeDeltas(scope,
			summary.Dated(e.Before.Date, summary.ClassifyTransaction(e.Before)), nil)
	default:
		return nil
	}

	return applyDeltas(ctx, h.repo, h.logger, deltas)
}

// SaleSummaryHandler folds sale changes into the summaries
type SaleSummaryHandler struct {
	repo   summary.Repository
	logger *zap.Logger
}

// NewSaleSummaryHandler creates a new SaleSummaryHandler
func NewSaleSummaryHandler(repo summary.Repository, logger *zap.Logger) *SaleSummaryHandler {
	return &SaleSummaryHandler{repo: repo, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *SaleSummaryHandler) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCreated,
		sales.EventTypeSaleUpdated,
		sales.EventTypeSaleDeleted,
	}
}

// Handle applies the sale's contribution delta
func (h *SaleSummaryHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	scope := eventScope(event)
	var deltas []summary.Delta

	switch e := event.(type) {
	case *sales.SaleCreatedEvent:
		deltas = summary.ChangeDeltas(scope, nil,
			summary.Dated(e.After.SaleDate, summary.ClassifySale(e.After)))
	case *sales.SaleUpdatedEvent:
		deltas = summary.ChangeDeltas(scope,
			summary.Dated(e.Before.SaleDate, summary.ClassifySale(e.Before)),
			summary.Dated(e.After.SaleDate, summary.ClassifySale(e.After)))
	case *sales.SaleDeletedEvent:
		deltas = summary.ChangeDeltas(scope,
			summary.Dated(e.Before.SaleDate, summary.ClassifySale(e.Before)), nil)
	default:
		return nil
	}

	return applyDeltas(ctx, h.repo, h.logger, deltas)
}

// ContractSummaryHandler folds contract flow metrics into the summaries.
// Status changes carry a previous/new pair; classification is
// edge-triggered so unrelated edits never move a counter.
type ContractSummaryHandler struct {
	repo   summary.Repository
	logger *zap.Logger
}

// NewContractSummaryHandler creates a new ContractSummaryHandler
func NewContractSummaryHandler(repo summary.Repository, logger *zap.Logger) *ContractSummaryHandler {
	return &ContractSummaryHandler{repo: repo, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *ContractSummaryHandler) EventTypes() []string {
	return []string{
		membership.EventTypeContractCreated,
		membership.EventTypeContractStatusChanged,
	}
}

// Handle applies the contract transition delta to the bucket of the day
// the transition happened
func (h *ContractSummaryHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	scope := eventScope(event)
	bucket := valueobject.DateOf(event.OccurredAt(), time.UTC)
	var counters summary.Counters

	switch e := event.(type) {
	case *membership.ContractCreatedEvent:
		counters = summary.ContractCreatedCounters()
	case *membership.ContractStatusChangedEvent:
		counters = summary.ClassifyContractTransition(e.PreviousStatus, e.NewStatus)
	default:
		return nil
	}

	deltas := summary.ChangeDeltas(scope, nil, summary.Dated(bucket, counters))
	return applyDeltas(ctx, h.repo, h.logger, deltas)
}
