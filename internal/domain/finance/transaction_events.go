package finance

import (
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventTypeTransactionCreated = "TransactionCreated"
	EventTypeTransactionUpdated = "TransactionUpdated"
	EventTypeTransactionDeleted = "TransactionDeleted"
)

// TransactionCreatedEvent is raised when a new ledger entry is recorded
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	TransactionID   uuid.UUID           `json:"transaction_id"`
	TransactionCode string              `json:"transaction_code"`
	After           TransactionSnapshot `json:"after"`
}

// EventType returns the event type name
func (e *TransactionCreatedEvent) EventType() string {
	return EventTypeTransactionCreated
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(t *FinancialTransaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCreated, "FinancialTransaction", t.ID, t.Scope()),
		TransactionID:   t.ID,
		TransactionCode: t.TransactionCode,
		After:           t.Snapshot(),
	}
}

// TransactionUpdatedEvent carries both the before and after snapshots so
// the aggregator can move the contribution between date buckets
type TransactionUpdatedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID           `json:"transaction_id"`
	Before        TransactionSnapshot `json:"before"`
	After         TransactionSnapshot `json:"after"`
}

// EventType returns the event type name
func (e *TransactionUpdatedEvent) EventType() string {
	return EventTypeTransactionUpdated
}

// NewTransactionUpdatedEvent creates a new TransactionUpdatedEvent
func NewTransactionUpdatedEvent(t *FinancialTransaction, before TransactionSnapshot) *TransactionUpdatedEvent {
	return &TransactionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionUpdated, "FinancialTransaction", t.ID, t.Scope()),
		TransactionID:   t.ID,
		Before:          before,
		After:           t.Snapshot(),
	}
}

// TransactionDeletedEvent carries the final snapshot so the aggregator can
// reverse the contribution
type TransactionDeletedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID           `json:"transaction_id"`
	Before        TransactionSnapshot `json:"before"`
}

// EventType returns the event type name
func (e *TransactionDeletedEvent) EventType() string {
	return EventTypeTransactionDeleted
}

// NewTransactionDeletedEvent creates a new TransactionDeletedEvent
func NewTransactionDeletedEvent(t *FinancialTransaction) *TransactionDeletedEvent {
	return &TransactionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionDeleted, "FinancialTransaction", t.ID, t.Scope()),
		TransactionID:   t.ID,
		Before:          t.Snapshot(),
	}
}
