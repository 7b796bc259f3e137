package finance

import (
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

const (
	EventTypeReceivableCreated        = "ReceivableCreated"
	EventTypeReceivablePaymentApplied = "ReceivablePaymentApplied"
	EventTypeReceivableCancelled      = "ReceivableCancelled"
)

// ReceivableCreatedEvent is raised when a new receivable is opened
type ReceivableCreatedEvent struct {
	shared.BaseDomainEvent
	ReceivableID   uuid.UUID         `json:"receivable_id"`
	ReceivableCode string            `json:"receivable_code"`
	ClientID       uuid.UUID         `json:"client_id"`
	Amount         valueobject.Money `json:"amount"`
	DueDate        *valueobject.Date `json:"due_date,omitempty"`
}

// EventType returns the event type name
func (e *ReceivableCreatedEvent) EventType() string {
	return EventTypeReceivableCreated
}

// NewReceivableCreatedEvent creates a new ReceivableCreatedEvent
func NewReceivableCreatedEvent(r *Receivable) *ReceivableCreatedEvent {
	return &ReceivableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableCreated, "Receivable", r.ID, r.Scope()),
		ReceivableID:    r.ID,
		ReceivableCode:  r.ReceivableCode,
		ClientID:        r.ClientID,
		Amount:          r.Amount,
		DueDate:         r.DueDate,
	}
}

// ReceivablePaymentAppliedEvent is raised each time a payment lands on a
// receivable
type ReceivablePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	ReceivableID uuid.UUID         `json:"receivable_id"`
	ClientID     uuid.UUID         `json:"client_id"`
	AmountPaid   valueobject.Money `json:"amount_paid"`
	NewBalance   valueobject.Money `json:"new_balance"`
	FullyPaid    bool              `json:"fully_paid"`
}

// EventType returns the event type name
func (e *ReceivablePaymentAppliedEvent) EventType() string {
	return EventTypeReceivablePaymentApplied
}

// NewReceivablePaymentAppliedEvent creates a new ReceivablePaymentAppliedEvent
func NewReceivablePaymentAppliedEvent(r *Receivable, paid valueobject.Money) *ReceivablePaymentAppliedEvent {
	return &ReceivablePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivablePaymentApplied, "Receivable", r.ID, r.Scope()),
		ReceivableID:    r.ID,
		ClientID:        r.ClientID,
		AmountPaid:      paid,
		NewBalance:      r.Balance,
		FullyPaid:       r.Status == ReceivableStatusPaid,
	}
}

// ReceivableCancelledEvent is raised when an open receivable is voided
type ReceivableCancelledEvent struct {
	shared.BaseDomainEvent
	ReceivableID     uuid.UUID         `json:"receivable_id"`
	ClientID         uuid.UUID         `json:"client_id"`
	CancelledBalance valueobject.Money `json:"cancelled_balance"`
	Reason           string            `json:"reason,omitempty"`
}

// EventType returns the event type name
func (e *ReceivableCancelledEvent) EventType() string {
	return EventTypeReceivableCancelled
}

// NewReceivableCancelledEvent creates a new ReceivableCancelledEvent
func NewReceivableCancelledEvent(r *Receivable) *ReceivableCancelledEvent {
	return &ReceivableCancelledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReceivableCancelled, "Receivable", r.ID, r.Scope()),
		ReceivableID:     r.ID,
		ClientID:         r.ClientID,
		CancelledBalance: r.Balance,
		Reason:           r.CancelReason,
	}
}
