package event

import (
	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/sales"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Membership domain - Contract events
	serializer.Register("ContractCreated", &membership.ContractCreatedEvent{})
	serializer.Register("ContractStatusChanged", &membership.ContractStatusChangedEvent{})

	// Membership domain - Suspension events
	serializer.Register("SuspensionScheduled", &membership.SuspensionScheduledEvent{})
	serializer.Register("SuspensionActivated", &membership.SuspensionActivatedEvent{})
	serializer.Register("SuspensionStopped", &membership.SuspensionStoppedEvent{})
	serializer.Register("SuspensionCancelled", &membership.SuspensionCancelledEvent{})

	// Finance domain - Receivable events
	serializer.Register("ReceivableCreated", &finance.ReceivableCreatedEvent{})
	serializer.Register("ReceivablePaymentApplied", &finance.ReceivablePaymentAppliedEvent{})
	serializer.Register("ReceivableCancelled", &finance.ReceivableCancelledEvent{})

	// Finance domain - Financial transaction events
	serializer.Register("TransactionCreated", &finance.TransactionCreatedEvent{})
	serializer.Register("TransactionUpdated", &finance.TransactionUpdatedEvent{})
	serializer.Register("TransactionDeleted", &finance.TransactionDeletedEvent{})

	// Sales domain events
	serializer.Register("SaleCreated", &sales.SaleCreatedEvent{})
	serializer.Register("SaleUpdated", &sales.SaleUpdatedEvent{})
	serializer.Register("SaleDeleted", &sales.SaleDeletedEvent{})
}
