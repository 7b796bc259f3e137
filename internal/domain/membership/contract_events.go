package membership

import (
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Event type names for the membership context
const (
	EventTypeContractCreated       = "ContractCreated"
	EventTypeContractStatusChanged = "ContractStatusChanged"
	EventTypeSuspensionScheduled   = "SuspensionScheduled"
	EventTypeSuspensionActivated   = "SuspensionActivated"
	EventTypeSuspensionStopped     = "SuspensionStopped"
	EventTypeSuspensionCancelled   = "SuspensionCancelled"
)

// ContractCreatedEvent is raised when a new contract is created
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractID   uuid.UUID        `json:"contract_id"`
	ContractCode string           `json:"contract_code"`
	ClientID     uuid.UUID        `json:"client_id"`
	PlanName     string           `json:"plan_name"`
	Status       ContractStatus   `json:"status"`
	StartDate    valueobject.Date `json:"start_date"`
	EndDate      valueobject.Date `json:"end_date"`
}

// EventType returns the event type name
func (e *ContractCreatedEvent) EventType() string {
	return EventTypeContractCreated
}

// NewContractCreatedEvent creates a new ContractCreatedEvent
func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractCreated, "Contract", c.ID, c.Scope()),
		ContractID:      c.ID,
		ContractCode:    c.ContractCode,
		ClientID:        c.ClientID,
		PlanName:        c.PlanName,
		Status:          c.Status,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
	}
}

// ContractStatusChangedEvent carries a before/after status pair so
// consumers can detect transitions instead of comparing absolute
// snapshots. The summary aggregator depends on this shape.
type ContractStatusChangedEvent struct {
	shared.BaseDomainEvent
	ContractID     uuid.UUID        `json:"contract_id"`
	ContractCode   string           `json:"contract_code"`
	ClientID       uuid.UUID        `json:"client_id"`
	PreviousStatus ContractStatus   `json:"previous_status"`
	NewStatus      ContractStatus   `json:"new_status"`
	CancelDate     valueobject.Date `json:"cancel_date,omitempty"`
	CancelReason   string           `json:"cancel_reason,omitempty"`
	Refunded       bool             `json:"refunded"`
}

// EventType returns the event type name
func (e *ContractStatusChangedEvent) EventType() string {
	return EventTypeContractStatusChanged
}

// NewContractStatusChangedEvent creates a new ContractStatusChangedEvent
func NewContractStatusChangedEvent(c *Contract, previous ContractStatus) *ContractStatusChangedEvent {
	return &ContractStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractStatusChanged, "Contract", c.ID, c.Scope()),
		ContractID:      c.ID,
		ContractCode:    c.ContractCode,
		ClientID:        c.ClientID,
		PreviousStatus:  previous,
		NewStatus:       c.Status,
		CancelDate:      c.CancelDate,
		CancelReason:    c.CancelReason,
		Refunded:        c.RefundedOnCancel,
	}
}

// SuspensionScheduledEvent is raised when a future suspension is booked
type SuspensionScheduledEvent struct {
	shared.BaseDomainEvent
	ContractID   uuid.UUID        `json:"contract_id"`
	SuspensionID uuid.UUID        `json:"suspension_id"`
	StartDate    valueobject.Date `json:"start_date"`
	EndDate      valueobject.Date `json:"end_date"`
	DaysUsed     int              `json:"days_used"`
}

// EventType returns the event type name
func (e *SuspensionScheduledEvent) EventType() string {
	return EventTypeSuspensionScheduled
}

// NewSuspensionScheduledEvent creates a new SuspensionScheduledEvent
func NewSuspensionScheduledEvent(c *Contract, s *Suspension) *SuspensionScheduledEvent {
	return &SuspensionScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSuspensionScheduled, "Contract", c.ID, c.Scope()),
		ContractID:      c.ID,
		SuspensionID:    s.ID,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		DaysUsed:        s.DaysUsed,
	}
}

// SuspensionActivatedEvent is raised when a suspension starts pausing the
// contract, either immediately on scheduling or later via the daily sweep
type SuspensionActivatedEvent struct {
	shared.BaseDomainEvent
	ContractID      uuid.UUID        `json:"contract_id"`
	SuspensionID    uuid.UUID        `json:"suspension_id"`
	DaysUsed        int              `json:"days_used"`
	PreviousEndDate valueobject.Date `json:"previous_end_date"`
	NewEndDate      valueobject.Date `json:"new_end_date"`
}

// EventType returns the event type name
func (e *SuspensionActivatedEvent) EventType() string {
	return EventTypeSuspensionActivated
}

// NewSuspensionActivatedEvent creates a new SuspensionActivatedEvent
func NewSuspensionActivatedEvent(c *Contract, s *Suspension) *SuspensionActivatedEvent {
	return &SuspensionActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSuspensionActivated, "Contract", c.ID, c.Scope()),
		ContractID:      c.ID,
		SuspensionID:    s.ID,
		DaysUsed:        s.DaysUsed,
		PreviousEndDate: s.PreviousEndDate,
		NewEndDate:      s.NewEndDate,
	}
}

// SuspensionStoppedEvent is raised when an active suspension ends early
type SuspensionStoppedEvent struct {
	shared.BaseDomainEvent
	ContractID         uuid.UUID        `json:"contract_id"`
	SuspensionID       uuid.UUID        `json:"suspension_id"`
	DaysActuallyUsed   int              `json:"days_actually_used"`
	UnusedDays         int              `json:"unused_days"`
	NewContractEndDate valueobject.Date `json:"new_contract_end_date"`
}

// EventType returns the event type name
func (e *SuspensionStoppedEvent) EventType() string {
	return EventTypeSuspensionStopped
}

// NewSuspensionStoppedEvent creates a new SuspensionStoppedEvent
func NewSuspensionStoppedEvent(c *Contract, s *Suspension, unusedDays int) *SuspensionStoppedEvent {
	return &SuspensionStoppedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeSuspensionStopped, "Contract", c.ID, c.Scope()),
		ContractID:         c.ID,
		SuspensionID:       s.ID,
		DaysActuallyUsed:   s.DaysUsed,
		UnusedDays:         unusedDays,
		NewContractEndDate: c.EndDate,
	}
}

// SuspensionCancelledEvent is raised when a scheduled suspension is revoked
type SuspensionCancelledEvent struct {
	shared.BaseDomainEvent
	ContractID   uuid.UUID `json:"contract_id"`
	SuspensionID uuid.UUID `json:"suspension_id"`
	ReturnedDays int       `json:"returned_days"`
}

// EventType returns the event type name
func (e *SuspensionCancelledEvent) EventType() string {
	return EventTypeSuspensionCancelled
}

// NewSuspensionCancelledEvent creates a new SuspensionCancelledEvent
func NewSuspensionCancelledEvent(c *Contract, s *Suspension) *SuspensionCancelledEvent {
	return &SuspensionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSuspensionCancelled, "Contract", c.ID, c.Scope()),
		ContractID:      c.ID,
		SuspensionID:    s.ID,
		ReturnedDays:    s.DaysUsed,
	}
}
