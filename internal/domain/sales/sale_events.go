package sales

import (
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventTypeSaleCreated = "SaleCreated"
	EventTypeSaleUpdated = "SaleUpdated"
	EventTypeSaleDeleted = "SaleDeleted"
)

// SaleCreatedEvent is raised when a new sale commits
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID   uuid.UUID    `json:"sale_id"`
	SaleCode string       `json:"sale_code"`
	ClientID uuid.UUID    `json:"client_id"`
	After    SaleSnapshot `json:"after"`
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return EventTypeSaleCreated
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, "Sale", s.ID, s.Scope()),
		SaleID:          s.ID,
		SaleCode:        s.SaleCode,
		ClientID:        s.ClientID,
		After:           s.Snapshot(),
	}
}

// SaleUpdatedEvent carries before and after snapshots so the aggregator
// can move contributions between date buckets
type SaleUpdatedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID    `json:"sale_id"`
	Before SaleSnapshot `json:"before"`
	After  SaleSnapshot `json:"after"`
}

// EventType returns the event type name
func (e *SaleUpdatedEvent) EventType() string {
	return EventTypeSaleUpdated
}

// NewSaleUpdatedEvent creates a new SaleUpdatedEvent
func NewSaleUpdatedEvent(s *Sale, before SaleSnapshot) *SaleUpdatedEvent {
	return &SaleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleUpdated, "Sale", s.ID, s.Scope()),
		SaleID:          s.ID,
		Before:          before,
		After:           s.Snapshot(),
	}
}

// SaleDeletedEvent carries the final snapshot so the aggregator can
// reverse the contribution
type SaleDeletedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID    `json:"sale_id"`
	Before SaleSnapshot `json:"before"`
}

// EventType returns the event type name
func (e *SaleDeletedEvent) EventType() string {
	return EventTypeSaleDeleted
}

// NewSaleDeletedEvent creates a new SaleDeletedEvent
func NewSaleDeletedEvent(s *Sale) *SaleDeletedEvent {
	return &SaleDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleDeleted, "Sale", s.ID, s.Scope()),
		SaleID:          s.ID,
		Before:          s.Snapshot(),
	}
}
