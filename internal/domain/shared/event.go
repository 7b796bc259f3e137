package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened inside an aggregate. Every
// event carries the scope it happened in so consumers never have to
// look up tenancy separately.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
	BranchID() uuid.UUID
}

// BaseDomainEvent carries the fields shared by every event. Embed it
// by value so events stay plain serializable structs.
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggID         uuid.UUID `json:"aggregate_id"`
	AggType       string    `json:"aggregate_type"`
	TenantIDValue uuid.UUID `json:"tenant_id"`
	BranchIDValue uuid.UUID `json:"branch_id"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID { return e.ID }

func (e *BaseDomainEvent) EventType() string { return e.Type }

func (e *BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }

func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }

func (e *BaseDomainEvent) AggregateType() string { return e.AggType }

func (e *BaseDomainEvent) TenantID() uuid.UUID { return e.TenantIDValue }

func (e *BaseDomainEvent) BranchID() uuid.UUID { return e.BranchIDValue }

// NewBaseDomainEvent stamps a fresh event with an ID, the current time
// and the originating scope.
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID, scope Scope) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     time.Now(),
		AggID:         aggID,
		AggType:       aggType,
		TenantIDValue: scope.TenantID,
		BranchIDValue: scope.BranchID,
	}
}
