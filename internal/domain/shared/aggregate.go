package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is an entity that records domain events while it
// mutates. A repository drains the events into the outbox when it
// persists the aggregate.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides versioning and event recording. Version
// backs optimistic locking.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// BranchAggregateRoot scopes an aggregate to one tenant/branch pair.
// Every business aggregate in the system is owned by exactly one pair;
// cross-branch access is never allowed.
type BranchAggregateRoot struct {
	BaseAggregateRoot
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func NewBranchAggregateRoot(tenantID, branchID uuid.UUID) BranchAggregateRoot {
	return BranchAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
		BranchID:          branchID,
	}
}

// Scope returns the pair owning this aggregate.
func (a *BranchAggregateRoot) Scope() Scope {
	return Scope{TenantID: a.TenantID, BranchID: a.BranchID}
}

// Scope identifies a tenant/branch pair. It is passed explicitly through
// every application-service operation.
type Scope struct {
	TenantID uuid.UUID
	BranchID uuid.UUID
}

// IsZero reports whether either component of the scope is missing.
func (s Scope) IsZero() bool {
	return s.TenantID == uuid.Nil || s.BranchID == uuid.Nil
}
