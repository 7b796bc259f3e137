package models

import (
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// BranchAggregateModel provides common persistence fields for aggregates
// owned by a (tenant, branch) pair. Every business table carries both
// columns and every query filters on both.
type BranchAggregateModel struct {
	AggregateModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:idx_scope,priority:1"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index:idx_scope,priority:2"`
}

// FromDomainBranchAggregateRoot populates BranchAggregateModel from domain BranchAggregateRoot
func (m *BranchAggregateModel) FromDomainBranchAggregateRoot(a shared.BranchAggregateRoot) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.TenantID = a.TenantID
	m.BranchID = a.BranchID
}

// PopulateBranchAggregateRoot populates a domain BranchAggregateRoot from persistence model
func (m *BranchAggregateModel) PopulateBranchAggregateRoot(a *shared.BranchAggregateRoot) {
	a.BaseEntity.ID = m.ID
	a.BaseEntity.CreatedAt = m.CreatedAt
	a.BaseEntity.UpdatedAt = m.UpdatedAt
	a.Version = m.Version
	a.TenantID = m.TenantID
	a.BranchID = m.BranchID
}
