package models

import (
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ContractModel is the persistence model for membership contracts
type ContractModel struct {
	BranchAggregateModel
	ContractCode          string             `gorm:"type:varchar(50);not null;index"`
	ClientID              uuid.UUID          `gorm:"type:uuid;not null;index"`
	PlanName              string             `gorm:"type:varchar(255);not null"`
	Status                string             `gorm:"type:varchar(30);not null;index"`
	StartDate             valueobject.Date   `gorm:"type:date;not null"`
	EndDate               valueobject.Date   `gorm:"type:date"`
	AllowSuspension       bool               `gorm:"not null;default:false"`
	SuspensionMaxDays     int                `gorm:"not null;default:0"`
	TotalSuspendedDays    int                `gorm:"not null;default:0"`
	PendingSuspensionDays int                `gorm:"not null;default:0"`
	CancelDate            valueobject.Date   `gorm:"type:date;index"`
	CancelReason          string             `gorm:"type:text"`
	RefundedOnCancel      bool               `gorm:"not null;default:false"`
	SourceSaleID          *uuid.UUID         `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract
func (m *ContractModel) ToDomain() *membership.Contract {
	c := &membership.Contract{
		ContractCode:          m.ContractCode,
		ClientID:              m.ClientID,
		PlanName:              m.PlanName,
		Status:                membership.ContractStatus(m.Status),
		StartDate:             m.StartDate,
		EndDate:               m.EndDate,
		AllowSuspension:       m.AllowSuspension,
		SuspensionMaxDays:     m.SuspensionMaxDays,
		TotalSuspendedDays:    m.TotalSuspendedDays,
		PendingSuspensionDays: m.PendingSuspensionDays,
		CancelDate:            m.CancelDate,
		CancelReason:          m.CancelReason,
		RefundedOnCancel:      m.RefundedOnCancel,
		SourceSaleID:          m.SourceSaleID,
	}
	m.PopulateBranchAggregateRoot(&c.BranchAggregateRoot)
	return c
}

// ContractModelFromDomain creates a persistence model from a domain Contract
func ContractModelFromDomain(c *membership.Contract) *ContractModel {
	m := &ContractModel{
		ContractCode:          c.ContractCode,
		ClientID:              c.ClientID,
		PlanName:              c.PlanName,
		Status:                string(c.Status),
		StartDate:             c.StartDate,
		EndDate:               c.EndDate,
		AllowSuspension:       c.AllowSuspension,
		SuspensionMaxDays:     c.SuspensionMaxDays,
		TotalSuspendedDays:    c.TotalSuspendedDays,
		PendingSuspensionDays: c.PendingSuspensionDays,
		CancelDate:            c.CancelDate,
		CancelReason:          c.CancelReason,
		RefundedOnCancel:      c.RefundedOnCancel,
		SourceSaleID:          c.SourceSaleID,
	}
	m.FromDomainBranchAggregateRoot(c.BranchAggregateRoot)
	return m
}

// SuspensionModel is the persistence model for contract suspensions
type SuspensionModel struct {
	BaseModel
	ContractID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	TenantID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	BranchID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status          string           `gorm:"type:varchar(20);not null;index:idx_suspension_due,priority:1"`
	StartDate       valueobject.Date `gorm:"type:date;not null;index:idx_suspension_due,priority:2"`
	EndDate         valueobject.Date `gorm:"type:date;not null"`
	DaysUsed        int              `gorm:"not null;default:0"`
	Reason          string           `gorm:"type:text"`
	PreviousEndDate valueobject.Date `gorm:"type:date"`
	NewEndDate      valueobject.Date `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (SuspensionModel) TableName() string {
	return "contract_suspensions"
}

// ToDomain converts the persistence model to a domain Suspension
func (m *SuspensionModel) ToDomain() *membership.Suspension {
	return &membership.Suspension{
		BaseEntity:      m.BaseModel.ToDomain(),
		ContractID:      m.ContractID,
		TenantID:        m.TenantID,
		BranchID:        m.BranchID,
		Status:          membership.SuspensionStatus(m.Status),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		DaysUsed:        m.DaysUsed,
		Reason:          m.Reason,
		PreviousEndDate: m.PreviousEndDate,
		NewEndDate:      m.NewEndDate,
	}
}

// SuspensionModelFromDomain creates a persistence model from a domain Suspension
func SuspensionModelFromDomain(s *membership.Suspension) *SuspensionModel {
	m := &SuspensionModel{
		ContractID:      s.ContractID,
		TenantID:        s.TenantID,
		BranchID:        s.BranchID,
		Status:          string(s.Status),
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		DaysUsed:        s.DaysUsed,
		Reason:          s.Reason,
		PreviousEndDate: s.PreviousEndDate,
		NewEndDate:      s.NewEndDate,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}
