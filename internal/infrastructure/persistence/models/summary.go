package models

import (
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/domain/summary"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// summaryCounters holds the additive counter columns shared by the daily
// and monthly tables
type summaryCounters struct {
	RevenueTotal            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ExpenseTotal            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ReceivablePaymentsTotal decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SalesCount              int             `gorm:"not null;default:0"`
	SalesTotal              decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ContractsStarted        int             `gorm:"not null;default:0"`
	ContractsCancelled      int             `gorm:"not null;default:0"`
	ContractsSuspended      int             `gorm:"not null;default:0"`
	ScheduledCancellations  int             `gorm:"not null;default:0"`
	ActiveContractsDelta    int             `gorm:"not null;default:0"`
	Churn                   int             `gorm:"not null;default:0"`
}

func (c *summaryCounters) toDomain() summary.Counters {
	return summary.Counters{
		RevenueTotal:            c.RevenueTotal,
		ExpenseTotal:            c.ExpenseTotal,
		ReceivablePaymentsTotal: c.ReceivablePaymentsTotal,
		SalesCount:              c.SalesCount,
		SalesTotal:              c.SalesTotal,
		ContractsStarted:        c.ContractsStarted,
		ContractsCancelled:      c.ContractsCancelled,
		ContractsSuspended:      c.ContractsSuspended,
		ScheduledCancellations:  c.ScheduledCancellations,
		ActiveContractsDelta:    c.ActiveContractsDelta,
		Churn:                   c.Churn,
	}
}

// DailySummaryModel is the persistence model for per-day aggregates.
// One row per (tenant, branch, date); counters only ever change through
// atomic increments.
type DailySummaryModel struct {
	TenantID  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	BranchID  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Date      valueobject.Date `gorm:"type:date;primaryKey"`
	summaryCounters
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DailySummaryModel) TableName() string {
	return "daily_summaries"
}

// ToDomain converts the persistence model to a domain DailySummary
func (m *DailySummaryModel) ToDomain() *summary.DailySummary {
	return &summary.DailySummary{
		Scope:    shared.Scope{TenantID: m.TenantID, BranchID: m.BranchID},
		Date:     m.Date,
		Counters: m.summaryCounters.toDomain(),
	}
}

// MonthlySummaryModel is the persistence model for per-month aggregates.
// One row per (tenant, branch, month), month formatted YYYY-MM.
type MonthlySummaryModel struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Month    string    `gorm:"type:varchar(7);primaryKey"`
	summaryCounters
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MonthlySummaryModel) TableName() string {
	return "monthly_summaries"
}

// ToDomain converts the persistence model to a domain MonthlySummary
func (m *MonthlySummaryModel) ToDomain() *summary.MonthlySummary {
	return &summary.MonthlySummary{
		Scope:    shared.Scope{TenantID: m.TenantID, BranchID: m.BranchID},
		Month:    m.Month,
		Counters: m.summaryCounters.toDomain(),
	}
}

// SetCounters copies domain counters onto the daily model's columns
func (m *DailySummaryModel) SetCounters(c summary.Counters) {
	m.summaryCounters = countersFromDomain(c)
}

// SetCounters copies domain counters onto the monthly model's columns
func (m *MonthlySummaryModel) SetCounters(c summary.Counters) {
	m.summaryCounters = countersFromDomain(c)
}

func countersFromDomain(c summary.Counters) summaryCounters {
	return summaryCounters{
		RevenueTotal:            c.RevenueTotal,
		ExpenseTotal:            c.ExpenseTotal,
		ReceivablePaymentsTotal: c.ReceivablePaymentsTotal,
		SalesCount:              c.SalesCount,
		SalesTotal:              c.SalesTotal,
		ContractsStarted:        c.ContractsStarted,
		ContractsCancelled:      c.ContractsCancelled,
		ContractsSuspended:      c.ContractsSuspended,
		ScheduledCancellations:  c.ScheduledCancellations,
		ActiveContractsDelta:    c.ActiveContractsDelta,
		Churn:                   c.Churn,
	}
}
