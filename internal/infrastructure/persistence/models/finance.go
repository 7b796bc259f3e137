package models

import (
	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceivableModel is the persistence model for receivables
type ReceivableModel struct {
	BranchAggregateModel
	ReceivableCode string            `gorm:"type:varchar(50);not null;index"`
	ClientID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_receivable_client_status,priority:1"`
	Description    string            `gorm:"type:text"`
	Amount         valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Balance        valueobject.Money `gorm:"type:decimal(18,2);not null"`
	DueDate        *valueobject.Date `gorm:"type:date;index"`
	Status         string            `gorm:"type:varchar(20);not null;index:idx_receivable_client_status,priority:2"`
	SaleID         *uuid.UUID        `gorm:"type:uuid;index"`
	ContractID     *uuid.UUID        `gorm:"type:uuid;index"`
	CancelReason   string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReceivableModel) TableName() string {
	return "receivables"
}

// ToDomain converts the persistence model to a domain Receivable
func (m *ReceivableModel) ToDomain() *finance.Receivable {
	r := &finance.Receivable{
		ReceivableCode: m.ReceivableCode,
		ClientID:       m.ClientID,
		Description:    m.Description,
		Amount:         m.Amount,
		Balance:        m.Balance,
		DueDate:        m.DueDate,
		Status:         finance.ReceivableStatus(m.Status),
		SaleID:         m.SaleID,
		ContractID:     m.ContractID,
		CancelReason:   m.CancelReason,
	}
	m.PopulateBranchAggregateRoot(&r.BranchAggregateRoot)
	return r
}

// ReceivableModelFromDomain creates a persistence model from a domain Receivable
func ReceivableModelFromDomain(r *finance.Receivable) *ReceivableModel {
	m := &ReceivableModel{
		ReceivableCode: r.ReceivableCode,
		ClientID:       r.ClientID,
		Description:    r.Description,
		Amount:         r.Amount,
		Balance:        r.Balance,
		DueDate:        r.DueDate,
		Status:         string(r.Status),
		SaleID:         r.SaleID,
		ContractID:     r.ContractID,
		CancelReason:   r.CancelReason,
	}
	m.FromDomainBranchAggregateRoot(r.BranchAggregateRoot)
	return m
}

// FinancialTransactionModel is the persistence model for ledger entries
type FinancialTransactionModel struct {
	BranchAggregateModel
	TransactionCode string            `gorm:"type:varchar(50);not null;index"`
	Type            string            `gorm:"type:varchar(30);not null;index:idx_transaction_type_date,priority:1"`
	Amount          valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Date            valueobject.Date  `gorm:"type:date;not null;index:idx_transaction_type_date,priority:2"`
	Description     string            `gorm:"type:text"`
	PaymentMethod   string            `gorm:"type:varchar(50)"`
	ClientID        *uuid.UUID        `gorm:"type:uuid;index"`
	SaleID          *uuid.UUID        `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (FinancialTransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the persistence model to a domain FinancialTransaction
func (m *FinancialTransactionModel) ToDomain() *finance.FinancialTransaction {
	t := &finance.FinancialTransaction{
		TransactionCode: m.TransactionCode,
		Type:            finance.TransactionType(m.Type),
		Amount:          m.Amount,
		Date:            m.Date,
		Description:     m.Description,
		PaymentMethod:   m.PaymentMethod,
		ClientID:        m.ClientID,
		SaleID:          m.SaleID,
	}
	m.PopulateBranchAggregateRoot(&t.BranchAggregateRoot)
	return t
}

// FinancialTransactionModelFromDomain creates a persistence model from a domain FinancialTransaction
func FinancialTransactionModelFromDomain(t *finance.FinancialTransaction) *FinancialTransactionModel {
	m := &FinancialTransactionModel{
		TransactionCode: t.TransactionCode,
		Type:            string(t.Type),
		Amount:          t.Amount,
		Date:            t.Date,
		Description:     t.Description,
		PaymentMethod:   t.PaymentMethod,
		ClientID:        t.ClientID,
		SaleID:          t.SaleID,
	}
	m.FromDomainBranchAggregateRoot(t.BranchAggregateRoot)
	return m
}

// CreditModel is the persistence model for client credits
type CreditModel struct {
	BranchAggregateModel
	ClientID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount   valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Consumed valueobject.Money `gorm:"type:decimal(18,2);not null"`
	SaleID   *uuid.UUID        `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CreditModel) TableName() string {
	return "client_credits"
}

// ToDomain converts the persistence model to a domain Credit
func (m *CreditModel) ToDomain() *finance.Credit {
	c := &finance.Credit{
		ClientID: m.ClientID,
		Amount:   m.Amount,
		Consumed: m.Consumed,
		SaleID:   m.SaleID,
	}
	m.PopulateBranchAggregateRoot(&c.BranchAggregateRoot)
	return c
}

// CreditModelFromDomain creates a persistence model from a domain Credit
func CreditModelFromDomain(c *finance.Credit) *CreditModel {
	m := &CreditModel{
		ClientID: c.ClientID,
		Amount:   c.Amount,
		Consumed: c.Consumed,
		SaleID:   c.SaleID,
	}
	m.FromDomainBranchAggregateRoot(c.BranchAggregateRoot)
	return m
}
