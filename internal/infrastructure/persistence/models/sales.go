package models

import (
	"encoding/json"

	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SaleModel is the persistence model for sales
type SaleModel struct {
	BranchAggregateModel
	SaleCode string           `gorm:"type:varchar(50);not null;index"`
	ClientID uuid.UUID        `gorm:"type:uuid;not null;index"`
	SaleDate valueobject.Date `gorm:"type:date;not null;index"`
	Status   string           `gorm:"type:varchar(20);not null;index"`

	GrossTotal    valueobject.Money `gorm:"type:decimal(18,2);not null"`
	DiscountTotal valueobject.Money `gorm:"type:decimal(18,2);not null"`
	NetTotal      valueobject.Money `gorm:"type:decimal(18,2);not null"`
	PaidTotal     valueobject.Money `gorm:"type:decimal(18,2);not null"`
	PendingTotal  valueobject.Money `gorm:"type:decimal(18,2);not null"`

	// Payments is a small bounded list, stored inline as JSON
	Payments []byte `gorm:"type:jsonb"`
	Notes    string `gorm:"type:text"`

	Items []SaleItemModel `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for sale line items
type SaleItemModel struct {
	BaseModel
	SaleID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type      string            `gorm:"type:varchar(20);not null"`
	Name      string            `gorm:"type:varchar(255);not null"`
	Quantity  int               `gorm:"not null;default:1"`
	UnitPrice valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Discount  valueobject.Money `gorm:"type:decimal(18,2);not null"`

	PlanName          string `gorm:"type:varchar(255)"`
	DurationDays      int    `gorm:"not null;default:0"`
	AllowSuspension   bool   `gorm:"not null;default:false"`
	SuspensionMaxDays int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	s := &sales.Sale{
		SaleCode: m.SaleCode,
		ClientID: m.ClientID,
		SaleDate: m.SaleDate,
		Status:   sales.SaleStatus(m.Status),
		Totals: sales.SaleTotals{
			Gross:    m.GrossTotal,
			Discount: m.DiscountTotal,
			Net:      m.NetTotal,
			Paid:     m.PaidTotal,
			Pending:  m.PendingTotal,
		},
		Notes: m.Notes,
	}
	if len(m.Payments) > 0 {
		// Payments were marshalled by us, a decode failure means a corrupt row
		_ = json.Unmarshal(m.Payments, &s.Payments)
	}
	s.Items = make([]sales.SaleItem, len(m.Items))
	for i := range m.Items {
		s.Items[i] = *m.Items[i].ToDomain()
	}
	m.PopulateBranchAggregateRoot(&s.BranchAggregateRoot)
	return s
}

// SaleModelFromDomain creates a persistence model from a domain Sale
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{
		SaleCode:      s.SaleCode,
		ClientID:      s.ClientID,
		SaleDate:      s.SaleDate,
		Status:        string(s.Status),
		GrossTotal:    s.Totals.Gross,
		DiscountTotal: s.Totals.Discount,
		NetTotal:      s.Totals.Net,
		PaidTotal:     s.Totals.Paid,
		PendingTotal:  s.Totals.Pending,
		Notes:         s.Notes,
	}
	if len(s.Payments) > 0 {
		payload, err := json.Marshal(s.Payments)
		if err == nil {
			m.Payments = payload
		}
	}
	m.FromDomainBranchAggregateRoot(s.BranchAggregateRoot)
	return m
}

// ToDomain converts the persistence model to a domain SaleItem
func (m *SaleItemModel) ToDomain() *sales.SaleItem {
	return &sales.SaleItem{
		BaseEntity:        m.BaseModel.ToDomain(),
		SaleID:            m.SaleID,
		Type:              sales.SaleItemType(m.Type),
		Name:              m.Name,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		Discount:          m.Discount,
		PlanName:          m.PlanName,
		DurationDays:      m.DurationDays,
		AllowSuspension:   m.AllowSuspension,
		SuspensionMaxDays: m.SuspensionMaxDays,
	}
}

// SaleItemModelFromDomain creates a persistence model from a domain SaleItem
func SaleItemModelFromDomain(item *sales.SaleItem) *SaleItemModel {
	m := &SaleItemModel{
		SaleID:            item.SaleID,
		Type:              string(item.Type),
		Name:              item.Name,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		Discount:          item.Discount,
		PlanName:          item.PlanName,
		DurationDays:      item.DurationDays,
		AllowSuspension:   item.AllowSuspension,
		SuspensionMaxDays: item.SuspensionMaxDays,
	}
	m.FromDomainBaseEntity(item.BaseEntity)
	return m
}
