package sales

import (
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	return s == SaleStatusCompleted || s == SaleStatusCancelled
}

// String returns the status as a string
func (s SaleStatus) String() string {
	return string(s)
}

// SaleItemType classifies what a sale line sells
type SaleItemType string

const (
	SaleItemTypeContract SaleItemType = "CONTRACT"
	SaleItemTypeService  SaleItemType = "SERVICE"
	SaleItemTypeProduct  SaleItemType = "PRODUCT"
	SaleItemTypeGeneric  SaleItemType = "GENERIC"
)

// IsValid checks if the item type is valid
func (t SaleItemType) IsValid() bool {
	switch t {
	case SaleItemTypeContract, SaleItemTypeService, SaleItemTypeProduct, SaleItemTypeGeneric:
		return true
	}
	return false
}

// SaleItem is one line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID
	Type        SaleItemType
	Name        string
	Quantity    int
	UnitPrice   valueobject.Money
	Discount    valueobject.Money
	// PlanName, DurationDays and AllowSuspension/SuspensionMaxDays describe
	// the contract to generate for CONTRACT items
	PlanName          string
	DurationDays      int
	AllowSuspension   bool
	SuspensionMaxDays int
}

// LineTotal returns quantity * unit price minus the line discount,
// floored at zero
func (i SaleItem) LineTotal() valueobject.Money {
	gross := i.UnitPrice
	for n := 1; n < i.Quantity; n++ {
		gross = gross.MustAdd(i.UnitPrice)
	}
	net := gross.MustSubtract(i.Discount)
	if net.IsNegative() {
		return valueobject.Zero(i.UnitPrice.Currency())
	}
	return net
}

// SalePayment is one payment captured on the sale
type SalePayment struct {
	Method string            `json:"method"`
	Amount valueobject.Money `json:"amount"`
}

// SaleTotals are the server-computed money figures of a sale. Caller
// supplied totals are advisory only and always recomputed.
type SaleTotals struct {
	Gross    valueobject.Money `json:"gross"`
	Discount valueobject.Money `json:"discount"`
	Net      valueobject.Money `json:"net"`
	Paid     valueobject.Money `json:"paid"`
	Pending  valueobject.Money `json:"pending"`
}

// Sale is the aggregate root for a commercial transaction. It owns its
// items and records the payments taken at the counter; contracts,
// ledger transactions, the shortfall receivable and any credit are
// separate aggregates committed in the same batch.
type Sale struct {
	shared.BranchAggregateRoot
	SaleCode string
	ClientID uuid.UUID
	SaleDate valueobject.Date
	Status   SaleStatus
	Items    []SaleItem
	Payments []SalePayment
	Totals   SaleTotals
	Notes    string
}

// SaleSnapshot freezes the aggregation-relevant fields of a sale
type SaleSnapshot struct {
	SaleDate valueobject.Date  `json:"sale_date"`
	Status   SaleStatus        `json:"status"`
	Net      valueobject.Money `json:"net"`
	Paid     valueobject.Money `json:"paid"`
}

// Snapshot captures the current aggregation-relevant state
func (s *Sale) Snapshot() SaleSnapshot {
	return SaleSnapshot{
		SaleDate: s.SaleDate,
		Status:   s.Status,
		Net:      s.Totals.Net,
		Paid:     s.Totals.Paid,
	}
}

// NewSale creates a new completed sale with recomputed totals
func NewSale(
	scope shared.Scope,
	saleCode string,
	clientID uuid.UUID,
	saleDate valueobject.Date,
	items []SaleItem,
	payments []SalePayment,
) (*Sale, error) {
	if scope.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_SCOPE", "Tenant and branch are required")
	}
	if saleCode == "" {
		return nil, shared.NewInvalidArgument("INVALID_SALE_CODE", "Sale code cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewInvalidArgument("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if saleDate.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_SALE_DATE", "Sale date is required")
	}
	if len(items) == 0 {
		return nil, shared.NewInvalidArgument("EMPTY_SALE", "A sale needs at least one item")
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if err := validatePayments(payments); err != nil {
		return nil, err
	}

	s := &Sale{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(scope.TenantID, scope.BranchID),
		SaleCode:            saleCode,
		ClientID:            clientID,
		SaleDate:            saleDate,
		Status:              SaleStatusCompleted,
	}
	s.setItems(items)
	s.Payments = payments
	s.recomputeTotals()

	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// Update replaces the sale's items and payments wholesale and recomputes
// totals. The event carries the before snapshot for the aggregator.
func (s *Sale) Update(saleDate valueobject.Date, items []SaleItem, payments []SalePayment) error {
	if s.Status == SaleStatusCancelled {
		return shared.NewFailedPrecondition("SALE_CANCELLED", "Cannot update a cancelled sale")
	}
	if saleDate.IsZero() {
		return shared.NewInvalidArgument("INVALID_SALE_DATE", "Sale date is required")
	}
	if len(items) == 0 {
		return shared.NewInvalidArgument("EMPTY_SALE", "A sale needs at least one item")
	}
	if err := validateItems(items); err != nil {
		return err
	}
	if err := validatePayments(payments); err != nil {
		return err
	}

	before := s.Snapshot()
	s.SaleDate = saleDate
	s.setItems(items)
	s.Payments = payments
	s.recomputeTotals()
	s.touch()

	s.AddDomainEvent(NewSaleUpdatedEvent(s, before))
	return nil
}

// MarkDeleted raises the deletion event carrying the final snapshot
func (s *Sale) MarkDeleted() {
	s.AddDomainEvent(NewSaleDeletedEvent(s))
}

// ContractItems returns the items that generate a contract when the sale
// commits
func (s *Sale) ContractItems() []SaleItem {
	var contractItems []SaleItem
	for _, item := range s.Items {
		if item.Type == SaleItemTypeContract {
			contractItems = append(contractItems, item)
		}
	}
	return contractItems
}

// CodeType returns the sequence entity type the sale code draws from,
// derived from item composition: contract wins over service over product
// over generic.
func CodeType(items []SaleItem) string {
	rank := map[SaleItemType]int{
		SaleItemTypeContract: 4,
		SaleItemTypeService:  3,
		SaleItemTypeProduct:  2,
		SaleItemTypeGeneric:  1,
	}
	best := SaleItemTypeGeneric
	for _, item := range items {
		if rank[item.Type] > rank[best] {
			best = item.Type
		}
	}
	switch best {
	case SaleItemTypeContract:
		return "sale_contract"
	case SaleItemTypeService:
		return "sale_service"
	case SaleItemTypeProduct:
		return "sale_product"
	default:
		return "sale_generic"
	}
}

func validateItems(items []SaleItem) error {
	for _, item := range items {
		if !item.Type.IsValid() {
			return shared.NewInvalidArgument("INVALID_ITEM_TYPE", "Unknown sale item type")
		}
		if item.Quantity <= 0 {
			return shared.NewInvalidArgument("INVALID_ITEM_QUANTITY", "Item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewInvalidArgument("INVALID_ITEM_PRICE", "Item unit price cannot be negative")
		}
		if item.Discount.IsNegative() {
			return shared.NewInvalidArgument("INVALID_ITEM_DISCOUNT", "Item discount cannot be negative")
		}
		if item.Type == SaleItemTypeContract && item.DurationDays <= 0 {
			return shared.NewInvalidArgument("INVALID_CONTRACT_ITEM", "Contract items need a positive duration")
		}
	}
	return nil
}

func validatePayments(payments []SalePayment) error {
	for _, p := range payments {
		if !p.Amount.IsPositive() {
			return shared.NewInvalidArgument("INVALID_PAYMENT", "Payment amounts must be positive")
		}
		if p.Method == "" {
			return shared.NewInvalidArgument("INVALID_PAYMENT", "Payment method is required")
		}
	}
	return nil
}

func (s *Sale) setItems(items []SaleItem) {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].BaseEntity = shared.NewBaseEntity()
		}
		items[i].SaleID = s.ID
	}
	s.Items = items
}

// recomputeTotals derives all money figures from items and payments.
// Pending is floored at zero; an overshoot becomes credit, handled by the
// orchestrator.
func (s *Sale) recomputeTotals() {
	gross := valueobject.ZeroBRL()
	discount := valueobject.ZeroBRL()
	for _, item := range s.Items {
		lineGross := item.UnitPrice
		for n := 1; n < item.Quantity; n++ {
			lineGross = lineGross.MustAdd(item.UnitPrice)
		}
		gross = gross.MustAdd(lineGross)
		discount = discount.MustAdd(item.Discount)
	}
	net := gross.MustSubtract(discount)
	if net.IsNegative() {
		net = valueobject.ZeroBRL()
	}

	paid := valueobject.ZeroBRL()
	for _, p := range s.Payments {
		paid = paid.MustAdd(p.Amount)
	}

	pending := net.MustSubtract(paid)
	if pending.IsNegative() {
		pending = valueobject.ZeroBRL()
	}

	s.Totals = SaleTotals{
		Gross:    gross,
		Discount: discount,
		Net:      net,
		Paid:     paid,
		Pending:  pending,
	}
}

// CreditGenerated returns how much the payments overshot the net total
func (s *Sale) CreditGenerated() valueobject.Money {
	overshoot := s.Totals.Paid.MustSubtract(s.Totals.Net)
	if overshoot.IsNegative() {
		return valueobject.ZeroBRL()
	}
	return overshoot
}

// Version stays at its loaded value; the repository bumps it on save.
func (s *Sale) touch() {
	s.UpdatedAt = time.Now()
}
