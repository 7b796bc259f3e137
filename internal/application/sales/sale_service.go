package sales

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService builds and atomically commits a sale together with all of
// its side effects: generated contracts, one ledger entry per payment,
// the shortfall receivable and any overpayment credit. A failure
// anywhere, contract creation included, aborts the whole batch; a paid
// contract item without its contract is an invariant violation, never a
// partial success.
type SaleService struct {
	txScope   TransactionScope
	sequences shared.SequenceGenerator
	logger    *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(txScope TransactionScope, sequences shared.SequenceGenerator, logger *zap.Logger) *SaleService {
	return &SaleService{txScope: txScope, sequences: sequences, logger: logger}
}

// SaleItemRequest is one line of the incoming sale payload
type SaleItemRequest struct {
	ID                *uuid.UUID      `json:"id"`
	Type              string          `json:"type" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	Quantity          int             `json:"quantity" binding:"required"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	PlanName          string          `json:"plan_name"`
	DurationDays      int             `json:"duration_days"`
	AllowSuspension   bool            `json:"allow_suspension"`
	SuspensionMaxDays int             `json:"suspension_max_days"`
}

// SalePaymentRequest is one payment captured on the sale
type SalePaymentRequest struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SaveSaleRequest is the full sale payload. Totals the caller computed
// are ignored; the server rederives everything from items and payments.
type SaveSaleRequest struct {
	ID       *uuid.UUID           `json:"id"`
	ClientID uuid.UUID            `json:"client_id" binding:"required"`
	SaleDate string               `json:"sale_date" binding:"required"`
	Items    []SaleItemRequest    `json:"items" binding:"required"`
	Payments []SalePaymentRequest `json:"payments"`
	// DueDate applies to the shortfall receivable, when one is created
	DueDate string `json:"due_date"`
	Notes   string `json:"notes"`
}

// SaleTotalsResponse mirrors the server-computed totals
type SaleTotalsResponse struct {
	Gross    decimal.Decimal `json:"gross"`
	Discount decimal.Decimal `json:"discount"`
	Net      decimal.Decimal `json:"net"`
	Paid     decimal.Decimal `json:"paid"`
	Pending  decimal.Decimal `json:"pending"`
}

// SaveSaleResponse reports the committed sale and its generated documents
type SaveSaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	SaleCode      string             `json:"sale_code"`
	Totals        SaleTotalsResponse `json:"totals"`
	ContractIDs   []uuid.UUID        `json:"contract_ids,omitempty"`
	ReceivableID  *uuid.UUID         `json:"receivable_id,omitempty"`
	CreditID      *uuid.UUID         `json:"credit_id,omitempty"`
	TransactionID []uuid.UUID        `json:"transaction_ids,omitempty"`
}

// SaveSale creates or updates a sale. New sales draw a sequential code
// from the counter keyed by the dominant item type.
func (s *SaleService) SaveSale(ctx context.Context, scope shared.Scope, req SaveSaleRequest) (*SaveSaleResponse, error) {
	saleDate, err := valueobject.ParseDate(req.SaleDate)
	if err != nil {
		return nil, shared.NewInvalidArgument("INVALID_SALE_DATE", err.Error())
	}
	var dueDate *valueobject.Date
	if req.DueDate != "" {
		d, err := valueobject.ParseDate(req.DueDate)
		if err != nil {
			return nil, shared.NewInvalidArgument("INVALID_DUE_DATE", err.Error())
		}
		dueDate = &d
	}

	items := make([]sales.SaleItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = sales.SaleItem{
			Type:              sales.SaleItemType(item.Type),
			Name:              item.Name,
			Quantity:          item.Quantity,
			UnitPrice:         valueobject.NewMoneyBRL(item.UnitPrice),
			Discount:          valueobject.NewMoneyBRL(item.Discount),
			PlanName:          item.PlanName,
			DurationDays:      item.DurationDays,
			AllowSuspension:   item.AllowSuspension,
			SuspensionMaxDays: item.SuspensionMaxDays,
		}
		if item.ID != nil {
			items[i].ID = *item.ID
		}
	}
	payments := make([]sales.SalePayment, len(req.Payments))
	for i, p := range req.Payments {
		payments[i] = sales.SalePayment{Method: p.Method, Amount: valueobject.NewMoneyBRL(p.Amount)}
	}

	if req.ID != nil {
		return s.updateSale(ctx, scope, *req.ID, saleDate, items, payments, dueDate)
	}
	return s.createSale(ctx, scope, req.ClientID, saleDate, items, payments, dueDate, req.Notes)
}

func (s *SaleService) createSale(
	ctx context.Context,
	scope shared.Scope,
	clientID uuid.UUID,
	saleDate valueobject.Date,
	items []sales.SaleItem,
	payments []sales.SalePayment,
	dueDate *valueobject.Date,
	notes string,
) (*SaveSaleResponse, error) {
	code, err := s.sequences.Next(ctx, scope, sales.CodeType(items))
	if err != nil {
		return nil, err
	}

	sale, err := sales.NewSale(scope, code, clientID, saleDate, items, payments)
	if err != nil {
		return nil, err
	}
	sale.Notes = notes

	var resp *SaveSaleResponse
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		contractIDs, err := s.createContractsForItems(ctx, scope, repos, sale, sale.ContractItems())
		if err != nil {
			return err
		}

		txIDs, err := s.createPaymentTransactions(ctx, scope, repos, sale, sale.Payments)
		if err != nil {
			return err
		}

		resp = &SaveSaleResponse{
			ID:            sale.ID,
			SaleCode:      sale.SaleCode,
			Totals:        toTotalsResponse(sale.Totals),
			ContractIDs:   contractIDs,
			TransactionID: txIDs,
		}

		if sale.Totals.Pending.IsPositive() {
			receivableID, err := s.createShortfallReceivable(ctx, scope, repos, sale, dueDate)
			if err != nil {
				return err
			}
			resp.ReceivableID = receivableID
		}

		if credit := sale.CreditGenerated(); credit.IsPositive() {
			creditRecord, err := finance.NewCredit(scope, sale.ClientID, credit)
			if err != nil {
				return err
			}
			creditRecord.LinkSale(sale.ID)
			if err := repos.CreditRepo().Save(ctx, creditRecord); err != nil {
				return err
			}
			resp.CreditID = &creditRecord.ID
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *SaleService) updateSale(
	ctx context.Context,
	scope shared.Scope,
	id uuid.UUID,
	saleDate valueobject.Date,
	items []sales.SaleItem,
	payments []sales.SalePayment,
	dueDate *valueobject.Date,
) (*SaveSaleResponse, error) {
	var resp *SaveSaleResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByIDForScope(ctx, scope, id)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("SALE_NOT_FOUND", "Sale not found")
			}
			return err
		}

		// Items arriving without an id are new on this update; contract
		// items among them generate contracts in the same batch.
		var newContractItems []sales.SaleItem
		for _, item := range items {
			if item.ID == uuid.Nil && item.Type == sales.SaleItemTypeContract {
				newContractItems = append(newContractItems, item)
			}
		}
		previousPayments := len(sale.Payments)

		if err := sale.Update(saleDate, items, payments); err != nil {
			return err
		}
		// The repository replaces the item collection wholesale on save
		if err := repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
			return err
		}

		contractIDs, err := s.createContractsForItems(ctx, scope, repos, sale, newContractItems)
		if err != nil {
			return err
		}

		// Only payments added by this update get fresh ledger entries;
		// the original payments were recorded when the sale was created.
		var addedPayments []sales.SalePayment
		if len(sale.Payments) > previousPayments {
			addedPayments = sale.Payments[previousPayments:]
		}
		txIDs, err := s.createPaymentTransactions(ctx, scope, repos, sale, addedPayments)
		if err != nil {
			return err
		}

		resp = &SaveSaleResponse{
			ID:            sale.ID,
			SaleCode:      sale.SaleCode,
			Totals:        toTotalsResponse(sale.Totals),
			ContractIDs:   contractIDs,
			TransactionID: txIDs,
		}

		receivableID, err := s.reconcileShortfallReceivable(ctx, scope, repos, sale, dueDate)
		if err != nil {
			return err
		}
		resp.ReceivableID = receivableID

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// reconcileShortfallReceivable keeps the sale's open debt at a single
// receivable matching the current pending balance. Open receivables left
// from earlier saves of the same sale are cancelled and replaced, never
// accumulated; when the update clears the pending balance they are only
// cancelled.
func (s *SaleService) reconcileShortfallReceivable(
	ctx context.Context,
	scope shared.Scope,
	repos TransactionalRepositories,
	sale *sales.Sale,
	dueDate *valueobject.Date,
) (*uuid.UUID, error) {
	open, err := repos.ReceivableRepo().FindOpenBySale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if dueDate == nil && len(open) > 0 {
		dueDate = open[0].DueDate
	}
	for _, r := range open {
		if err := r.Cancel("Superseded by sale update"); err != nil {
			return nil, err
		}
		if err := repos.ReceivableRepo().SaveWithLock(ctx, r); err != nil {
			return nil, err
		}
	}
	if !sale.Totals.Pending.IsPositive() {
		return nil, nil
	}
	return s.createShortfallReceivable(ctx, scope, repos, sale, dueDate)
}

// createContractsForItems generates one contract per contract item inside
// the current batch. Errors propagate and abort the whole sale.
func (s *SaleService) createContractsForItems(
	ctx context.Context,
	scope shared.Scope,
	repos TransactionalRepositories,
	sale *sales.Sale,
	items []sales.SaleItem,
) ([]uuid.UUID, error) {
	var contractIDs []uuid.UUID
	for _, item := range items {
		code, err := s.sequences.Next(ctx, scope, shared.SequenceContract)
		if err != nil {
			return nil, err
		}
		startDate := sale.SaleDate
		endDate := startDate.AddDays(item.DurationDays - 1)
		planName := item.PlanName
		if planName == "" {
			planName = item.Name
		}

		contract, err := membership.NewContract(scope, code, sale.ClientID, planName,
			startDate, endDate, item.AllowSuspension, item.SuspensionMaxDays)
		if err != nil {
			return nil, err
		}
		contract.LinkSourceSale(sale.ID)

		if err := repos.ContractRepo().Save(ctx, contract); err != nil {
			return nil, err
		}
		contractIDs = append(contractIDs, contract.ID)
	}
	return contractIDs, nil
}

func (s *SaleService) createPaymentTransactions(
	ctx context.Context,
	scope shared.Scope,
	repos TransactionalRepositories,
	sale *sales.Sale,
	payments []sales.SalePayment,
) ([]uuid.UUID, error) {
	var txIDs []uuid.UUID
	for _, payment := range payments {
		code, err := s.sequences.Next(ctx, scope, shared.SequenceTransaction)
		if err != nil {
			return nil, err
		}
		tx, err := finance.NewFinancialTransaction(scope, code, finance.TransactionTypeSale,
			payment.Amount, sale.SaleDate, "Sale "+sale.SaleCode)
		if err != nil {
			return nil, err
		}
		tx.PaymentMethod = payment.Method
		tx.LinkClient(sale.ClientID)
		tx.LinkSale(sale.ID)

		if err := repos.TransactionRepo().Save(ctx, tx); err != nil {
			return nil, err
		}
		txIDs = append(txIDs, tx.ID)
	}
	return txIDs, nil
}

func (s *SaleService) createShortfallReceivable(
	ctx context.Context,
	scope shared.Scope,
	repos TransactionalRepositories,
	sale *sales.Sale,
	dueDate *valueobject.Date,
) (*uuid.UUID, error) {
	code, err := s.sequences.Next(ctx, scope, shared.SequenceReceivable)
	if err != nil {
		return nil, err
	}
	receivable, err := finance.NewReceivable(scope, code, sale.ClientID,
		"Balance of sale "+sale.SaleCode, sale.Totals.Pending, dueDate)
	if err != nil {
		return nil, err
	}
	receivable.LinkSale(sale.ID)

	if err := repos.ReceivableRepo().Save(ctx, receivable); err != nil {
		return nil, err
	}
	return &receivable.ID, nil
}

func toTotalsResponse(t sales.SaleTotals) SaleTotalsResponse {
	return SaleTotalsResponse{
		Gross:    t.Gross.Amount(),
		Discount: t.Discount.Amount(),
		Net:      t.Net.Amount(),
		Paid:     t.Paid.Amount(),
		Pending:  t.Pending.Amount(),
	}
}
