package sales

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemResponse is one line of a sale in API responses
type SaleItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	PlanName  string          `json:"plan_name,omitempty"`
}

// SalePaymentResponse is one payment of a sale in API responses
type SalePaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse represents a full sale in API responses
type SaleResponse struct {
	ID       uuid.UUID             `json:"id"`
	SaleCode string                `json:"sale_code"`
	ClientID uuid.UUID             `json:"client_id"`
	SaleDate string                `json:"sale_date"`
	Status   string                `json:"status"`
	Items    []SaleItemResponse    `json:"items"`
	Payments []SalePaymentResponse `json:"payments"`
	Totals   SaleTotalsResponse    `json:"totals"`
	Notes    string                `json:"notes,omitempty"`
	Version  int                   `json:"version"`
}

func toSaleResponse(sale *sales.Sale) *SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			ID:        item.ID,
			Type:      string(item.Type),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount(),
			Discount:  item.Discount.Amount(),
			PlanName:  item.PlanName,
		}
	}
	payments := make([]SalePaymentResponse, len(sale.Payments))
	for i, p := range sale.Payments {
		payments[i] = SalePaymentResponse{Method: p.Method, Amount: p.Amount.Amount()}
	}
	return &SaleResponse{
		ID:       sale.ID,
		SaleCode: sale.SaleCode,
		ClientID: sale.ClientID,
		SaleDate: sale.SaleDate.String(),
		Status:   sale.Status.String(),
		Items:    items,
		Payments: payments,
		Totals:   toTotalsResponse(sale.Totals),
		Notes:    sale.Notes,
		Version:  sale.Version,
	}
}

// GetSale loads one sale with its items and payments
func (s *SaleService) GetSale(ctx context.Context, scope shared.Scope, id uuid.UUID) (*SaleResponse, error) {
	var sale *sales.Sale
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForScope(ctx, scope, id)
		return err
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFound("SALE_NOT_FOUND", "Sale not found")
		}
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListSales returns a page of the scope's sales, newest first
func (s *SaleService) ListSales(ctx context.Context, scope shared.Scope, filter sales.SaleFilter) ([]SaleResponse, int64, error) {
	var page []sales.Sale
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, total, err = repos.SaleRepo().FindAllForScope(ctx, scope, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]SaleResponse, len(page))
	for i := range page {
		out[i] = *toSaleResponse(&page[i])
	}
	return out, total, nil
}

// DeleteSale removes a sale and its items. The deletion event carries
// the final snapshot so the summaries can reverse its contribution.
// Contracts, ledger entries and receivables the sale generated remain;
// correcting those is a separate, explicit operation.
func (s *SaleService) DeleteSale(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByIDForScope(ctx, scope, id)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFound("SALE_NOT_FOUND", "Sale not found")
			}
			return err
		}
		sale.MarkDeleted()
		return repos.SaleRepo().Delete(ctx, sale)
	})
}
