package integration

import (
	"context"
	"testing"

	membershipapp "github.com/fitdesk/backend/internal/application/membership"
	salesapp "github.com/fitdesk/backend/internal/application/sales"
	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every read and write is bound to a (tenant, branch) pair. A second
// scope must never observe the first scope's documents, even inside the
// same database.
func TestTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	setup := newFlowSetup(t)
	ctx := context.Background()

	scopeA := newTestScope()
	scopeB := newTestScope()
	clientID := uuid.New()

	saleResp, err := setup.SaleService.SaveSale(ctx, scopeA, salesapp.SaveSaleRequest{
		ClientID: clientID,
		SaleDate: "2026-05-01",
		Items: []salesapp.SaleItemRequest{
			{
				Type:         "CONTRACT",
				Name:         "Monthly",
				Quantity:     1,
				UnitPrice:    decimal.NewFromInt(100),
				DurationDays: 30,
			},
		},
		DueDate: "2026-05-10",
	})
	require.NoError(t, err)
	require.Len(t, saleResp.ContractIDs, 1)

	t.Run("sales invisible across scopes", func(t *testing.T) {
		_, total, err := setup.SaleService.ListSales(ctx, scopeB, sales.SaleFilter{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		_, total, err = setup.SaleService.ListSales(ctx, scopeA, sales.SaleFilter{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("contract lookup fails across scopes", func(t *testing.T) {
		_, err := setup.ContractService.GetContract(ctx, scopeB, saleResp.ContractIDs[0])
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONTRACT_NOT_FOUND", domainErr.Code)
	})

	t.Run("receivables invisible across scopes", func(t *testing.T) {
		open, err := setup.ReceivableService.ListOpenReceivables(ctx, scopeB, clientID)
		require.NoError(t, err)
		assert.Empty(t, open)
	})

	t.Run("scope separates branches of one tenant", func(t *testing.T) {
		siblingBranch := shared.Scope{TenantID: scopeA.TenantID, BranchID: uuid.New()}

		_, total, err := setup.SaleService.ListSales(ctx, siblingBranch, sales.SaleFilter{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("sequence counters advance per scope", func(t *testing.T) {
		contractB, err := setup.ContractService.CreateContract(ctx, scopeB, membershipapp.CreateContractRequest{
			ClientID:  uuid.New(),
			PlanName:  "Monthly",
			StartDate: "2026-05-01",
		})
		require.NoError(t, err)

		contractA, err := setup.ContractService.GetContract(ctx, scopeA, saleResp.ContractIDs[0])
		require.NoError(t, err)

		// Both scopes independently issued their first contract code
		assert.Equal(t, contractA.ContractCode, contractB.ContractCode)
	})
}
