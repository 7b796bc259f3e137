// Package integration covers the full sale to ledger flow with a real
// database: a membership sale generating a contract, a shortfall
// receivable and payment entries, followed by debt settlement and
// contract lifecycle operations.
package integration

import (
	"context"
	"testing"

	financeapp "github.com/fitdesk/backend/internal/application/finance"
	membershipapp "github.com/fitdesk/backend/internal/application/membership"
	salesapp "github.com/fitdesk/backend/internal/application/sales"
	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// syncCleanupQueue executes cleanup tasks inline so tests observe their
// effects without a background worker
type syncCleanupQueue struct{}

func (syncCleanupQueue) Enqueue(task membershipapp.CleanupTask) {
	_ = task.Run(context.Background())
}

// flowSetup wires the application services over a migrated database
type flowSetup struct {
	DB                 *TestDB
	ContractService    *membershipapp.ContractService
	ReceivableService  *financeapp.ReceivableService
	TransactionService *financeapp.TransactionService
	SaleService        *salesapp.SaleService
}

func newFlowSetup(t *testing.T) *flowSetup {
	t.Helper()

	db := NewTestDB(t)
	log := zap.NewNop()

	sequences := persistence.NewGormSequenceGenerator(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	enrollments := persistence.NewGormEnrollmentStore(db.DB)
	policies := persistence.NewGormBranchPolicyStore(db.DB)

	contractService := membershipapp.NewContractService(
		persistence.NewGormMembershipTransactionScope(db.DB),
		sequences, enrollments, policies, receivableRepo,
		syncCleanupQueue{}, log,
	)

	financeScope := persistence.NewGormFinanceTransactionScope(db.DB)

	return &flowSetup{
		DB:                 db,
		ContractService:    contractService,
		ReceivableService:  financeapp.NewReceivableService(financeScope, sequences, log),
		TransactionService: financeapp.NewTransactionService(financeScope, sequences),
		SaleService:        salesapp.NewSaleService(persistence.NewGormSalesTransactionScope(db.DB), sequences, log),
	}
}

func newTestScope() shared.Scope {
	return shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
}

func TestMembershipSaleToSettlementFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	setup := newFlowSetup(t)
	ctx := context.Background()
	scope := newTestScope()
	clientID := uuid.New()

	// Membership sale, partially paid at the counter
	saleResp, err := setup.SaleService.SaveSale(ctx, scope, salesapp.SaveSaleRequest{
		ClientID: clientID,
		SaleDate: "2026-03-01",
		Items: []salesapp.SaleItemRequest{
			{
				Type:              "CONTRACT",
				Name:              "Gold Annual",
				Quantity:          1,
				UnitPrice:         decimal.NewFromInt(1200),
				PlanName:          "Gold Annual",
				DurationDays:      365,
				AllowSuspension:   true,
				SuspensionMaxDays: 30,
			},
		},
		Payments: []salesapp.SalePaymentRequest{
			{Method: "PIX", Amount: decimal.NewFromInt(400)},
		},
		DueDate: "2026-03-10",
	})
	require.NoError(t, err)

	assert.True(t, saleResp.Totals.Gross.Equal(decimal.NewFromInt(1200)))
	assert.True(t, saleResp.Totals.Paid.Equal(decimal.NewFromInt(400)))
	assert.True(t, saleResp.Totals.Pending.Equal(decimal.NewFromInt(800)))
	require.Len(t, saleResp.ContractIDs, 1)
	require.NotNil(t, saleResp.ReceivableID)
	require.Len(t, saleResp.TransactionID, 1)

	// Contract starts on the sale date and becomes active immediately
	contract, err := setup.ContractService.GetContract(ctx, scope, saleResp.ContractIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", contract.Status)
	assert.Equal(t, clientID, contract.ClientID)
	assert.Equal(t, "2026-03-01", contract.StartDate)
	assert.Equal(t, "2027-02-28", contract.EndDate)
	assert.True(t, contract.AllowSuspension)

	// The unpaid remainder became one open receivable
	open, err := setup.ReceivableService.ListOpenReceivables(ctx, scope, clientID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].Balance.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "2026-03-10", open[0].DueDate)

	// Settling the full balance closes the receivable and writes one
	// ledger entry
	payResp, err := setup.ReceivableService.PayReceivables(ctx, scope, financeapp.PayReceivablesRequest{
		ClientID: clientID,
		Amount:   decimal.NewFromInt(800),
		Method:   "CARD",
	})
	require.NoError(t, err)
	assert.True(t, payResp.TotalPaid.Equal(decimal.NewFromInt(800)))
	assert.True(t, payResp.StillPending.IsZero())
	assert.Nil(t, payResp.NewReceivableID)

	open, err = setup.ReceivableService.ListOpenReceivables(ctx, scope, clientID)
	require.NoError(t, err)
	assert.Empty(t, open)

	// Ledger holds the counter payment plus the settlement
	transactions, total, err := setup.TransactionService.List(ctx, scope, finance.TransactionFilter{
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, transactions, 2)

	paymentType := finance.TransactionTypeReceivablePayment
	settlements, _, err := setup.TransactionService.List(ctx, scope, finance.TransactionFilter{
		Type:     &paymentType,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.True(t, settlements[0].Amount.Equal(decimal.NewFromInt(800)))
}

func TestPartialPaymentRollsRemainderForward(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	setup := newFlowSetup(t)
	ctx := context.Background()
	scope := newTestScope()
	clientID := uuid.New()

	saleResp, err := setup.SaleService.SaveSale(ctx, scope, salesapp.SaveSaleRequest{
		ClientID: clientID,
		SaleDate: "2026-04-01",
		Items: []salesapp.SaleItemRequest{
			{Type: "SERVICE", Name: "Personal Training Pack", Quantity: 10, UnitPrice: decimal.NewFromInt(50)},
		},
		DueDate: "2026-04-15",
	})
	require.NoError(t, err)
	require.NotNil(t, saleResp.ReceivableID)

	payResp, err := setup.ReceivableService.PayReceivables(ctx, scope, financeapp.PayReceivablesRequest{
		ClientID:    clientID,
		Amount:      decimal.NewFromInt(300),
		Method:      "CASH",
		NextDueDate: "2026-05-15",
	})
	require.NoError(t, err)
	assert.True(t, payResp.TotalPaid.Equal(decimal.NewFromInt(300)))
	assert.True(t, payResp.StillPending.Equal(decimal.NewFromInt(200)))
	require.NotNil(t, payResp.NewReceivableID)

	// The remainder lives on as a fresh receivable with the new due date
	open, err := setup.ReceivableService.ListOpenReceivables(ctx, scope, clientID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, *payResp.NewReceivableID, open[0].ID)
	assert.True(t, open[0].Balance.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "2026-05-15", open[0].DueDate)
}

func TestContractSuspensionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	setup := newFlowSetup(t)
	today, err := valueobject.ParseDate("2026-03-01")
	require.NoError(t, err)
	setup.ContractService.SetTodayProvider(func() valueobject.Date { return today })

	ctx := context.Background()
	scope := newTestScope()

	contract, err := setup.ContractService.CreateContract(ctx, scope, membershipapp.CreateContractRequest{
		ClientID:          uuid.New(),
		PlanName:          "Quarterly",
		StartDate:         "2026-03-01",
		EndDate:           "2026-05-30",
		AllowSuspension:   true,
		SuspensionMaxDays: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", contract.Status)

	// A future suspension is booked, days held as pending
	susp, err := setup.ContractService.ScheduleSuspension(ctx, scope, contract.ID, membershipapp.ScheduleSuspensionRequest{
		StartDate: "2026-04-01",
		EndDate:   "2026-04-10",
		Reason:    "travel",
	})
	require.NoError(t, err)
	assert.Equal(t, "SCHEDULED", susp.Status)
	assert.Equal(t, 10, susp.DaysUsed)

	reloaded, err := setup.ContractService.GetContract(ctx, scope, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.PendingSuspensionDays)

	// Revoking a scheduled suspension returns every held day
	stop, err := setup.ContractService.StopSuspension(ctx, scope, contract.ID, susp.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stop.UnusedDays)

	reloaded, err = setup.ContractService.GetContract(ctx, scope, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.PendingSuspensionDays)
	assert.Equal(t, 0, reloaded.TotalSuspendedDays)
}

func TestCancelContractImmediately(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	setup := newFlowSetup(t)
	ctx := context.Background()
	scope := newTestScope()

	contract, err := setup.ContractService.CreateContract(ctx, scope, membershipapp.CreateContractRequest{
		ClientID:  uuid.New(),
		PlanName:  "Monthly",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	require.NoError(t, err)

	resp, err := setup.ContractService.CancelContract(ctx, scope, contract.ID, membershipapp.CancelContractRequest{
		Reason: "moved away",
	})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)

	reloaded, err := setup.ContractService.GetContract(ctx, scope, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", reloaded.Status)
	assert.Equal(t, "moved away", reloaded.CancelReason)
	assert.NotEmpty(t, reloaded.CancelDate)
}
