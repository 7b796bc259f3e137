package summary

import (
	"context"
	"testing"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/domain/summary"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingSummaryRepo captures applied deltas and accumulates them per
// day, mimicking the database upsert-increment.
type recordingSummaryRepo struct {
	applied []summary.Delta
	daily   map[string]summary.Counters
}

func newRecordingSummaryRepo() *recordingSummaryRepo {
	return &recordingSummaryRepo{daily: map[string]summary.Counters{}}
}

func (r *recordingSummaryRepo) ApplyDelta(_ context.Context, delta summary.Delta) error {
	r.applied = append(r.applied, delta)
	r.daily[delta.Date.String()] = r.daily[delta.Date.String()].Add(delta.Counters)
	return nil
}

func (r *recordingSummaryRepo) GetDaily(_ context.Context, _ shared.Scope, date valueobject.Date) (*summary.DailySummary, error) {
	c := r.daily[date.String()]
	return &summary.DailySummary{Date: date, Counters: c}, nil
}

func (r *recordingSummaryRepo) GetDailyRange(_ context.Context, _ shared.Scope, _, _ valueobject.Date) ([]summary.DailySummary, error) {
	return nil, nil
}

func (r *recordingSummaryRepo) GetMonthly(_ context.Context, _ shared.Scope, _ string) (*summary.MonthlySummary, error) {
	return nil, nil
}

func mustDate(t *testing.T, s string) valueobject.Date {
	t.Helper()
	d, err := valueobject.ParseDate(s)
	require.NoError(t, err)
	return d
}

func testScope() shared.Scope {
	return shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
}

func newLedgerEntry(t *testing.T, scope shared.Scope, amount float64, date string) *finance.FinancialTransaction {
	t.Helper()
	tx, err := finance.NewFinancialTransaction(scope, "T-000001", finance.TransactionTypeSale,
		valueobject.NewMoneyBRLFromFloat(amount), mustDate(t, date), "")
	require.NoError(t, err)
	return tx
}

func TestTransactionSummaryHandler_CreateUpdateDelete(t *testing.T) {
	repo := newRecordingSummaryRepo()
	handler := NewTransactionSummaryHandler(repo, zap.NewNop())
	scope := testScope()
	ctx := context.Background()

	tx := newLedgerEntry(t, scope, 100, "2024-03-10")
	created := finance.NewTransactionCreatedEvent(tx)
	require.NoError(t, handler.Handle(ctx, created))
	assert.Equal(t, "100", repo.daily["2024-03-10"].RevenueTotal.String())

	// Moving the entry to another day splits the delta across buckets
	before := tx.Snapshot()
	require.NoError(t, tx.Amend(valueobject.NewMoneyBRLFromFloat(100), mustDate(t, "2024-03-12"), ""))
	updated := finance.NewTransactionUpdatedEvent(tx, before)
	require.NoError(t, handler.Handle(ctx, updated))
	assert.True(t, repo.daily["2024-03-10"].RevenueTotal.IsZero())
	assert.Equal(t, "100", repo.daily["2024-03-12"].RevenueTotal.String())

	deleted := finance.NewTransactionDeletedEvent(tx)
	require.NoError(t, handler.Handle(ctx, deleted))
	assert.True(t, repo.daily["2024-03-12"].RevenueTotal.IsZero())
}

func TestTransactionSummaryHandler_DuplicateDeliveryDoubleCounts(t *testing.T) {
	repo := newRecordingSummaryRepo()
	handler := NewTransactionSummaryHandler(repo, zap.NewNop())
	scope := testScope()
	ctx := context.Background()

	created := finance.NewTransactionCreatedEvent(newLedgerEntry(t, scope, 100, "2024-03-10"))
	require.NoError(t, handler.Handle(ctx, created))
	require.NoError(t, handler.Handle(ctx, created))

	// At-least-once delivery: the delta applies once per delivery. The
	// idempotency layer in front of the bus is what keeps this from
	// happening, not the handler.
	assert.Equal(t, "200", repo.daily["2024-03-10"].RevenueTotal.String())
}

func TestContractSummaryHandler(t *testing.T) {
	repo := newRecordingSummaryRepo()
	handler := NewContractSummaryHandler(repo, zap.NewNop())
	scope := testScope()
	ctx := context.Background()

	start := mustDate(t, "2024-01-01")
	end := mustDate(t, "2024-12-31")
	contract, err := membership.NewContract(scope, "C-000001", uuid.New(), "Annual",
		start, end, true, 0)
	require.NoError(t, err)

	events := contract.GetDomainEvents()
	require.Len(t, events, 1)
	require.NoError(t, handler.Handle(ctx, events[0]))

	require.Len(t, repo.applied, 1)
	assert.Equal(t, 1, repo.applied[0].ContractsStarted)
	assert.Equal(t, 1, repo.applied[0].ActiveContractsDelta)

	// Cancelling produces churn via the status change event
	contract.ClearDomainEvents()
	require.NoError(t, contract.Cancel("left town", false))
	for _, e := range contract.GetDomainEvents() {
		require.NoError(t, handler.Handle(ctx, e))
	}

	total := summary.Counters{}
	for _, d := range repo.applied {
		total = total.Add(d.Counters)
	}
	assert.Equal(t, 1, total.ContractsStarted)
	assert.Equal(t, 1, total.ContractsCancelled)
	assert.Equal(t, 1, total.Churn)
	assert.Equal(t, 0, total.ActiveContractsDelta)
}

func TestContractSummaryHandler_IgnoresUnrelatedEvents(t *testing.T) {
	repo := newRecordingSummaryRepo()
	handler := NewContractSummaryHandler(repo, zap.NewNop())

	tx := newLedgerEntry(t, testScope(), 10, "2024-03-10")
	require.NoError(t, handler.Handle(context.Background(), finance.NewTransactionCreatedEvent(tx)))
	assert.Empty(t, repo.applied)
}
