package finance

import (
	"context"
	"fmt"
	"testing"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReceivableRepo is an in-memory ReceivableRepository
type fakeReceivableRepo struct {
	receivables map[uuid.UUID]*finance.Receivable
}

func newFakeReceivableRepo() *fakeReceivableRepo {
	return &fakeReceivableRepo{receivables: map[uuid.UUID]*finance.Receivable{}}
}

func (f *fakeReceivableRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Receivable, error) {
	r, ok := f.receivables[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeReceivableRepo) FindByIDForScope(_ context.Context, scope shared.Scope, id uuid.UUID) (*finance.Receivable, error) {
	r, ok := f.receivables[id]
	if !ok || r.TenantID != scope.TenantID || r.BranchID != scope.BranchID {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeReceivableRepo) FindOpenByClient(_ context.Context, scope shared.Scope, clientID uuid.UUID, ids []uuid.UUID) ([]*finance.Receivable, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var open []*finance.Receivable
	for _, r := range f.receivables {
		if r.ClientID != clientID || r.TenantID != scope.TenantID || !r.IsOpen() {
			continue
		}
		if len(wanted) > 0 && !wanted[r.ID] {
			continue
		}
		open = append(open, r)
	}
	return open, nil
}

func (f *fakeReceivableRepo) FindOpenBySale(_ context.Context, saleID uuid.UUID) ([]*finance.Receivable, error) {
	var open []*finance.Receivable
	for _, r := range f.receivables {
		if r.SaleID != nil && *r.SaleID == saleID && r.IsOpen() {
			open = append(open, r)
		}
	}
	return open, nil
}

func (f *fakeReceivableRepo) Save(_ context.Context, r *finance.Receivable) error {
	f.receivables[r.ID] = r
	return nil
}

func (f *fakeReceivableRepo) SaveWithLock(_ context.Context, r *finance.Receivable) error {
	f.receivables[r.ID] = r
	return nil
}

// fakeTransactionRepo is an in-memory TransactionRepository
type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*finance.FinancialTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: map[uuid.UUID]*finance.FinancialTransaction{}}
}

func (f *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (f *fakeTransactionRepo) FindByIDForScope(_ context.Context, scope shared.Scope, id uuid.UUID) (*finance.FinancialTransaction, error) {
	t, ok := f.transactions[id]
	if !ok || t.TenantID != scope.TenantID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (f *fakeTransactionRepo) FindAllForScope(_ context.Context, scope shared.Scope, _ finance.TransactionFilter) ([]finance.FinancialTransaction, int64, error) {
	var out []finance.FinancialTransaction
	for _, t := range f.transactions {
		if t.TenantID == scope.TenantID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTransactionRepo) Save(_ context.Context, t *finance.FinancialTransaction) error {
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeTransactionRepo) Delete(_ context.Context, t *finance.FinancialTransaction) error {
	delete(f.transactions, t.ID)
	return nil
}

// fakeSequences allocates predictable codes
type fakeSequences struct {
	counters map[string]int
}

func newFakeSequences() *fakeSequences {
	return &fakeSequences{counters: map[string]int{}}
}

func (f *fakeSequences) Next(_ context.Context, _ shared.Scope, entityType string) (string, error) {
	f.counters[entityType]++
	prefix := map[string]string{
		shared.SequenceContract:    "C",
		shared.SequenceReceivable:  "R",
		shared.SequenceTransaction: "T",
	}[entityType]
	if prefix == "" {
		prefix = "S"
	}
	return fmt.Sprintf("%s-%06d", prefix, f.counters[entityType]), nil
}

func newTestService(t *testing.T) (*ReceivableService, *fakeReceivableRepo, *fakeTransactionRepo) {
	t.Helper()
	receivables := newFakeReceivableRepo()
	transactions := newFakeTransactionRepo()
	svc := NewReceivableService(
		NewNoOpTransactionScope(receivables, transactions),
		newFakeSequences(),
		zap.NewNop(),
	)
	svc.SetTodayProvider(func() valueobject.Date {
		d, _ := valueobject.ParseDate("2024-03-15")
		return d
	})
	return svc, receivables, transactions
}

func addOpen(t *testing.T, repo *fakeReceivableRepo, scope shared.Scope, clientID uuid.UUID, amount float64, due string) *finance.Receivable {
	t.Helper()
	var duePtr *valueobject.Date
	if due != "" {
		d, err := valueobject.ParseDate(due)
		require.NoError(t, err)
		duePtr = &d
	}
	r, err := finance.NewReceivable(scope, fmt.Sprintf("R-%06d", len(repo.receivables)+1),
		clientID, "fee", valueobject.NewMoneyBRLFromFloat(amount), duePtr)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), r))
	return r
}

func TestPayReceivables_FullPayment(t *testing.T) {
	svc, receivables, transactions := newTestService(t)
	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
	clientID := uuid.New()
	oldest := addOpen(t, receivables, scope, clientID, 100, "2024-01-01")
	newest := addOpen(t, receivables, scope, clientID, 50, "2024-02-01")

	resp, err := svc.PayReceivables(context.Background(), scope, PayReceivablesRequest{
		ClientID: clientID,
		Amount:   decimal.NewFromInt(150),
		Method:   "pix",
	})
	require.NoError(t, err)

	assert.Equal(t, "150", resp.TotalPaid.String())
	assert.True(t, resp.StillPending.IsZero())
	assert.Nil(t, resp.NewReceivableID)

	assert.Equal(t, finance.ReceivableStatusPaid, oldest.Status)
	assert.Equal(t, finance.ReceivableStatusPaid, newest.Status)

	// One negative ledger entry covers the whole outflow
	tx := transactions.transactions[resp.TransactionID]
	require.NotNil(t, tx)
	assert.Equal(t, finance.TransactionTypeReceivablePayment, tx.Type)
	assert.Equal(t, "-150", tx.Amount.Amount().String())
	assert.Equal(t, "pix", tx.PaymentMethod)
	require.NotNil(t, tx.ClientID)
	assert.Equal(t, clientID, *tx.ClientID)
}

func TestPayReceivables_PartialWithRollover(t *testing.T) {
	svc, receivables, _ := newTestService(t)
	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
	clientID := uuid.New()
	saleID := uuid.New()
	r := addOpen(t, receivables, scope, clientID, 200, "2024-03-01")
	r.LinkSale(saleID)

	resp, err := svc.PayReceivables(context.Background(), scope, PayReceivablesRequest{
		ClientID:    clientID,
		Amount:      decimal.NewFromInt(80),
		Method:      "cash",
		NextDueDate: "2024-04-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "80", resp.TotalPaid.String())
	assert.Equal(t, "120", resp.StillPending.String())
	require.NotNil(t, resp.NewReceivableID)

	residual := receivables.receivables[*resp.NewReceivableID]
	require.NotNil(t, residual)
	assert.Equal(t, "120", residual.Amount.Amount().String())
	assert.Equal(t, "2024-04-01", residual.DueDate.String())
	// Continuity: the rollover keeps the sale link
	require.NotNil(t, residual.SaleID)
	assert.Equal(t, saleID, *residual.SaleID)

	// The superseded receivable no longer counts as open debt
	assert.Equal(t, finance.ReceivableStatusCancelled, r.Status)
}

func TestPayReceivables_PartialWithoutDueDateLeavesBalance(t *testing.T) {
	svc, receivables, _ := newTestService(t)
	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
	clientID := uuid.New()
	r := addOpen(t, receivables, scope, clientID, 200, "2024-03-01")

	resp, err := svc.PayReceivables(context.Background(), scope, PayReceivablesRequest{
		ClientID: clientID,
		Amount:   decimal.NewFromInt(80),
		Method:   "cash",
	})
	require.NoError(t, err)

	assert.Nil(t, resp.NewReceivableID)
	assert.Equal(t, finance.ReceivableStatusOpen, r.Status)
	assert.Equal(t, "120", r.Balance.Amount().String())
}

func TestPayReceivables_SubsetOnly(t *testing.T) {
	svc, receivables, _ := newTestService(t)
	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
	clientID := uuid.New()
	targeted := addOpen(t, receivables, scope, clientID, 60, "2024-01-01")
	untouched := addOpen(t, receivables, scope, clientID, 60, "2024-01-02")

	_, err := svc.PayReceivables(context.Background(), scope, PayReceivablesRequest{
		ClientID:      clientID,
		Amount:        decimal.NewFromInt(60),
		Method:        "card",
		ReceivableIDs: []uuid.UUID{targeted.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, finance.ReceivableStatusPaid, targeted.Status)
	assert.Equal(t, finance.ReceivableStatusOpen, untouched.Status)
}

func TestPayReceivables_NoOpenDebts(t *testing.T) {
	svc, _, _ := newTestService(t)
	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}

	_, err := svc.PayReceivables(context.Background(), scope, PayReceivablesRequest{
		ClientID: uuid.New(),
		Amount:   decimal.NewFromInt(50),
		Method:   "cash",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrorKindNotFound, domainErr.Kind)
}

func TestPayReceivables_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}

	_, err := svc.PayReceivables(context.Background(), scope, PayReceivablesRequest{
		ClientID: uuid.New(),
		Amount:   decimal.NewFromInt(-10),
		Method:   "cash",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrorKindInvalidArgument, domainErr.Kind)
}
