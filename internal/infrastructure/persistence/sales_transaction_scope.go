package persistence

import (
	"context"

	appsales "github.com/fitdesk/backend/internal/application/sales"
	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSalesTransactionScope implements the sales TransactionScope using
// GORM transactions. One scope covers the whole sale batch: the sale,
// its generated contracts, ledger entries, shortfall receivable and
// credit.
type GormSalesTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// SetOutboxEventSaver wires the outbox saver into repositories created
// inside the scope
func (s *GormSalesTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormSalesRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormSalesRepositories provides transaction-bound repositories for the
// sale batch
type gormSalesRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormSalesRepositories) SaleRepo() sales.SaleRepository {
	repo := NewGormSaleRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// ContractRepo returns the contract repository scoped to the current transaction
func (r *gormSalesRepositories) ContractRepo() membership.ContractRepository {
	repo := NewGormContractRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// TransactionRepo returns the ledger repository scoped to the current transaction
func (r *gormSalesRepositories) TransactionRepo() finance.TransactionRepository {
	repo := NewGormTransactionRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// ReceivableRepo returns the receivable repository scoped to the current transaction
func (r *gormSalesRepositories) ReceivableRepo() finance.ReceivableRepository {
	repo := NewGormReceivableRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// CreditRepo returns the credit repository scoped to the current transaction
func (r *gormSalesRepositories) CreditRepo() finance.CreditRepository {
	return NewGormCreditRepository(r.tx)
}

// Ensure GormSalesTransactionScope implements TransactionScope
var _ appsales.TransactionScope = (*GormSalesTransactionScope)(nil)

// Ensure gormSalesRepositories implements TransactionalRepositories
var _ appsales.TransactionalRepositories = (*gormSalesRepositories)(nil)
