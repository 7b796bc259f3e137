package persistence

import (
	"context"

	appfinance "github.com/fitdesk/backend/internal/application/finance"
	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFinanceTransactionScope implements the finance TransactionScope
// using GORM transactions
type GormFinanceTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// SetOutboxEventSaver wires the outbox saver into repositories created
// inside the scope
func (s *GormFinanceTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormFinanceRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormFinanceRepositories provides transaction-bound finance repositories
type gormFinanceRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// ReceivableRepo returns the receivable repository scoped to the current transaction
func (r *gormFinanceRepositories) ReceivableRepo() finance.ReceivableRepository {
	repo := NewGormReceivableRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// TransactionRepo returns the ledger repository scoped to the current transaction
func (r *gormFinanceRepositories) TransactionRepo() finance.TransactionRepository {
	repo := NewGormTransactionRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// Ensure GormFinanceTransactionScope implements TransactionScope
var _ appfinance.TransactionScope = (*GormFinanceTransactionScope)(nil)

// Ensure gormFinanceRepositories implements TransactionalRepositories
var _ appfinance.TransactionalRepositories = (*gormFinanceRepositories)(nil)
