package persistence

import (
	"context"

	appmembership "github.com/fitdesk/backend/internal/application/membership"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMembershipTransactionScope implements the membership TransactionScope
// using GORM transactions
type GormMembershipTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormMembershipTransactionScope creates a new GormMembershipTransactionScope
func NewGormMembershipTransactionScope(db *gorm.DB) *GormMembershipTransactionScope {
	return &GormMembershipTransactionScope{db: db}
}

// SetOutboxEventSaver wires the outbox saver into repositories created
// inside the scope
func (s *GormMembershipTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormMembershipTransactionScope) Execute(ctx context.Context, fn func(repos appmembership.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormMembershipRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormMembershipRepositories provides transaction-bound membership repositories
type gormMembershipRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// ContractRepo returns the contract repository scoped to the current transaction
func (r *gormMembershipRepositories) ContractRepo() membership.ContractRepository {
	repo := NewGormContractRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// SuspensionRepo returns the suspension repository scoped to the current transaction
func (r *gormMembershipRepositories) SuspensionRepo() membership.SuspensionRepository {
	return NewGormSuspensionRepository(r.tx)
}

// Ensure GormMembershipTransactionScope implements TransactionScope
var _ appmembership.TransactionScope = (*GormMembershipTransactionScope)(nil)

// Ensure gormMembershipRepositories implements TransactionalRepositories
var _ appmembership.TransactionalRepositories = (*gormMembershipRepositories)(nil)
