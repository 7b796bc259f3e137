package membership

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/membership"
)

// TransactionScope provides transactional access to membership
// repositories. Everything executed inside one scope commits or rolls
// back atomically.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to membership repositories
// within a transaction. All repositories share the underlying database
// transaction.
type TransactionalRepositories interface {
	ContractRepo() membership.ContractRepository
	SuspensionRepo() membership.SuspensionRepository
}

// NoOpTransactionScope runs the function without a real transaction,
// used in tests.
type NoOpTransactionScope struct {
	contractRepo   membership.ContractRepository
	suspensionRepo membership.SuspensionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given
// repositories
func NewNoOpTransactionScope(
	contractRepo membership.ContractRepository,
	suspensionRepo membership.SuspensionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		contractRepo:   contractRepo,
		suspensionRepo: suspensionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ContractRepo returns the contract repository
func (s *NoOpTransactionScope) ContractRepo() membership.ContractRepository {
	return s.contractRepo
}

// SuspensionRepo returns the suspension repository
func (s *NoOpTransactionScope) SuspensionRepo() membership.SuspensionRepository {
	return s.suspensionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
