package finance

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/finance"
)

// TransactionScope provides transactional access to finance
// repositories. Everything executed inside one scope commits or rolls
// back atomically.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to finance repositories
// within a transaction
type TransactionalRepositories interface {
	ReceivableRepo() finance.ReceivableRepository
	TransactionRepo() finance.TransactionRepository
}

// NoOpTransactionScope runs the function without a real transaction,
// used in tests.
type NoOpTransactionScope struct {
	receivableRepo  finance.ReceivableRepository
	transactionRepo finance.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given
// repositories
func NewNoOpTransactionScope(
	receivableRepo finance.ReceivableRepository,
	transactionRepo finance.TransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		receivableRepo:  receivableRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ReceivableRepo returns the receivable repository
func (s *NoOpTransactionScope) ReceivableRepo() finance.ReceivableRepository {
	return s.receivableRepo
}

// TransactionRepo returns the financial transaction repository
func (s *NoOpTransactionScope) TransactionRepo() finance.TransactionRepository {
	return s.transactionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
