package sales

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to every repository a
// sale touches. The whole batch of sale, items, generated contracts,
// ledger entries, shortfall receivable and credit commits or rolls back
// as one.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction
type TransactionalRepositories interface {
	SaleRepo() sales.SaleRepository
	ContractRepo() membership.ContractRepository
	TransactionRepo() finance.TransactionRepository
	ReceivableRepo() finance.ReceivableRepository
	CreditRepo() finance.CreditRepository
}

// NoOpTransactionScope runs the function without a real transaction,
// used in tests.
type NoOpTransactionScope struct {
	saleRepo        sales.SaleRepository
	contractRepo    membership.ContractRepository
	transactionRepo finance.TransactionRepository
	receivableRepo  finance.ReceivableRepository
	creditRepo      finance.CreditRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given
// repositories
func NewNoOpTransactionScope(
	saleRepo sales.SaleRepository,
	contractRepo membership.ContractRepository,
	transactionRepo finance.TransactionRepository,
	receivableRepo finance.ReceivableRepository,
	creditRepo finance.CreditRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:        saleRepo,
		contractRepo:    contractRepo,
		transactionRepo: transactionRepo,
		receivableRepo:  receivableRepo,
		creditRepo:      creditRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository { return s.saleRepo }

// ContractRepo returns the contract repository
func (s *NoOpTransactionScope) ContractRepo() membership.ContractRepository { return s.contractRepo }

// TransactionRepo returns the financial transaction repository
func (s *NoOpTransactionScope) TransactionRepo() finance.TransactionRepository {
	return s.transactionRepo
}

// ReceivableRepo returns the receivable repository
func (s *NoOpTransactionScope) ReceivableRepo() finance.ReceivableRepository {
	return s.receivableRepo
}

// CreditRepo returns the credit repository
func (s *NoOpTransactionScope) CreditRepo() finance.CreditRepository { return s.creditRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
