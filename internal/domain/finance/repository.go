package finance

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceivableRepository defines persistence for Receivable aggregates
type ReceivableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receivable, error)
	FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Receivable, error)
	// FindOpenByClient returns the client's open receivables. When ids is
	// non-empty only that subset is loaded, still restricted to OPEN.
	FindOpenByClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID, ids []uuid.UUID) ([]*Receivable, error)
	// FindOpenBySale returns open receivables generated by a sale, used by
	// the debt cleanup that follows contract cancellation
	FindOpenBySale(ctx context.Context, saleID uuid.UUID) ([]*Receivable, error)
	Save(ctx context.Context, receivable *Receivable) error
	SaveWithLock(ctx context.Context, receivable *Receivable) error
}

// TransactionFilter holds query options for listing ledger entries
type TransactionFilter struct {
	Type     *TransactionType
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

// TransactionRepository defines persistence for FinancialTransaction
// ledger entries
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialTransaction, error)
	FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*FinancialTransaction, error)
	FindAllForScope(ctx context.Context, scope shared.Scope, filter TransactionFilter) ([]FinancialTransaction, int64, error)
	Save(ctx context.Context, transaction *FinancialTransaction) error
	// Delete removes the entry after MarkDeleted raised the reversal event
	Delete(ctx context.Context, transaction *FinancialTransaction) error
}

// CreditRepository defines persistence for client credits
type CreditRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Credit, error)
	FindByClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID) ([]*Credit, error)
	Save(ctx context.Context, credit *Credit) error
}
