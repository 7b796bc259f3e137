package persistence

import (
	"context"
	"errors"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormTransactionRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a ledger entry by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForScope finds a ledger entry by ID within a tenant/branch scope
func (r *GormTransactionRepository) FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND id = ?", scope.TenantID, scope.BranchID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForScope finds ledger entries in a scope with filtering and pagination
func (r *GormTransactionRepository) FindAllForScope(ctx context.Context, scope shared.Scope, filter finance.TransactionFilter) ([]finance.FinancialTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}).
		Where("tenant_id = ? AND branch_id = ?", scope.TenantID, scope.BranchID)

	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.DateFrom != "" {
		query = query.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("date <= ?", filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var transactionModels []models.FinancialTransactionModel
	if err := query.Order("date DESC, created_at DESC").Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}
	transactions := make([]finance.FinancialTransaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = *transactionModels[i].ToDomain()
	}
	return transactions, total, nil
}

// Save creates or updates a ledger entry and persists its pending domain
// events to the outbox within the same transaction
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *finance.FinancialTransaction) error {
	events := transaction.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.FinancialTransactionModelFromDomain(transaction)
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	transaction.ClearDomainEvents()
	return nil
}

// Delete removes a ledger entry. The reversal event raised by MarkDeleted
// goes to the outbox in the same transaction as the row removal.
func (r *GormTransactionRepository) Delete(ctx context.Context, transaction *finance.FinancialTransaction) error {
	events := transaction.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.FinancialTransactionModel{}, "id = ?", transaction.ID).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	transaction.ClearDomainEvents()
	return nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
