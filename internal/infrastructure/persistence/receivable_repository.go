package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fitdesk/backend/internal/domain/finance"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceivableRepository implements ReceivableRepository using GORM
type GormReceivableRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormReceivableRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a receivable by its ID
func (r *GormReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForScope finds a receivable by ID within a tenant/branch scope
func (r *GormReceivableRepository) FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
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

// FindOpenByClient finds a client's open receivables, optionally limited
// to an explicit subset of IDs
func (r *GormReceivableRepository) FindOpenByClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID, ids []uuid.UUID) ([]*finance.Receivable, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND client_id = ? AND status = ?",
			scope.TenantID, scope.BranchID, clientID, string(finance.ReceivableStatusOpen))
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	var receivableModels []models.ReceivableModel
	if err := query.Order("created_at ASC").Find(&receivableModels).Error; err != nil {
		return nil, err
	}
	receivables := make([]*finance.Receivable, len(receivableModels))
	for i := range receivableModels {
		receivables[i] = receivableModels[i].ToDomain()
	}
	return receivables, nil
}

// FindOpenBySale finds open receivables generated by a sale
func (r *GormReceivableRepository) FindOpenBySale(ctx context.Context, saleID uuid.UUID) ([]*finance.Receivable, error) {
	var receivableModels []models.ReceivableModel
	if err := r.db.WithContext(ctx).
		Where("sale_id = ? AND status = ?", saleID, string(finance.ReceivableStatusOpen)).
		Find(&receivableModels).Error; err != nil {
		return nil, err
	}
	receivables := make([]*finance.Receivable, len(receivableModels))
	for i := range receivableModels {
		receivables[i] = receivableModels[i].ToDomain()
	}
	return receivables, nil
}

// Save creates or updates a receivable and persists its pending domain
// events to the outbox within the same transaction
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	events := receivable.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ReceivableModelFromDomain(receivable)
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
	receivable.ClearDomainEvents()
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReceivableRepository) SaveWithLock(ctx context.Context, receivable *finance.Receivable) error {
	events := receivable.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		row := tx.Model(&models.ReceivableModel{}).
			Where("id = ?", receivable.ID).
			Select("version").
			Scan(&currentVersion)
		if row.Error != nil {
			return row.Error
		}
		if row.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if currentVersion != receivable.Version {
			return shared.ErrConcurrencyConflict
		}

		receivable.Version++
		receivable.UpdatedAt = time.Now()

		model := models.ReceivableModelFromDomain(receivable)
		result := tx.Model(&models.ReceivableModel{}).
			Where("id = ? AND version = ?", receivable.ID, currentVersion).
			Updates(map[string]interface{}{
				"description":   model.Description,
				"balance":       model.Balance,
				"due_date":      model.DueDate,
				"status":        model.Status,
				"sale_id":       model.SaleID,
				"contract_id":   model.ContractID,
				"cancel_reason": model.CancelReason,
				"version":       model.Version,
				"updated_at":    model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
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
	receivable.ClearDomainEvents()
	return nil
}

// Ensure GormReceivableRepository implements ReceivableRepository
var _ finance.ReceivableRepository = (*GormReceivableRepository)(nil)
