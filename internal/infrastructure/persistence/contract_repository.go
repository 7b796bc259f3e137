package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormContractRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForScope finds a contract by ID within a tenant/branch scope
func (r *GormContractRepository) FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*membership.Contract, error) {
	var model models.ContractModel
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

// FindAllForScope finds all contracts in a scope with filtering and pagination
func (r *GormContractRepository) FindAllForScope(ctx context.Context, scope shared.Scope, filter membership.ContractFilter) ([]membership.Contract, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContractModel{}).
		Where("tenant_id = ? AND branch_id = ?", scope.TenantID, scope.BranchID)

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
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

	var contractModels []models.ContractModel
	if err := query.Order("created_at DESC").Find(&contractModels).Error; err != nil {
		return nil, 0, err
	}
	contracts := make([]membership.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = *contractModels[i].ToDomain()
	}
	return contracts, total, nil
}

// FindDueScheduledCancellations finds contracts whose scheduled cancellation
// date has arrived
func (r *GormContractRepository) FindDueScheduledCancellations(ctx context.Context, onOrBefore valueobject.Date, limit int) ([]membership.Contract, error) {
	var contractModels []models.ContractModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND cancel_date <= ?", string(membership.ContractStatusScheduledCancellation), onOrBefore).
		Order("cancel_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&contractModels).Error; err != nil {
		return nil, err
	}
	contracts := make([]membership.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = *contractModels[i].ToDomain()
	}
	return contracts, nil
}

// Save creates or updates a contract and persists its pending domain
// events to the outbox within the same transaction
func (r *GormContractRepository) Save(ctx context.Context, contract *membership.Contract) error {
	events := contract.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ContractModelFromDomain(contract)
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
	contract.ClearDomainEvents()
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormContractRepository) SaveWithLock(ctx context.Context, contract *membership.Contract) error {
	events := contract.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		row := tx.Model(&models.ContractModel{}).
			Where("id = ?", contract.ID).
			Select("version").
			Scan(&currentVersion)
		if row.Error != nil {
			return row.Error
		}
		if row.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if currentVersion != contract.Version {
			return shared.ErrConcurrencyConflict
		}

		contract.Version++
		contract.UpdatedAt = time.Now()

		model := models.ContractModelFromDomain(contract)
		result := tx.Model(&models.ContractModel{}).
			Where("id = ? AND version = ?", contract.ID, currentVersion).
			Updates(map[string]interface{}{
				"plan_name":               model.PlanName,
				"status":                  model.Status,
				"start_date":              model.StartDate,
				"end_date":                model.EndDate,
				"allow_suspension":        model.AllowSuspension,
				"suspension_max_days":     model.SuspensionMaxDays,
				"total_suspended_days":    model.TotalSuspendedDays,
				"pending_suspension_days": model.PendingSuspensionDays,
				"cancel_date":             model.CancelDate,
				"cancel_reason":           model.CancelReason,
				"refunded_on_cancel":      model.RefundedOnCancel,
				"source_sale_id":          model.SourceSaleID,
				"version":                 model.Version,
				"updated_at":              model.UpdatedAt,
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
	contract.ClearDomainEvents()
	return nil
}

// Ensure GormContractRepository implements ContractRepository
var _ membership.ContractRepository = (*GormContractRepository)(nil)
