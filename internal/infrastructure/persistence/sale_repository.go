package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fitdesk/backend/internal/domain/sales"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormSaleRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForScope finds a sale by ID within a tenant/branch scope
func (r *GormSaleRepository) FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND branch_id = ? AND id = ?", scope.TenantID, scope.BranchID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForScope finds sales in a scope with filtering and pagination
func (r *GormSaleRepository) FindAllForScope(ctx context.Context, scope shared.Scope, filter sales.SaleFilter) ([]sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("tenant_id = ? AND branch_id = ?", scope.TenantID, scope.BranchID)

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.DateFrom != "" {
		query = query.Where("sale_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("sale_date <= ?", filter.DateTo)
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

	var saleModels []models.SaleModel
	if err := query.Preload("Items").Order("sale_date DESC, created_at DESC").Find(&saleModels).Error; err != nil {
		return nil, 0, err
	}
	result := make([]sales.Sale, len(saleModels))
	for i := range saleModels {
		result[i] = *saleModels[i].ToDomain()
	}
	return result, total, nil
}

// Save creates or updates a sale, replacing its item collection wholesale,
// and persists pending domain events to the outbox in the same transaction
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	events := sale.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.SaleModelFromDomain(sale)
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if err := r.replaceItems(tx, sale); err != nil {
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
	sale.ClearDomainEvents()
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	events := sale.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		row := tx.Model(&models.SaleModel{}).
			Where("id = ?", sale.ID).
			Select("version").
			Scan(&currentVersion)
		if row.Error != nil {
			return row.Error
		}
		if row.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if currentVersion != sale.Version {
			return shared.ErrConcurrencyConflict
		}

		sale.Version++
		sale.UpdatedAt = time.Now()

		model := models.SaleModelFromDomain(sale)
		result := tx.Model(&models.SaleModel{}).
			Where("id = ? AND version = ?", sale.ID, currentVersion).
			Updates(map[string]interface{}{
				"sale_date":      model.SaleDate,
				"status":         model.Status,
				"gross_total":    model.GrossTotal,
				"discount_total": model.DiscountTotal,
				"net_total":      model.NetTotal,
				"paid_total":     model.PaidTotal,
				"pending_total":  model.PendingTotal,
				"payments":       model.Payments,
				"notes":          model.Notes,
				"version":        model.Version,
				"updated_at":     model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := r.replaceItems(tx, sale); err != nil {
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
	sale.ClearDomainEvents()
	return nil
}

// Delete removes a sale and its items. The reversal event raised by
// MarkDeleted goes to the outbox in the same transaction.
func (r *GormSaleRepository) Delete(ctx context.Context, sale *sales.Sale) error {
	events := sale.GetDomainEvents()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SaleModel{}, "id = ?", sale.ID).Error; err != nil {
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
	sale.ClearDomainEvents()
	return nil
}

// replaceItems deletes removed items and saves the current ones
func (r *GormSaleRepository) replaceItems(tx *gorm.DB, sale *sales.Sale) error {
	currentItemIDs := make([]uuid.UUID, len(sale.Items))
	for i, item := range sale.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("sale_id = ? AND id NOT IN ?", sale.ID, currentItemIDs).
			Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("sale_id = ?", sale.ID).
			Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
		itemModel := models.SaleItemModelFromDomain(&sale.Items[i])
		if err := tx.Save(itemModel).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
