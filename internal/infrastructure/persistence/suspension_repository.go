package persistence

import (
	"context"
	"errors"

	"github.com/fitdesk/backend/internal/domain/membership"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSuspensionRepository implements SuspensionRepository using GORM
type GormSuspensionRepository struct {
	db *gorm.DB
}

// NewGormSuspensionRepository creates a new GormSuspensionRepository
func NewGormSuspensionRepository(db *gorm.DB) *GormSuspensionRepository {
	return &GormSuspensionRepository{db: db}
}

// FindByID finds a suspension by its ID
func (r *GormSuspensionRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Suspension, error) {
	var model models.SuspensionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContract finds all suspensions belonging to a contract
func (r *GormSuspensionRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]membership.Suspension, error) {
	var suspensionModels []models.SuspensionModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("start_date ASC").
		Find(&suspensionModels).Error; err != nil {
		return nil, err
	}
	suspensions := make([]membership.Suspension, len(suspensionModels))
	for i := range suspensionModels {
		suspensions[i] = *suspensionModels[i].ToDomain()
	}
	return suspensions, nil
}

// FindDueScheduled finds scheduled suspensions whose start date has arrived
func (r *GormSuspensionRepository) FindDueScheduled(ctx context.Context, onOrBefore valueobject.Date, limit int) ([]membership.Suspension, error) {
	var suspensionModels []models.SuspensionModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND start_date <= ?", string(membership.SuspensionStatusScheduled), onOrBefore).
		Order("start_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&suspensionModels).Error; err != nil {
		return nil, err
	}
	suspensions := make([]membership.Suspension, len(suspensionModels))
	for i := range suspensionModels {
		suspensions[i] = *suspensionModels[i].ToDomain()
	}
	return suspensions, nil
}

// Save creates or updates a suspension
func (r *GormSuspensionRepository) Save(ctx context.Context, suspension *membership.Suspension) error {
	model := models.SuspensionModelFromDomain(suspension)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSuspensionRepository implements SuspensionRepository
var _ membership.SuspensionRepository = (*GormSuspensionRepository)(nil)
