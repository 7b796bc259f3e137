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

// GormCreditRepository implements CreditRepository using GORM
type GormCreditRepository struct {
	db *gorm.DB
}

// NewGormCreditRepository creates a new GormCreditRepository
func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

// FindByID finds a credit by its ID
func (r *GormCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Credit, error) {
	var model models.CreditModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClient finds all credits belonging to a client
func (r *GormCreditRepository) FindByClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID) ([]*finance.Credit, error) {
	var creditModels []models.CreditModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND client_id = ?", scope.TenantID, scope.BranchID, clientID).
		Order("created_at ASC").
		Find(&creditModels).Error; err != nil {
		return nil, err
	}
	credits := make([]*finance.Credit, len(creditModels))
	for i := range creditModels {
		credits[i] = creditModels[i].ToDomain()
	}
	return credits, nil
}

// Save creates or updates a credit
func (r *GormCreditRepository) Save(ctx context.Context, credit *finance.Credit) error {
	model := models.CreditModelFromDomain(credit)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormCreditRepository implements CreditRepository
var _ finance.CreditRepository = (*GormCreditRepository)(nil)
