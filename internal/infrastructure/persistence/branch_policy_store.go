package persistence

import (
	"context"
	"errors"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"

	appmembership "github.com/fitdesk/backend/internal/application/membership"
)

// GormBranchPolicyStore reads per-branch behavior flags
type GormBranchPolicyStore struct {
	db *gorm.DB
}

// NewGormBranchPolicyStore creates a new GormBranchPolicyStore
func NewGormBranchPolicyStore(db *gorm.DB) *GormBranchPolicyStore {
	return &GormBranchPolicyStore{db: db}
}

// CancelDebtOnCancelledContracts reports whether cancelling a contract
// should also cancel open receivables from its originating sale. A
// branch with no settings row keeps the debt.
func (s *GormBranchPolicyStore) CancelDebtOnCancelledContracts(ctx context.Context, scope shared.Scope) (bool, error) {
	var settings models.BranchSettingsModel
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ?", scope.TenantID, scope.BranchID).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return settings.CancelDebtOnCancelledContracts, nil
}

var _ appmembership.BranchPolicyStore = (*GormBranchPolicyStore)(nil)
