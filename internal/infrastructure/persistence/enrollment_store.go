package persistence

import (
	"context"
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"

	appmembership "github.com/fitdesk/backend/internal/application/membership"
)

// GormEnrollmentStore removes class enrollments during contract
// cancellation cleanup
type GormEnrollmentStore struct {
	db    *gorm.DB
	today func() valueobject.Date
}

// NewGormEnrollmentStore creates a new GormEnrollmentStore
func NewGormEnrollmentStore(db *gorm.DB) *GormEnrollmentStore {
	return &GormEnrollmentStore{db: db, today: func() valueobject.Date {
		return valueobject.Today(time.UTC)
	}}
}

// SetTodayProvider overrides the civil-date clock, for tests
func (s *GormEnrollmentStore) SetTodayProvider(today func() valueobject.Date) {
	s.today = today
}

// DeleteRecurringForClient removes the client's recurring enrollments
func (s *GormEnrollmentStore) DeleteRecurringForClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND client_id = ? AND type = ?",
			scope.TenantID, scope.BranchID, clientID, models.EnrollmentTypeRecurring).
		Delete(&models.EnrollmentModel{}).Error
}

// DeleteFutureSessionsForClient removes single-session enrollments dated
// strictly after today. Sessions already held or happening today stay.
func (s *GormEnrollmentStore) DeleteFutureSessionsForClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND client_id = ? AND type = ? AND session_date > ?",
			scope.TenantID, scope.BranchID, clientID, models.EnrollmentTypeSession, s.today()).
		Delete(&models.EnrollmentModel{}).Error
}

var _ appmembership.EnrollmentStore = (*GormEnrollmentStore)(nil)
