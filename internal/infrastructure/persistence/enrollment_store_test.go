package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
)

func setupEnrollmentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.EnrollmentModel{}, &models.BranchSettingsModel{})
	require.NoError(t, err)

	return db
}

func seedEnrollment(t *testing.T, db *gorm.DB, scope shared.Scope, clientID uuid.UUID, typ models.EnrollmentType, sessionDate string) uuid.UUID {
	m := models.EnrollmentModel{
		ID:       uuid.New(),
		TenantID: scope.TenantID,
		BranchID: scope.BranchID,
		ClientID: clientID,
		Type:     typ,
	}
	if sessionDate != "" {
		d, err := valueobject.ParseDate(sessionDate)
		require.NoError(t, err)
		m.SessionDate = &d
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

func countEnrollments(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.EnrollmentModel{}).Count(&n).Error)
	return n
}

func TestGormEnrollmentStore_DeleteRecurringForClient(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	store := NewGormEnrollmentStore(db)
	ctx := context.Background()

	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
	clientID := uuid.New()
	otherClient := uuid.New()

	seedEnrollment(t, db, scope, clientID, models.EnrollmentTypeRecurring, "")
	seedEnrollment(t, db, scope, clientID, models.EnrollmentTypeRecurring, "")
	seedEnrollment(t, db, scope, clientID, models.EnrollmentTypeSession, "2030-01-01")
	seedEnrollment(t, db, scope, otherClient, models.EnrollmentTypeRecurring, "")

	require.NoError(t, store.DeleteRecurringForClient(ctx, scope, clientID))

	// Session row and the other client's recurring row survive
	assert.Equal(t, int64(2), countEnrollments(t, db))
}

func TestGormEnrollmentStore_DeleteFutureSessionsForClient(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	store := NewGormEnrollmentStore(db)
	today, err := valueobject.ParseDate("2024-06-15")
	require.NoError(t, err)
	store.SetTodayProvider(func() valueobject.Date { return today })
	ctx := context.Background()

	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
	clientID := uuid.New()

	pastID := seedEnrollment(t, db, scope, clientID, models.EnrollmentTypeSession, "2024-06-01")
	todayID := seedEnrollment(t, db, scope, clientID, models.EnrollmentTypeSession, "2024-06-15")
	seedEnrollment(t, db, scope, clientID, models.EnrollmentTypeSession, "2024-06-16")
	seedEnrollment(t, db, scope, clientID, models.EnrollmentTypeRecurring, "")

	require.NoError(t, store.DeleteFutureSessionsForClient(ctx, scope, clientID))

	var remaining []models.EnrollmentModel
	require.NoError(t, db.Find(&remaining).Error)
	ids := map[uuid.UUID]bool{}
	for _, m := range remaining {
		ids[m.ID] = true
	}
	assert.Len(t, remaining, 3)
	assert.True(t, ids[pastID])
	assert.True(t, ids[todayID])
}

func TestGormEnrollmentStore_ScopeIsolation(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	store := NewGormEnrollmentStore(db)
	ctx := context.Background()

	clientID := uuid.New()
	scopeA := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}
	scopeB := shared.Scope{TenantID: scopeA.TenantID, BranchID: uuid.New()}

	seedEnrollment(t, db, scopeA, clientID, models.EnrollmentTypeRecurring, "")
	seedEnrollment(t, db, scopeB, clientID, models.EnrollmentTypeRecurring, "")

	require.NoError(t, store.DeleteRecurringForClient(ctx, scopeA, clientID))

	assert.Equal(t, int64(1), countEnrollments(t, db))
}

func TestGormBranchPolicyStore_CancelDebt(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	store := NewGormBranchPolicyStore(db)
	ctx := context.Background()

	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}

	t.Run("defaults to false without a settings row", func(t *testing.T) {
		cancelDebt, err := store.CancelDebtOnCancelledContracts(ctx, scope)
		require.NoError(t, err)
		assert.False(t, cancelDebt)
	})

	t.Run("reads the branch flag", func(t *testing.T) {
		require.NoError(t, db.Create(&models.BranchSettingsModel{
			TenantID:                       scope.TenantID,
			BranchID:                       scope.BranchID,
			CancelDebtOnCancelledContracts: true,
		}).Error)

		cancelDebt, err := store.CancelDebtOnCancelledContracts(ctx, scope)
		require.NoError(t, err)
		assert.True(t, cancelDebt)
	})
}
