package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/domain/summary"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSummaryRepository implements summary.Repository using GORM
type GormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GormSummaryRepository
func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

// counterColumns is the fixed set of additive columns. Upserts increment
// these in place so concurrent deltas never lose updates.
var counterColumns = []string{
	"revenue_total",
	"expense_total",
	"receivable_payments_total",
	"sales_count",
	"sales_total",
	"contracts_started",
	"contracts_cancelled",
	"contracts_suspended",
	"scheduled_cancellations",
	"active_contracts_delta",
	"churn",
}

// ApplyDelta applies a counter delta to the daily row and the matching
// monthly row in one transaction. Both writes are single-statement
// insert-or-increment upserts.
func (r *GormSummaryRepository) ApplyDelta(ctx context.Context, delta summary.Delta) error {
	if delta.IsZero() {
		return nil
	}
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		daily := &models.DailySummaryModel{
			TenantID:  delta.Scope.TenantID,
			BranchID:  delta.Scope.BranchID,
			Date:      delta.Date,
			CreatedAt: now,
			UpdatedAt: now,
		}
		daily.SetCounters(delta.Counters)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "branch_id"}, {Name: "date"}},
			DoUpdates: incrementAssignments("daily_summaries", now),
		}).Create(daily).Error; err != nil {
			return err
		}

		monthly := &models.MonthlySummaryModel{
			TenantID:  delta.Scope.TenantID,
			BranchID:  delta.Scope.BranchID,
			Month:     delta.Date.YearMonth(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		monthly.SetCounters(delta.Counters)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "branch_id"}, {Name: "month"}},
			DoUpdates: incrementAssignments("monthly_summaries", now),
		}).Create(monthly).Error
	})
}

// incrementAssignments builds "col = table.col + excluded.col" assignments
// for every counter column
func incrementAssignments(table string, now time.Time) clause.Set {
	assignments := make([]clause.Assignment, 0, len(counterColumns)+1)
	for _, col := range counterColumns {
		assignments = append(assignments, clause.Assignment{
			Column: clause.Column{Name: col},
			Value:  gorm.Expr(table + "." + col + " + excluded." + col),
		})
	}
	assignments = append(assignments, clause.Assignment{
		Column: clause.Column{Name: "updated_at"},
		Value:  now,
	})
	return clause.Set(assignments)
}

// GetDaily returns the summary for one day, or shared.ErrNotFound when no
// activity has been recorded
func (r *GormSummaryRepository) GetDaily(ctx context.Context, scope shared.Scope, date valueobject.Date) (*summary.DailySummary, error) {
	var model models.DailySummaryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND date = ?", scope.TenantID, scope.BranchID, date).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetDailyRange returns the daily summaries inside a closed date interval,
// ordered by date. Days without activity have no row and are omitted.
func (r *GormSummaryRepository) GetDailyRange(ctx context.Context, scope shared.Scope, from, to valueobject.Date) ([]summary.DailySummary, error) {
	var summaryModels []models.DailySummaryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND date >= ? AND date <= ?",
			scope.TenantID, scope.BranchID, from, to).
		Order("date ASC").
		Find(&summaryModels).Error; err != nil {
		return nil, err
	}
	result := make([]summary.DailySummary, len(summaryModels))
	for i := range summaryModels {
		result[i] = *summaryModels[i].ToDomain()
	}
	return result, nil
}

// GetMonthly returns the summary for one month (YYYY-MM), or
// shared.ErrNotFound when no activity has been recorded
func (r *GormSummaryRepository) GetMonthly(ctx context.Context, scope shared.Scope, month string) (*summary.MonthlySummary, error) {
	var model models.MonthlySummaryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND branch_id = ? AND month = ?", scope.TenantID, scope.BranchID, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormSummaryRepository implements summary.Repository
var _ summary.Repository = (*GormSummaryRepository)(nil)
