package event

import (
	"context"
	"errors"
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository persists outbox entries through GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

var _ shared.OutboxRepository = (*GormOutboxRepository)(nil)

// WithTx returns a repository bound to the given transaction.
func (r *GormOutboxRepository) WithTx(tx *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: tx}
}

func toModels(entries []*shared.OutboxEntry) []*models.OutboxEntryModel {
	ms := make([]*models.OutboxEntryModel, len(entries))
	for i, e := range entries {
		ms[i] = models.OutboxEntryModelFromDomain(e)
	}
	return ms
}

func toEntries(ms []*models.OutboxEntryModel) []*shared.OutboxEntry {
	entries := make([]*shared.OutboxEntry, len(ms))
	for i, m := range ms {
		entries[i] = m.ToDomain()
	}
	return entries
}

// find runs the given query builder and maps the rows to domain entries.
func (r *GormOutboxRepository) find(ctx context.Context, build func(*gorm.DB) *gorm.DB) ([]*shared.OutboxEntry, error) {
	var ms []*models.OutboxEntryModel
	if err := build(r.db.WithContext(ctx)).Find(&ms).Error; err != nil {
		return nil, err
	}
	return toEntries(ms), nil
}

func (r *GormOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(toModels(entries)).Error
}

// FindPending returns the oldest unprocessed entries, at most limit of them.
func (r *GormOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", shared.OutboxStatusPending).
			Order("created_at ASC").
			Limit(limit)
	})
}

// FindRetryable returns failed entries whose backoff deadline has passed.
func (r *GormOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ? AND next_retry_at <= ?", shared.OutboxStatusFailed, before).
			Order("next_retry_at ASC").
			Limit(limit)
	})
}

// MarkProcessing claims the given entries for this worker and returns the
// ones it actually got. Rows locked by a concurrent worker are skipped, and
// rows that already left the PENDING/FAILED states are filtered out.
func (r *GormOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	claimable := []shared.OutboxStatus{shared.OutboxStatusPending, shared.OutboxStatusFailed}

	var ms []*models.OutboxEntryModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("id IN ? AND status IN ?", ids, claimable).
			Find(&ms).Error; err != nil {
			return err
		}
		if len(ms) == 0 {
			return nil
		}

		claimed := make([]uuid.UUID, len(ms))
		for i, m := range ms {
			claimed[i] = m.ID
		}

		now := time.Now()
		if err := tx.Model(&models.OutboxEntryModel{}).
			Where("id IN ?", claimed).
			Updates(map[string]any{
				"status":     shared.OutboxStatusProcessing,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		for _, m := range ms {
			m.Status = shared.OutboxStatusProcessing
			m.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toEntries(ms), nil
}

func (r *GormOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(models.OutboxEntryModelFromDomain(entry)).Error
}

// DeleteOlderThan removes sent entries processed before the cutoff and
// returns how many rows went away.
func (r *GormOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", shared.OutboxStatusSent, before).
		Delete(&models.OutboxEntryModel{})
	return result.RowsAffected, result.Error
}

// FindDead returns one page of dead letter entries, newest first, along with
// the total dead count.
func (r *GormOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.OutboxEntryModel{}).
		Where("status = ?", shared.OutboxStatusDead).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries, err := r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", shared.OutboxStatusDead).
			Order("updated_at DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize)
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *GormOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	var m models.OutboxEntryModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// CountByStatus returns the number of entries per status.
func (r *GormOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	var rows []struct {
		Status shared.OutboxStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OutboxEntryModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[shared.OutboxStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
