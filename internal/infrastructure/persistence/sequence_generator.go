package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sequencePrefixes maps entity types to their document code prefix
var sequencePrefixes = map[string]string{
	shared.SequenceContract:     "C",
	shared.SequenceReceivable:   "R",
	shared.SequenceTransaction:  "T",
	shared.SequenceSaleContract: "S",
	shared.SequenceSaleService:  "S",
	shared.SequenceSaleProduct:  "S",
	shared.SequenceSaleGeneric:  "S",
}

// GormSequenceGenerator implements SequenceGenerator with one counter row
// per (tenant, branch, entity type). Allocation is a single atomic upsert,
// so two concurrent sales can never draw the same code.
type GormSequenceGenerator struct {
	db *gorm.DB
}

// NewGormSequenceGenerator creates a new GormSequenceGenerator
func NewGormSequenceGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db}
}

// Next allocates the next document code for the entity type within the scope
func (g *GormSequenceGenerator) Next(ctx context.Context, scope shared.Scope, entityType string) (string, error) {
	prefix, ok := sequencePrefixes[entityType]
	if !ok {
		return "", shared.NewInvalidArgument("UNKNOWN_SEQUENCE", fmt.Sprintf("Unknown sequence entity type %q", entityType))
	}
	if scope.IsZero() {
		return "", shared.NewInvalidArgument("INVALID_SCOPE", "Tenant and branch are required")
	}

	// One upsert allocates the number: the insert seeds the counter at 1,
	// the conflict branch increments the existing row, and RETURNING
	// carries back whichever value this caller drew. Two concurrent
	// allocations for the same scope serialize on the row instead of
	// racing a read-then-insert.
	now := time.Now()
	counter := models.SequenceCounterModel{
		TenantID:   scope.TenantID,
		BranchID:   scope.BranchID,
		EntityType: entityType,
		Current:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := g.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "tenant_id"}, {Name: "branch_id"}, {Name: "entity_type"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"current":    gorm.Expr(`"sequence_counters"."current" + 1`),
					"updated_at": now,
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "current"}}},
		).
		Create(&counter).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%06d", prefix, counter.Current), nil
}

// Ensure GormSequenceGenerator implements SequenceGenerator
var _ shared.SequenceGenerator = (*GormSequenceGenerator)(nil)
