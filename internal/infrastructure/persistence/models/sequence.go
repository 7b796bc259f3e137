package models

import (
	"time"

	"github.com/google/uuid"
)

// SequenceCounterModel is one counter row per (tenant, branch, entity
// type). Allocation upserts the row and increments it in one statement,
// so codes never repeat within a scope.
type SequenceCounterModel struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityType string    `gorm:"type:varchar(30);primaryKey"`
	Current    int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}
