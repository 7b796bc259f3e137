package models

import (
	"time"

	"github.com/google/uuid"
)

// BranchSettingsModel holds per-branch behavior flags
type BranchSettingsModel struct {
	TenantID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CancelDebtOnCancelledContracts bool      `gorm:"not null;default:false"`
	CreatedAt                      time.Time `gorm:"not null"`
	UpdatedAt                      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BranchSettingsModel) TableName() string {
	return "branch_settings"
}
