package models

import (
	"time"

	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// EnrollmentType distinguishes recurring class slots from single sessions
type EnrollmentType string

const (
	EnrollmentTypeRecurring EnrollmentType = "RECURRING"
	EnrollmentTypeSession   EnrollmentType = "SESSION"
)

// EnrollmentModel is the persistence model for class enrollments. The
// ledger engine only deletes rows here during contract cancellation;
// enrollment management is owned by another service writing to the same
// table.
type EnrollmentModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_enrollment_scope,priority:1"`
	BranchID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_enrollment_scope,priority:2"`
	ClientID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_enrollment_client"`
	Type        EnrollmentType    `gorm:"type:varchar(20);not null"`
	ClassName   string            `gorm:"type:varchar(255)"`
	SessionDate *valueobject.Date `gorm:"type:date"`
	CreatedAt   time.Time         `gorm:"not null"`
	UpdatedAt   time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EnrollmentModel) TableName() string {
	return "class_enrollments"
}
