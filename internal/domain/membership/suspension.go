package membership

import (
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SuspensionStatus represents the status of a contract suspension
type SuspensionStatus string

const (
	SuspensionStatusScheduled SuspensionStatus = "SCHEDULED" // Starts in the future, days held as pending
	SuspensionStatusActive    SuspensionStatus = "ACTIVE"    // Currently pausing the contract clock
	SuspensionStatusStopped   SuspensionStatus = "STOPPED"   // Ended early, unused days returned
	SuspensionStatusCancelled SuspensionStatus = "CANCELLED" // Revoked before it ever started
)

// IsValid checks if the status is a valid SuspensionStatus
func (s SuspensionStatus) IsValid() bool {
	switch s {
	case SuspensionStatusScheduled, SuspensionStatusActive, SuspensionStatusStopped, SuspensionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SuspensionStatus
func (s SuspensionStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the suspension can no longer change
func (s SuspensionStatus) IsTerminal() bool {
	return s == SuspensionStatusStopped || s == SuspensionStatusCancelled
}

// Suspension is a temporary pause of a contract's day-count clock.
// It is a child entity of exactly one Contract and is only ever mutated
// through Contract transitions.
type Suspension struct {
	shared.BaseEntity
	ContractID uuid.UUID
	TenantID   uuid.UUID
	BranchID   uuid.UUID
	Status     SuspensionStatus
	StartDate  valueobject.Date
	EndDate    valueobject.Date
	// DaysUsed is the day count the suspension holds. For a scheduled or
	// active suspension this is the requested span; once stopped it is
	// rewritten to the days actually consumed.
	DaysUsed int
	Reason   string
	// Audit trail of the contract end-date shift caused by activation
	PreviousEndDate valueobject.Date
	NewEndDate      valueobject.Date
}

// newSuspension creates a suspension child for the given contract
func newSuspension(c *Contract, startDate, endDate valueobject.Date, daysRequested int, reason string, status SuspensionStatus) *Suspension {
	return &Suspension{
		BaseEntity: shared.NewBaseEntity(),
		ContractID: c.ID,
		TenantID:   c.TenantID,
		BranchID:   c.BranchID,
		Status:     status,
		StartDate:  startDate,
		EndDate:    endDate,
		DaysUsed:   daysRequested,
		Reason:     reason,
	}
}

// IsScheduled returns true while the suspension has not started
func (s *Suspension) IsScheduled() bool {
	return s.Status == SuspensionStatusScheduled
}

// IsActive returns true while the suspension is pausing the contract
func (s *Suspension) IsActive() bool {
	return s.Status == SuspensionStatusActive
}
