package membership

import (
	"fmt"
	"time"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ContractStatus represents the status of a client contract
type ContractStatus string

const (
	ContractStatusActive                ContractStatus = "ACTIVE"
	ContractStatusSuspended             ContractStatus = "SUSPENDED"
	ContractStatusScheduledCancellation ContractStatus = "SCHEDULED_CANCELLATION"
	ContractStatusCancelled             ContractStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusSuspended, ContractStatusScheduledCancellation, ContractStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the contract is cancelled.
// Cancelled contracts are never hard-deleted; they persist for audit.
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusCancelled
}

// Contract is a client's subscription instance. It is the aggregate root
// for all suspension and cancellation day-accounting.
//
// Invariant: whenever SuspensionMaxDays > 0,
// TotalSuspendedDays + PendingSuspensionDays <= SuspensionMaxDays.
type Contract struct {
	shared.BranchAggregateRoot
	ContractCode string
	ClientID     uuid.UUID
	PlanName     string
	Status       ContractStatus
	StartDate    valueobject.Date
	// EndDate is zero for open-ended contracts. A contract must have an
	// end date before a suspension can be activated, because activation
	// extends it by the suspended span.
	EndDate valueobject.Date

	AllowSuspension bool
	// SuspensionMaxDays caps the suspension quota; 0 disables the cap
	SuspensionMaxDays     int
	TotalSuspendedDays    int
	PendingSuspensionDays int

	CancelDate       valueobject.Date
	CancelReason     string
	RefundedOnCancel bool

	// SourceSaleID links back to the sale that generated this contract,
	// when there is one. Debt cleanup on cancellation follows this link.
	SourceSaleID *uuid.UUID
}

// NewContract creates a new active contract
func NewContract(
	scope shared.Scope,
	contractCode string,
	clientID uuid.UUID,
	planName string,
	startDate, endDate valueobject.Date,
	allowSuspension bool,
	suspensionMaxDays int,
) (*Contract, error) {
	if scope.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_SCOPE", "Tenant and branch are required")
	}
	if contractCode == "" {
		return nil, shared.NewInvalidArgument("INVALID_CONTRACT_CODE", "Contract code cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewInvalidArgument("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if planName == "" {
		return nil, shared.NewInvalidArgument("INVALID_PLAN", "Plan name cannot be empty")
	}
	if startDate.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_START_DATE", "Start date is required")
	}
	if !endDate.IsZero() && endDate.Before(startDate) {
		return nil, shared.NewInvalidArgument("INVALID_END_DATE", "End date cannot precede start date")
	}
	if suspensionMaxDays < 0 {
		return nil, shared.NewInvalidArgument("INVALID_SUSPENSION_QUOTA", "Suspension quota cannot be negative")
	}

	c := &Contract{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(scope.TenantID, scope.BranchID),
		ContractCode:        contractCode,
		ClientID:            clientID,
		PlanName:            planName,
		Status:              ContractStatusActive,
		StartDate:           startDate,
		EndDate:             endDate,
		AllowSuspension:     allowSuspension,
		SuspensionMaxDays:   suspensionMaxDays,
	}

	c.AddDomainEvent(NewContractCreatedEvent(c))

	return c, nil
}

// LinkSourceSale records the sale this contract was generated from
func (c *Contract) LinkSourceSale(saleID uuid.UUID) {
	c.SourceSaleID = &saleID
}

// remainingQuota returns how many suspension days are still grantable,
// or -1 when the quota is unlimited
func (c *Contract) remainingQuota() int {
	if c.SuspensionMaxDays <= 0 {
		return -1
	}
	return c.SuspensionMaxDays - c.TotalSuspendedDays - c.PendingSuspensionDays
}

// ScheduleSuspension requests a suspension for the closed interval
// [startDate, endDate]. When startDate is today or earlier the suspension
// activates immediately: the contract end date is pushed out by the full
// requested span and the contract enters SUSPENDED. Otherwise the days are
// held as pending and the daily sweep activates the suspension later.
func (c *Contract) ScheduleSuspension(startDate, endDate valueobject.Date, reason string, today valueobject.Date) (*Suspension, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewInvalidArgument("INVALID_SUSPENSION_DATES", "Start and end dates are required")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewInvalidArgument("INVALID_SUSPENSION_DATES", "End date cannot precede start date")
	}
	if c.Status.IsTerminal() {
		return nil, shared.NewFailedPrecondition("CONTRACT_CANCELLED", "Cannot suspend a cancelled contract")
	}
	if !c.AllowSuspension {
		return nil, shared.NewFailedPrecondition("SUSPENSION_NOT_ALLOWED", "This contract does not allow suspensions")
	}

	daysRequested := startDate.DaysInclusive(endDate)
	if quota := c.remainingQuota(); quota >= 0 && daysRequested > quota {
		return nil, shared.NewFailedPrecondition("SUSPENSION_QUOTA_EXCEEDED",
			fmt.Sprintf("Requested %d suspension days but only %d remain of the %d-day quota",
				daysRequested, quota, c.SuspensionMaxDays))
	}

	if !startDate.After(today) {
		// Immediate activation
		sus := newSuspension(c, startDate, endDate, daysRequested, reason, SuspensionStatusActive)
		if err := c.applySuspensionActivation(sus, false); err != nil {
			return nil, err
		}
		return sus, nil
	}

	sus := newSuspension(c, startDate, endDate, daysRequested, reason, SuspensionStatusScheduled)
	c.PendingSuspensionDays += daysRequested
	c.touch()
	c.AddDomainEvent(NewSuspensionScheduledEvent(c, sus))
	return sus, nil
}

// ActivateScheduledSuspension turns a scheduled suspension active once its
// start date has arrived. The daily sweep calls this; the transition is the
// same one an immediate schedule takes, plus the pending-days release.
func (c *Contract) ActivateScheduledSuspension(sus *Suspension, today valueobject.Date) error {
	if sus.ContractID != c.ID {
		return shared.NewInvalidArgument("SUSPENSION_MISMATCH", "Suspension does not belong to this contract")
	}
	if sus.Status != SuspensionStatusScheduled {
		return shared.NewFailedPrecondition("SUSPENSION_NOT_SCHEDULED",
			fmt.Sprintf("Cannot activate suspension in %s status", sus.Status))
	}
	if sus.StartDate.After(today) {
		return shared.NewFailedPrecondition("SUSPENSION_NOT_DUE", "Suspension start date has not arrived")
	}
	if c.Status.IsTerminal() {
		return shared.NewFailedPrecondition("CONTRACT_CANCELLED", "Cannot suspend a cancelled contract")
	}

	sus.Status = SuspensionStatusActive
	return c.applySuspensionActivation(sus, true)
}

// applySuspensionActivation performs the shared activation bookkeeping:
// extend the contract end date by the suspended span and move the days
// into TotalSuspendedDays.
func (c *Contract) applySuspensionActivation(sus *Suspension, releasePending bool) error {
	if c.EndDate.IsZero() {
		return shared.NewFailedPrecondition("CONTRACT_HAS_NO_END_DATE",
			"Cannot activate a suspension on a contract without an end date")
	}

	sus.PreviousEndDate = c.EndDate
	newEndDate := c.EndDate.AddDays(sus.DaysUsed)
	sus.NewEndDate = newEndDate
	sus.UpdatedAt = time.Now()

	previousStatus := c.Status
	c.EndDate = newEndDate
	c.Status = ContractStatusSuspended
	c.TotalSuspendedDays += sus.DaysUsed
	if releasePending {
		c.PendingSuspensionDays -= sus.DaysUsed
		if c.PendingSuspensionDays < 0 {
			c.PendingSuspensionDays = 0
		}
	}
	c.touch()

	c.AddDomainEvent(NewSuspensionActivatedEvent(c, sus))
	c.AddDomainEvent(NewContractStatusChangedEvent(c, previousStatus))
	return nil
}

// StopSuspensionResult describes the outcome of stopping a suspension
type StopSuspensionResult struct {
	// Type is "scheduled_cancelled" when a not-yet-started suspension was
	// revoked, "stopped" when an active suspension ended early
	Type               string
	UnusedDays         int
	NewContractEndDate valueobject.Date
}

// StopSuspension ends a suspension before it runs its course.
//
// A scheduled suspension is simply revoked and its pending days returned.
// An active suspension is charged only the days that have elapsed before
// today (stopping today does not charge today itself); the unused remainder
// shrinks the contract end date back and returns to the quota.
func (c *Contract) StopSuspension(sus *Suspension, today valueobject.Date) (*StopSuspensionResult, error) {
	if sus.ContractID != c.ID {
		return nil, shared.NewInvalidArgument("SUSPENSION_MISMATCH", "Suspension does not belong to this contract")
	}

	switch sus.Status {
	case SuspensionStatusScheduled:
		sus.Status = SuspensionStatusCancelled
		sus.UpdatedAt = time.Now()
		c.PendingSuspensionDays -= sus.DaysUsed
		if c.PendingSuspensionDays < 0 {
			c.PendingSuspensionDays = 0
		}
		c.touch()
		c.AddDomainEvent(NewSuspensionCancelledEvent(c, sus))
		return &StopSuspensionResult{
			Type:       "scheduled_cancelled",
			UnusedDays: sus.DaysUsed,
		}, nil

	case SuspensionStatusActive:
		actuallyUsed := sus.StartDate.DaysUntil(today)
		if actuallyUsed < 0 {
			actuallyUsed = 0
		}
		unused := sus.DaysUsed - actuallyUsed
		if unused <= 0 {
			return nil, shared.NewFailedPrecondition("SUSPENSION_FULLY_CONSUMED",
				"Suspension has already used all of its days")
		}

		sus.EndDate = today.AddDays(-1)
		sus.Status = SuspensionStatusStopped
		sus.DaysUsed = actuallyUsed
		sus.UpdatedAt = time.Now()

		previousStatus := c.Status
		c.EndDate = c.EndDate.AddDays(-unused)
		c.Status = ContractStatusActive
		c.TotalSuspendedDays -= unused
		if c.TotalSuspendedDays < 0 {
			c.TotalSuspendedDays = 0
		}
		c.touch()

		c.AddDomainEvent(NewSuspensionStoppedEvent(c, sus, unused))
		c.AddDomainEvent(NewContractStatusChangedEvent(c, previousStatus))
		return &StopSuspensionResult{
			Type:               "stopped",
			UnusedDays:         unused,
			NewContractEndDate: c.EndDate,
		}, nil

	default:
		return nil, shared.NewFailedPrecondition("SUSPENSION_NOT_STOPPABLE",
			fmt.Sprintf("Cannot stop suspension in %s status", sus.Status))
	}
}

// Cancel cancels the contract immediately. Cancelling an already cancelled
// contract is a no-op success so retried requests stay safe.
func (c *Contract) Cancel(reason string, refundRevenue bool) error {
	if c.Status == ContractStatusCancelled {
		return nil
	}

	previousStatus := c.Status
	c.Status = ContractStatusCancelled
	c.CancelReason = reason
	c.RefundedOnCancel = refundRevenue
	c.touch()

	c.AddDomainEvent(NewContractStatusChangedEvent(c, previousStatus))
	return nil
}

// ScheduleCancellation defers cancellation to cancelDate. The daily sweep
// executes it once the date arrives.
func (c *Contract) ScheduleCancellation(cancelDate valueobject.Date, reason string, today valueobject.Date) error {
	if c.Status == ContractStatusCancelled {
		return nil
	}
	if cancelDate.IsZero() {
		return shared.NewInvalidArgument("INVALID_CANCEL_DATE", "Cancel date is required")
	}
	if cancelDate.Before(today) {
		return shared.NewInvalidArgument("INVALID_CANCEL_DATE", "Cancel date cannot be in the past")
	}

	previousStatus := c.Status
	c.Status = ContractStatusScheduledCancellation
	c.CancelDate = cancelDate
	c.CancelReason = reason
	c.touch()

	c.AddDomainEvent(NewContractStatusChangedEvent(c, previousStatus))
	return nil
}

// ExecuteScheduledCancellation completes a scheduled cancellation whose
// date has arrived. The daily sweep calls this.
func (c *Contract) ExecuteScheduledCancellation(today valueobject.Date) error {
	if c.Status != ContractStatusScheduledCancellation {
		return shared.NewFailedPrecondition("CANCELLATION_NOT_SCHEDULED",
			fmt.Sprintf("Contract is %s, not scheduled for cancellation", c.Status))
	}
	if c.CancelDate.After(today) {
		return shared.NewFailedPrecondition("CANCELLATION_NOT_DUE", "Cancel date has not arrived")
	}
	return c.Cancel(c.CancelReason, false)
}

// IsActive returns true if the contract is active
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// IsSuspended returns true if the contract is suspended
func (c *Contract) IsSuspended() bool {
	return c.Status == ContractStatusSuspended
}

// IsCancelled returns true if the contract is cancelled
func (c *Contract) IsCancelled() bool {
	return c.Status == ContractStatusCancelled
}

// touch updates the modification timestamp after a transition. Version
// is bumped only by the repository when the save commits, so an aggregate
// loaded at version N carries N until SaveWithLock succeeds.
func (c *Contract) touch() {
	c.UpdatedAt = time.Now()
}
