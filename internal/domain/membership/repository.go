package membership

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ContractFilter holds query options for listing contracts
type ContractFilter struct {
	ClientID *uuid.UUID
	Status   *ContractStatus
	Page     int
	PageSize int
}

// ContractRepository defines persistence for Contract aggregates
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByIDForScope(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Contract, error)
	FindAllForScope(ctx context.Context, scope shared.Scope, filter ContractFilter) ([]Contract, int64, error)
	// FindDueScheduledCancellations returns contracts in
	// SCHEDULED_CANCELLATION whose cancel date is on or before the given day
	FindDueScheduledCancellations(ctx context.Context, onOrBefore valueobject.Date, limit int) ([]Contract, error)
	// Save persists the contract and its pending domain events via the
	// transactional outbox
	Save(ctx context.Context, contract *Contract) error
	// SaveWithLock persists with an optimistic version check and returns
	// shared.ErrConcurrencyConflict when the row moved underneath us
	SaveWithLock(ctx context.Context, contract *Contract) error
}

// SuspensionRepository defines persistence for Suspension child entities
type SuspensionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Suspension, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]Suspension, error)
	// FindDueScheduled returns scheduled suspensions whose start date is on
	// or before the given day
	FindDueScheduled(ctx context.Context, onOrBefore valueobject.Date, limit int) ([]Suspension, error)
	Save(ctx context.Context, suspension *Suspension) error
}
