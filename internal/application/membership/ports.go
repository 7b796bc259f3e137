package membership

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CleanupTask is a best-effort job executed after the primary commit.
// Failures are logged, never propagated back to the caller.
type CleanupTask struct {
	Name string
	Run  func(ctx context.Context) error
}

// CleanupQueue accepts post-commit cleanup work
type CleanupQueue interface {
	Enqueue(task CleanupTask)
}

// EnrollmentStore removes a cancelled client's class bookings. Only the
// deletions the ledger needs are exposed here; enrollment management
// itself lives outside this engine.
type EnrollmentStore interface {
	// DeleteRecurringForClient removes the client's recurring enrollments
	DeleteRecurringForClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID) error
	// DeleteFutureSessionsForClient removes single-session enrollments
	// dated in the future
	DeleteFutureSessionsForClient(ctx context.Context, scope shared.Scope, clientID uuid.UUID) error
}

// BranchPolicyStore looks up per-branch behavior flags
type BranchPolicyStore interface {
	// CancelDebtOnCancelledContracts reports whether cancelling a contract
	// should also cancel open receivables linked to its originating sale
	CancelDebtOnCancelledContracts(ctx context.Context, scope shared.Scope) (bool, error)
}
