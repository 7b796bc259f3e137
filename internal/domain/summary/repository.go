package summary

import (
	"context"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
)

// Repository defines persistence for summary documents. ApplyDelta must
// land as a single atomic upsert-increment on both the daily row and the
// corresponding monthly row; the domain never reads, modifies and writes
// back counter values.
type Repository interface {
	ApplyDelta(ctx context.Context, delta Delta) error
	GetDaily(ctx context.Context, scope shared.Scope, date valueobject.Date) (*DailySummary, error)
	GetDailyRange(ctx context.Context, scope shared.Scope, from, to valueobject.Date) ([]DailySummary, error)
	GetMonthly(ctx context.Context, scope shared.Scope, month string) (*MonthlySummary, error)
}
