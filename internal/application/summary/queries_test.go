package summary

import (
	"context"
	"testing"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/domain/summary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notFoundSummaryRepo reports every document as absent
type notFoundSummaryRepo struct{}

func (notFoundSummaryRepo) ApplyDelta(context.Context, summary.Delta) error { return nil }

func (notFoundSummaryRepo) GetDaily(context.Context, shared.Scope, valueobject.Date) (*summary.DailySummary, error) {
	return nil, shared.ErrNotFound
}

func (notFoundSummaryRepo) GetDailyRange(context.Context, shared.Scope, valueobject.Date, valueobject.Date) ([]summary.DailySummary, error) {
	return nil, nil
}

func (notFoundSummaryRepo) GetMonthly(context.Context, shared.Scope, string) (*summary.MonthlySummary, error) {
	return nil, shared.ErrNotFound
}

func TestQueryService_GetDaily(t *testing.T) {
	repo := newRecordingSummaryRepo()
	scope := testScope()
	date := mustDate(t, "2026-02-14")
	require.NoError(t, repo.ApplyDelta(context.Background(), summary.Delta{
		Scope:    scope,
		Date:     date,
		Counters: summary.Counters{SalesCount: 2, RevenueTotal: decimal.NewFromInt(90)},
	}))

	svc := NewQueryService(repo)
	resp, err := svc.GetDaily(context.Background(), scope, date)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", resp.Date)
	assert.Equal(t, 2, resp.SalesCount)
	assert.True(t, resp.RevenueTotal.Equal(decimal.NewFromInt(90)))
}

func TestQueryService_GetDaily_MissingDayIsZero(t *testing.T) {
	svc := NewQueryService(notFoundSummaryRepo{})

	resp, err := svc.GetDaily(context.Background(), testScope(), mustDate(t, "2026-02-15"))
	require.NoError(t, err)
	assert.Equal(t, "2026-02-15", resp.Date)
	assert.True(t, resp.Counters.IsZero())
}

func TestQueryService_GetDailyRange_RejectsInvertedInterval(t *testing.T) {
	svc := NewQueryService(newRecordingSummaryRepo())

	_, err := svc.GetDailyRange(context.Background(), testScope(),
		mustDate(t, "2026-02-20"), mustDate(t, "2026-02-10"))
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE_RANGE", domainErr.Code)
}

func TestQueryService_GetMonthly_ValidatesFormat(t *testing.T) {
	svc := NewQueryService(newRecordingSummaryRepo())

	for _, month := range []string{"2026", "2026-00", "2026-13", "03-2026", "2026-3"} {
		_, err := svc.GetMonthly(context.Background(), testScope(), month)
		require.Error(t, err, month)
	}
}

func TestQueryService_GetMonthly_MissingMonthIsZero(t *testing.T) {
	svc := NewQueryService(notFoundSummaryRepo{})

	resp, err := svc.GetMonthly(context.Background(), testScope(), "2026-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-02", resp.Month)
	assert.True(t, resp.Counters.IsZero())
}
