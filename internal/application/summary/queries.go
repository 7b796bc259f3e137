package summary

import (
	"context"
	"errors"
	"regexp"

	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/fitdesk/backend/internal/domain/shared/valueobject"
	"github.com/fitdesk/backend/internal/domain/summary"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// DailySummaryResponse represents a daily summary document in API responses
type DailySummaryResponse struct {
	Date string `json:"date"`
	summary.Counters
}

// MonthlySummaryResponse represents a monthly summary document in API responses
type MonthlySummaryResponse struct {
	Month string `json:"month"`
	summary.Counters
}

// QueryService reads summary documents. Days and months without recorded
// activity have no row; reads resolve them to zero counters rather than
// an error.
type QueryService struct {
	repo summary.Repository
}

// NewQueryService creates a summary query service
func NewQueryService(repo summary.Repository) *QueryService {
	return &QueryService{repo: repo}
}

// GetDaily returns the summary for a single day
func (s *QueryService) GetDaily(ctx context.Context, scope shared.Scope, date valueobject.Date) (*DailySummaryResponse, error) {
	doc, err := s.repo.GetDaily(ctx, scope, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &DailySummaryResponse{Date: date.String()}, nil
		}
		return nil, err
	}
	return &DailySummaryResponse{Date: doc.Date.String(), Counters: doc.Counters}, nil
}

// GetDailyRange returns the summaries of each day with activity inside a
// closed date interval, oldest first
func (s *QueryService) GetDailyRange(ctx context.Context, scope shared.Scope, from, to valueobject.Date) ([]DailySummaryResponse, error) {
	if to.Before(from) {
		return nil, shared.NewInvalidArgument("INVALID_DATE_RANGE", "End date must not precede start date")
	}
	docs, err := s.repo.GetDailyRange(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	responses := make([]DailySummaryResponse, len(docs))
	for i := range docs {
		responses[i] = DailySummaryResponse{Date: docs[i].Date.String(), Counters: docs[i].Counters}
	}
	return responses, nil
}

// GetMonthly returns the summary for one month keyed "YYYY-MM"
func (s *QueryService) GetMonthly(ctx context.Context, scope shared.Scope, month string) (*MonthlySummaryResponse, error) {
	if !monthPattern.MatchString(month) {
		return nil, shared.NewInvalidArgument("INVALID_MONTH", "Month must be in YYYY-MM format")
	}
	doc, err := s.repo.GetMonthly(ctx, scope, month)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &MonthlySummaryResponse{Month: month}, nil
		}
		return nil, err
	}
	return &MonthlySummaryResponse{Month: doc.Month, Counters: doc.Counters}, nil
}
