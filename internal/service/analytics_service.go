package service

import (
	"context"
	"time"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/repository"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

// AnalyticsPeriod is a lookback window for analytics.
type AnalyticsPeriod string

const (
	Period7Days  AnalyticsPeriod = "7d"
	Period30Days AnalyticsPeriod = "30d"
	Period90Days AnalyticsPeriod = "90d"
	PeriodYear   AnalyticsPeriod = "1y"
)

// ParseAnalyticsPeriod validates the period; empty means 30 days.
func ParseAnalyticsPeriod(raw string) (AnalyticsPeriod, error) {
	switch p := AnalyticsPeriod(raw); p {
	case "":
		return Period30Days, nil
	case Period7Days, Period30Days, Period90Days, PeriodYear:
		return p, nil
	}
	return "", apperrors.NewValidationError("invalid period", map[string]any{"period": raw})
}

// Start returns the beginning of the window ending at now.
func (p AnalyticsPeriod) Start(now time.Time) time.Time {
	switch p {
	case Period7Days:
		return now.AddDate(0, 0, -7)
	case Period90Days:
		return now.AddDate(0, 0, -90)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// DashboardStats is the staff dashboard snapshot.
type DashboardStats struct {
	Counts     viewmodel.StatusCounts
	StaffCount int
}

// AnalyticsService aggregates issues for the staff dashboard and analytics pages.
type AnalyticsService struct {
	issues   repository.IssueRepository
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewAnalyticsService constructs the service. A nil clock uses time.Now.
func NewAnalyticsService(issues repository.IssueRepository, profiles repository.ProfileRepository, clock func() time.Time) *AnalyticsService {
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{issues: issues, profiles: profiles, now: clock}
}

// Analytics computes period metrics.
func (s *AnalyticsService) Analytics(ctx context.Context, period AnalyticsPeriod) (viewmodel.Analytics, error) {
	now := s.now()
	from := period.Start(now)
	issues, err := s.issues.ListCreatedBetween(ctx, &from, &now)
	if err != nil {
		return viewmodel.Analytics{}, err
	}
	return viewmodel.ComputeAnalytics(issues, from, now), nil
}

// StatusCounts is the snapshot the live dashboard folds events into.
func (s *AnalyticsService) StatusCounts(ctx context.Context) (viewmodel.StatusCounts, error) {
	counts, err := s.issues.CountByStatus(ctx)
	if err != nil {
		return viewmodel.StatusCounts{}, err
	}
	return viewmodel.CountsFromMap(counts), nil
}

// Dashboard returns status counts plus the number of staff profiles.
func (s *AnalyticsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	counts, err := s.StatusCounts(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	staff, err := s.profiles.ListByRoles(ctx, domain.RoleStaff, domain.RoleAdmin)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{Counts: counts, StaffCount: len(staff)}, nil
}
