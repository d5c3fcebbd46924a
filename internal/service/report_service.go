package service

import (
	"context"
	"strings"
	"time"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/observability"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/repository"
	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

// ReportType selects the export window.
type ReportType string

const (
	ReportWeekly        ReportType = "weekly"
	ReportMonthly       ReportType = "monthly"
	ReportComprehensive ReportType = "comprehensive"
)

// ReportFormat selects the export encoding.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
)

const periodDateLayout = "1/2/2006"

// ParseReportType validates the type query value.
func ParseReportType(raw string) (ReportType, error) {
	switch t := ReportType(raw); t {
	case ReportWeekly, ReportMonthly, ReportComprehensive:
		return t, nil
	}
	return "", apperrors.NewValidationError("Invalid report type", map[string]any{"type": raw})
}

// ParseReportFormat validates the format query value; empty means JSON.
func ParseReportFormat(raw string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(raw)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", apperrors.NewValidationError("Invalid report format", map[string]any{"format": raw})
}

// Report is a generated export.
type Report struct {
	Type    ReportType
	Title   string
	Period  string
	Issues  []domain.Issue
	Summary ReportSummary
}

// ReportSummary counts the exported issues by status.
type ReportSummary struct {
	Total      int
	Resolved   int
	Pending    int
	InProgress int
}

// ReportService builds report exports.
type ReportService struct {
	issues  repository.IssueRepository
	metrics *observability.Metrics
	now     func() time.Time
}

// NewReportService constructs the service. A nil clock uses time.Now.
func NewReportService(issues repository.IssueRepository, metrics *observability.Metrics, clock func() time.Time) *ReportService {
	if clock == nil {
		clock = time.Now
	}
	return &ReportService{issues: issues, metrics: metrics, now: clock}
}

// Generate loads the issues for reportType with reporter and assignee joined.
func (s *ReportService) Generate(ctx context.Context, reportType ReportType) (*Report, error) {
	now := s.now()
	report := &Report{Type: reportType}

	var since *time.Time
	switch reportType {
	case ReportWeekly:
		start := now.Add(-7 * 24 * time.Hour)
		since = &start
		report.Title = "Weekly Summary Report"
	case ReportMonthly:
		start := now.Add(-30 * 24 * time.Hour)
		since = &start
		report.Title = "Monthly Performance Report"
	case ReportComprehensive:
		report.Title = "Comprehensive Audit Report"
		report.Period = "All Time"
	default:
		return nil, apperrors.NewValidationError("Invalid report type", map[string]any{"type": reportType})
	}
	if since != nil {
		report.Period = since.Format(periodDateLayout) + " - " + now.Format(periodDateLayout)
	}

	issues, err := s.issues.ListCreatedBetween(ctx, since, nil)
	if err != nil {
		return nil, err
	}
	report.Issues = issues
	report.Summary = summarize(issues)
	return report, nil
}

// Exported records a delivered export.
func (s *ReportService) Exported(reportType ReportType, format ReportFormat) {
	s.metrics.ReportExported(string(reportType), string(format))
}

func summarize(issues []domain.Issue) ReportSummary {
	summary := ReportSummary{Total: len(issues)}
	for _, issue := range issues {
		switch issue.Status {
		case domain.IssueStatusResolved:
			summary.Resolved++
		case domain.IssueStatusPending:
			summary.Pending++
		case domain.IssueStatusInProgress:
			summary.InProgress++
		}
	}
	return summary
}
