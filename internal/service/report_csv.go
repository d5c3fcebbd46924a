package service

import (
	"strings"
	"time"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
)

// ReportCSVHeader is the fixed export header row.
var ReportCSVHeader = []string{
	"ID",
	"Title",
	"Description",
	"Category",
	"Priority",
	"Status",
	"Reporter",
	"Assigned Staff",
	"Address",
	"Created At",
	"Resolved At",
}

// EncodeReportCSV renders issues as CSV. Free-text columns are always quoted
// with embedded quotes doubled; rows are separated by "\n". The header row is
// present even when there are no issues.
func EncodeReportCSV(issues []domain.Issue) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(ReportCSVHeader, ","))
	for _, issue := range issues {
		reporter := issue.Reporter.Name()
		if reporter == "" {
			reporter = "Anonymous"
		}
		assignee := issue.AssignedStaff.Name()
		if assignee == "" {
			assignee = "Unassigned"
		}
		address := ""
		if issue.Address != nil {
			address = *issue.Address
		}
		resolvedAt := ""
		if issue.ResolvedAt != nil {
			resolvedAt = issue.ResolvedAt.UTC().Format(time.RFC3339)
		}

		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			issue.ID,
			quote(issue.Title),
			quote(issue.Description),
			string(issue.Category),
			string(issue.Priority),
			string(issue.Status),
			quote(reporter),
			quote(assignee),
			quote(address),
			issue.CreatedAt.UTC().Format(time.RFC3339),
			resolvedAt,
		}, ","))
	}
	return []byte(b.String())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
