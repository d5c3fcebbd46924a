package viewmodel

import (
	"math"
	"sort"
	"time"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
)

const (
	dayLayout       = "2006-01-02"
	unassignedLabel = "Unassigned"
	hoursPerDay     = 24
	maxSeriesDays   = 366
)

// Analytics aggregates the issues reported within a period.
type Analytics struct {
	From              time.Time
	To                time.Time
	Reported          int
	Resolved          int
	ResolutionRate    int
	AvgResolutionDays float64
	ByStatus          map[domain.IssueStatus]int
	ByCategory        map[domain.IssueCategory]int
	ByPriority        map[domain.IssuePriority]int
	Daily             []DailyPoint
	Staff             []StaffPerformance
}

// DailyPoint is one day of the reported/resolved series.
type DailyPoint struct {
	Date     string
	Reported int
	Resolved int
}

// StaffPerformance is the resolution tally for one assignee.
type StaffPerformance struct {
	StaffID  string
	Name     string
	Total    int
	Resolved int
	Rate     int
}

// ComputeAnalytics folds issues created in [from, to] into period metrics.
// Issues outside the window are ignored.
func ComputeAnalytics(issues []domain.Issue, from, to time.Time) Analytics {
	a := Analytics{
		From:       from,
		To:         to,
		ByStatus:   make(map[domain.IssueStatus]int),
		ByCategory: make(map[domain.IssueCategory]int),
		ByPriority: make(map[domain.IssuePriority]int),
	}

	days := dailyBuckets(from, to)
	index := make(map[string]int, len(days))
	for i, d := range days {
		index[d.Date] = i
	}

	staff := make(map[string]*StaffPerformance)
	var resolutionHours float64
	var timed int

	for _, issue := range issues {
		if issue.CreatedAt.Before(from) || issue.CreatedAt.After(to) {
			continue
		}
		a.Reported++
		a.ByStatus[issue.Status]++
		a.ByCategory[issue.Category]++
		a.ByPriority[issue.Priority]++

		if i, ok := index[issue.CreatedAt.UTC().Format(dayLayout)]; ok {
			days[i].Reported++
		}

		resolved := issue.Status == domain.IssueStatusResolved
		if resolved {
			a.Resolved++
			if issue.ResolvedAt != nil {
				resolutionHours += issue.ResolvedAt.Sub(issue.CreatedAt).Hours()
				timed++
			}
		}
		if issue.ResolvedAt != nil {
			if i, ok := index[issue.ResolvedAt.UTC().Format(dayLayout)]; ok {
				days[i].Resolved++
			}
		}

		if issue.AssignedTo != nil {
			id := *issue.AssignedTo
			perf, ok := staff[id]
			if !ok {
				name := issue.AssignedStaff.Name()
				if name == "" {
					name = unassignedLabel
				}
				perf = &StaffPerformance{StaffID: id, Name: name}
				staff[id] = perf
			}
			perf.Total++
			if resolved {
				perf.Resolved++
			}
		}
	}

	a.ResolutionRate = percent(a.Resolved, a.Reported)
	if timed > 0 {
		a.AvgResolutionDays = math.Round(resolutionHours/float64(timed)/hoursPerDay*10) / 10
	}
	a.Daily = days

	a.Staff = make([]StaffPerformance, 0, len(staff))
	for _, perf := range staff {
		perf.Rate = percent(perf.Resolved, perf.Total)
		a.Staff = append(a.Staff, *perf)
	}
	sort.Slice(a.Staff, func(i, j int) bool {
		if a.Staff[i].Rate != a.Staff[j].Rate {
			return a.Staff[i].Rate > a.Staff[j].Rate
		}
		if a.Staff[i].Total != a.Staff[j].Total {
			return a.Staff[i].Total > a.Staff[j].Total
		}
		if a.Staff[i].Name != a.Staff[j].Name {
			return a.Staff[i].Name < a.Staff[j].Name
		}
		return a.Staff[i].StaffID < a.Staff[j].StaffID
	})
	return a
}

func dailyBuckets(from, to time.Time) []DailyPoint {
	start := truncateDay(from)
	end := truncateDay(to)
	var days []DailyPoint
	for d := start; !d.After(end) && len(days) < maxSeriesDays; d = d.AddDate(0, 0, 1) {
		days = append(days, DailyPoint{Date: d.Format(dayLayout)})
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
