package viewmodel_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
)

func TestComputeAnalytics(t *testing.T) {
	to := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -6)
	day := func(d int) time.Time { return time.Date(2024, 5, d, 9, 0, 0, 0, time.UTC) }
	resolvedOn := func(d int) *time.Time { v := day(d); return &v }
	alice, bob := "Alice", "Bob"
	staffA, staffB, ghost := "a", "b", "g"

	issues := []domain.Issue{
		{ID: "1", Status: domain.IssueStatusResolved, Category: domain.CategoryPothole, Priority: domain.IssuePriorityHigh,
			CreatedAt: day(2), ResolvedAt: resolvedOn(4), AssignedTo: &staffA, AssignedStaff: &domain.ProfileRef{FullName: &alice}},
		{ID: "2", Status: domain.IssueStatusResolved, Category: domain.CategoryPothole, Priority: domain.IssuePriorityLow,
			CreatedAt: day(3), ResolvedAt: resolvedOn(4), AssignedTo: &staffA, AssignedStaff: &domain.ProfileRef{FullName: &alice}},
		{ID: "3", Status: domain.IssueStatusInProgress, Category: domain.CategoryGraffiti, Priority: domain.IssuePriorityHigh,
			CreatedAt: day(5), AssignedTo: &staffB, AssignedStaff: &domain.ProfileRef{FullName: &bob}},
		{ID: "4", Status: domain.IssueStatusPending, Category: domain.CategoryOther, Priority: domain.IssuePriorityMedium,
			CreatedAt: day(6), AssignedTo: &ghost},
		// outside the window
		{ID: "5", Status: domain.IssueStatusResolved, Category: domain.CategoryOther, CreatedAt: day(1).AddDate(0, -1, 0)},
	}

	a := viewmodel.ComputeAnalytics(issues, from, to)

	gt.Value(t, a.Reported).Equal(4)
	gt.Value(t, a.Resolved).Equal(2)
	gt.Value(t, a.ResolutionRate).Equal(50)
	gt.Value(t, a.AvgResolutionDays).Equal(1.5)
	gt.Value(t, a.ByCategory[domain.CategoryPothole]).Equal(2)
	gt.Value(t, a.ByPriority[domain.IssuePriorityHigh]).Equal(2)
	gt.Value(t, a.ByStatus[domain.IssueStatusPending]).Equal(1)

	gt.Array(t, a.Daily).Length(7)
	gt.Value(t, a.Daily[0].Date).Equal("2024-05-01")
	gt.Value(t, a.Daily[3]).Equal(viewmodel.DailyPoint{Date: "2024-05-04", Reported: 0, Resolved: 2})

	gt.Array(t, a.Staff).Length(3)
	gt.Value(t, a.Staff[0]).Equal(viewmodel.StaffPerformance{StaffID: "a", Name: "Alice", Total: 2, Resolved: 2, Rate: 100})
	gt.Value(t, a.Staff[1].Name).Equal("Bob")
	gt.Value(t, a.Staff[2].Name).Equal("Unassigned")
}

func TestComputeAnalytics_StaffSharingANameStaySeparate(t *testing.T) {
	to := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	sam := "Sam Lee"
	first, second := "s1", "s2"
	created := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	issues := []domain.Issue{
		{ID: "1", Status: domain.IssueStatusResolved, CreatedAt: created, AssignedTo: &first, AssignedStaff: &domain.ProfileRef{FullName: &sam}},
		{ID: "2", Status: domain.IssueStatusPending, CreatedAt: created, AssignedTo: &second, AssignedStaff: &domain.ProfileRef{FullName: &sam}},
		{ID: "3", Status: domain.IssueStatusPending, CreatedAt: created, AssignedTo: &second, AssignedStaff: &domain.ProfileRef{FullName: &sam}},
	}

	a := viewmodel.ComputeAnalytics(issues, to.AddDate(0, 0, -6), to)

	gt.Array(t, a.Staff).Length(2)
	gt.Value(t, a.Staff[0]).Equal(viewmodel.StaffPerformance{StaffID: "s1", Name: "Sam Lee", Total: 1, Resolved: 1, Rate: 100})
	gt.Value(t, a.Staff[1]).Equal(viewmodel.StaffPerformance{StaffID: "s2", Name: "Sam Lee", Total: 2, Resolved: 0, Rate: 0})
}

func TestComputeAnalytics_Empty(t *testing.T) {
	to := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	a := viewmodel.ComputeAnalytics(nil, to.AddDate(0, 0, -1), to)
	gt.Value(t, a.Reported).Equal(0)
	gt.Value(t, a.ResolutionRate).Equal(0)
	gt.Value(t, a.AvgResolutionDays).Equal(0.0)
	gt.Array(t, a.Staff).Length(0)
}
