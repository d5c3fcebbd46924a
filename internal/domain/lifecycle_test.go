package domain_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestIssueStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status domain.IssueStatus
		want   bool
	}{
		{name: "pending", status: domain.IssueStatusPending, want: true},
		{name: "in progress", status: domain.IssueStatusInProgress, want: true},
		{name: "resolved", status: domain.IssueStatusResolved, want: true},
		{name: "closed", status: domain.IssueStatusClosed, want: true},
		{name: "unknown", status: domain.IssueStatus("reopened"), want: false},
		{name: "empty", status: domain.IssueStatus(""), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.status.Valid()).Equal(tt.want)
		})
	}
}

func TestPlanStaffChange_StampsResolvedAtOnEntry(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issue := domain.Issue{ID: "i1", Status: domain.IssueStatusInProgress}

	plan, err := domain.PlanStaffChange(issue, domain.StaffChange{Status: domain.IssueStatusResolved}, "staff-1", now)
	gt.NoError(t, err).Required()
	gt.Value(t, plan.StatusChanged).Equal(true)
	gt.Value(t, plan.Patch.ResolvedAt).NotNil()
	gt.Value(t, *plan.Patch.ResolvedAt).Equal(now)
	gt.Value(t, plan.Update).Nil()
}

func TestPlanStaffChange_KeepsResolvedAtWhenAlreadyResolved(t *testing.T) {
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issue := domain.Issue{ID: "i1", Status: domain.IssueStatusResolved, ResolvedAt: &first}

	plan, err := domain.PlanStaffChange(issue, domain.StaffChange{Status: domain.IssueStatusResolved}, "staff-1", first.Add(time.Hour))
	gt.NoError(t, err).Required()
	gt.Value(t, plan.StatusChanged).Equal(false)
	gt.Value(t, *plan.Patch.ResolvedAt).Equal(first)
}

func TestPlanStaffChange_LeavingResolvedKeepsTimestamp(t *testing.T) {
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issue := domain.Issue{ID: "i1", Status: domain.IssueStatusResolved, ResolvedAt: &first}

	plan, err := domain.PlanStaffChange(issue, domain.StaffChange{Status: domain.IssueStatusInProgress}, "staff-1", first.Add(time.Hour))
	gt.NoError(t, err).Required()
	gt.Value(t, plan.Patch.ResolvedAt).NotNil()
	gt.Value(t, *plan.Patch.ResolvedAt).Equal(first)

	reopened := plan.Patch.Apply(issue)
	again := first.Add(48 * time.Hour)
	plan, err = domain.PlanStaffChange(reopened, domain.StaffChange{Status: domain.IssueStatusResolved}, "staff-1", again)
	gt.NoError(t, err).Required()
	gt.Value(t, *plan.Patch.ResolvedAt).Equal(again)
}

func TestPlanStaffChange_AssigneeAndMessage(t *testing.T) {
	now := time.Now()
	issue := domain.Issue{ID: "i1", Status: domain.IssueStatusPending}

	plan, err := domain.PlanStaffChange(issue, domain.StaffChange{
		Status:     domain.IssueStatusInProgress,
		AssignedTo: strPtr("staff-2"),
		Message:    "  crew dispatched  ",
	}, "staff-1", now)
	gt.NoError(t, err).Required()
	gt.Value(t, plan.AssigneeChanged).Equal(true)
	gt.Value(t, *plan.Patch.AssignedTo).Equal("staff-2")
	gt.Value(t, plan.Update).NotNil()
	gt.Value(t, plan.Update.Message).Equal("crew dispatched")
	gt.Value(t, plan.Update.UserID).Equal("staff-1")
	gt.Value(t, *plan.Update.Status).Equal(domain.IssueStatusInProgress)
}

func TestPlanStaffChange_CommentWithoutStatusChange(t *testing.T) {
	issue := domain.Issue{ID: "i1", Status: domain.IssueStatusPending, AssignedTo: strPtr("staff-2")}

	plan, err := domain.PlanStaffChange(issue, domain.StaffChange{Message: "looking into it"}, "staff-1", time.Now())
	gt.NoError(t, err).Required()
	gt.Value(t, plan.StatusChanged).Equal(false)
	gt.Value(t, plan.AssigneeChanged).Equal(false)
	gt.Value(t, plan.Update.Status).Nil()
	gt.Value(t, *plan.Patch.AssignedTo).Equal("staff-2")
}

func TestPlanStaffChange_Unassign(t *testing.T) {
	issue := domain.Issue{ID: "i1", Status: domain.IssueStatusPending, AssignedTo: strPtr("staff-2")}

	plan, err := domain.PlanStaffChange(issue, domain.StaffChange{Unassign: true}, "staff-1", time.Now())
	gt.NoError(t, err).Required()
	gt.Value(t, plan.Patch.AssignedTo).Nil()
	gt.Value(t, plan.AssigneeChanged).Equal(true)
}

func TestPlanStaffChange_RejectsUnknownStatus(t *testing.T) {
	issue := domain.Issue{ID: "i1", Status: domain.IssueStatusPending}

	_, err := domain.PlanStaffChange(issue, domain.StaffChange{Status: "archived"}, "staff-1", time.Now())
	gt.Error(t, err).Is(domain.ErrInvalidStatus)
}
