package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("invalid issue status")
	ErrInvalidPriority = errors.New("invalid issue priority")
	ErrInvalidCategory = errors.New("invalid issue category")
)

// StaffChange is what staff submit from the issue management screen.
// Zero values keep the current state.
type StaffChange struct {
	Status     IssueStatus
	AssignedTo *string
	Unassign   bool
	Message    string
}

// IssuePatch is the single write applied to an issue row. Status and assignee
// always travel together.
type IssuePatch struct {
	IssueID    string
	Status     IssueStatus
	AssignedTo *string
	ResolvedAt *time.Time
	UpdatedAt  time.Time
}

// ChangePlan is the outcome of planning a staff change before anything is written.
type ChangePlan struct {
	Patch           IssuePatch
	Update          *IssueUpdate
	StatusChanged   bool
	AssigneeChanged bool
}

// PlanStaffChange computes the patch and the optional thread entry for a staff
// change. Any status may move to any other status. resolved_at is stamped on
// every entry into resolved and is never cleared.
func PlanStaffChange(current Issue, change StaffChange, actorID string, now time.Time) (ChangePlan, error) {
	next := current.Status
	if change.Status != "" {
		if !change.Status.Valid() {
			return ChangePlan{}, ErrInvalidStatus
		}
		next = change.Status
	}

	assignee := current.AssignedTo
	switch {
	case change.Unassign:
		assignee = nil
	case change.AssignedTo != nil:
		id := strings.TrimSpace(*change.AssignedTo)
		if id == "" {
			assignee = nil
		} else {
			assignee = &id
		}
	}

	plan := ChangePlan{
		Patch: IssuePatch{
			IssueID:    current.ID,
			Status:     next,
			AssignedTo: assignee,
			ResolvedAt: current.ResolvedAt,
			UpdatedAt:  now,
		},
		StatusChanged:   next != current.Status,
		AssigneeChanged: !sameRef(assignee, current.AssignedTo),
	}

	if next == IssueStatusResolved && current.Status != IssueStatusResolved {
		stamp := now
		plan.Patch.ResolvedAt = &stamp
	}

	if msg := strings.TrimSpace(change.Message); msg != "" {
		update := &IssueUpdate{
			IssueID: current.ID,
			UserID:  actorID,
			Message: msg,
		}
		if plan.StatusChanged {
			status := next
			update.Status = &status
		}
		plan.Update = update
	}
	return plan, nil
}

// Apply returns a copy of issue with the patch applied.
func (p IssuePatch) Apply(issue Issue) Issue {
	issue.Status = p.Status
	issue.AssignedTo = p.AssignedTo
	issue.ResolvedAt = p.ResolvedAt
	issue.UpdatedAt = p.UpdatedAt
	return issue
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
