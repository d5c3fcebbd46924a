package viewmodel

import (
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
)

// StatusCounts is the dashboard's live tally of issues per status. Total is
// always the sum of the buckets.
type StatusCounts struct {
	Pending    int
	InProgress int
	Resolved   int
	Closed     int
}

// NewStatusCounts builds counts from a snapshot. Issues not pending, in
// progress or resolved are counted as closed.
func NewStatusCounts(total, pending, inProgress, resolved int) StatusCounts {
	c := StatusCounts{
		Pending:    max(pending, 0),
		InProgress: max(inProgress, 0),
		Resolved:   max(resolved, 0),
	}
	c.Closed = max(total-c.Pending-c.InProgress-c.Resolved, 0)
	return c
}

// CountsFromMap builds counts from a status -> count query result.
func CountsFromMap(m map[domain.IssueStatus]int) StatusCounts {
	var c StatusCounts
	for status, n := range m {
		c = c.add(status, n)
	}
	return c
}

func (c StatusCounts) Total() int {
	return c.Pending + c.InProgress + c.Resolved + c.Closed
}

// Get returns the bucket for status.
func (c StatusCounts) Get(status domain.IssueStatus) int {
	switch status {
	case domain.IssueStatusPending:
		return c.Pending
	case domain.IssueStatusInProgress:
		return c.InProgress
	case domain.IssueStatusResolved:
		return c.Resolved
	case domain.IssueStatusClosed:
		return c.Closed
	}
	return 0
}

// ResolutionRate is resolved over total as a rounded percentage.
func (c StatusCounts) ResolutionRate() int {
	return percent(c.Resolved, c.Total())
}

// Apply folds one issues-table change event into the counts.
func (c StatusCounts) Apply(ev events.ChangeEvent) StatusCounts {
	switch ev.Type {
	case events.EventInsert:
		return c.add(rowStatus(ev.New), 1)
	case events.EventDelete:
		return c.add(rowStatus(ev.Old), -1)
	case events.EventUpdate:
		before, after := rowStatus(ev.Old), rowStatus(ev.New)
		if before == after || !before.Valid() || !after.Valid() {
			return c
		}
		return c.add(before, -1).add(after, 1)
	}
	return c
}

func (c StatusCounts) add(status domain.IssueStatus, delta int) StatusCounts {
	switch status {
	case domain.IssueStatusPending:
		c.Pending = max(c.Pending+delta, 0)
	case domain.IssueStatusInProgress:
		c.InProgress = max(c.InProgress+delta, 0)
	case domain.IssueStatusResolved:
		c.Resolved = max(c.Resolved+delta, 0)
	case domain.IssueStatusClosed:
		c.Closed = max(c.Closed+delta, 0)
	}
	return c
}

func rowStatus(row events.Row) domain.IssueStatus {
	return domain.IssueStatus(row.String("status"))
}
