package viewmodel

import (
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
)

// PlaceholderAuthor labels feed-delivered updates until the thread is
// reloaded with joined author profiles.
const PlaceholderAuthor = "System"

// IssueThread is an issue's update list, newest first.
type IssueThread struct {
	IssueID string
	Updates []domain.IssueUpdate
}

func NewIssueThread(issueID string, updates []domain.IssueUpdate) IssueThread {
	return IssueThread{IssueID: issueID, Updates: append([]domain.IssueUpdate(nil), updates...)}
}

// Apply folds one issue_updates change event. Only inserts change the thread;
// updates are append-only.
func (t IssueThread) Apply(ev events.ChangeEvent) IssueThread {
	if ev.Type != events.EventInsert {
		return t
	}
	u := IssueUpdateFromRow(ev.New)
	if u.ID == "" || (t.IssueID != "" && u.IssueID != t.IssueID) {
		return t
	}
	for _, existing := range t.Updates {
		if existing.ID == u.ID {
			return t
		}
	}
	updates := make([]domain.IssueUpdate, 0, len(t.Updates)+1)
	updates = append(updates, u)
	t.Updates = append(updates, t.Updates...)
	return t
}

// IssueUpdateFromRow converts a raw issue_updates row image. The author is the
// placeholder since the row carries no joined profile.
func IssueUpdateFromRow(row events.Row) domain.IssueUpdate {
	name := PlaceholderAuthor
	u := domain.IssueUpdate{
		ID:        row.String("id"),
		IssueID:   row.String("issue_id"),
		UserID:    row.String("user_id"),
		Message:   row.String("message"),
		CreatedAt: row.Time("created_at"),
		Author:    &domain.ProfileRef{FullName: &name},
	}
	if s := domain.IssueStatus(row.String("status")); s.Valid() {
		u.Status = &s
	}
	return u
}
