package domain

import "time"

// IssueUpdate is an append-only entry in an issue's thread. Status is set only
// when the update accompanied a status change.
type IssueUpdate struct {
	ID        string
	IssueID   string
	UserID    string
	Message   string
	Status    *IssueStatus
	CreatedAt time.Time

	Author *ProfileRef
}
