package domain

import "time"

// Notification is an in-app message for one recipient. Rows are created by
// database triggers when issues change.
type Notification struct {
	ID        string
	UserID    string
	IssueID   *string
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
