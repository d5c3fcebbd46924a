package dto

// NotificationFeedFrame is the notification screen state.
type NotificationFeedFrame struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

// AlertFrame is the transient toast for a newly inserted notification.
type AlertFrame struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	UnreadCount int    `json:"unread_count"`
}

// IssueThreadFrame is the issue thread screen state.
type IssueThreadFrame struct {
	IssueID string                `json:"issue_id"`
	Updates []IssueUpdateResponse `json:"updates"`
}
