package domain

import "time"

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// IssueStatuses lists every status in lifecycle order.
var IssueStatuses = []IssueStatus{
	IssueStatusPending,
	IssueStatusInProgress,
	IssueStatusResolved,
	IssueStatusClosed,
}

// Valid reports whether s is one of the known statuses.
func (s IssueStatus) Valid() bool {
	for _, candidate := range IssueStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IssuePriority enumerates how urgently an issue should be handled.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
	IssuePriorityUrgent IssuePriority = "urgent"
)

var IssuePriorities = []IssuePriority{
	IssuePriorityLow,
	IssuePriorityMedium,
	IssuePriorityHigh,
	IssuePriorityUrgent,
}

func (p IssuePriority) Valid() bool {
	for _, candidate := range IssuePriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// IssueCategory classifies the reported civic problem.
type IssueCategory string

const (
	CategoryPothole       IssueCategory = "pothole"
	CategoryStreetlight   IssueCategory = "streetlight"
	CategoryTrafficSignal IssueCategory = "traffic_signal"
	CategorySidewalk      IssueCategory = "sidewalk"
	CategoryGraffiti      IssueCategory = "graffiti"
	CategoryGarbage       IssueCategory = "garbage"
	CategoryWaterLeak     IssueCategory = "water_leak"
	CategoryOther         IssueCategory = "other"
)

var IssueCategories = []IssueCategory{
	CategoryPothole,
	CategoryStreetlight,
	CategoryTrafficSignal,
	CategorySidewalk,
	CategoryGraffiti,
	CategoryGarbage,
	CategoryWaterLeak,
	CategoryOther,
}

func (c IssueCategory) Valid() bool {
	for _, candidate := range IssueCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Issue is a citizen-submitted civic problem report.
type Issue struct {
	ID          string
	Title       string
	Description string
	Category    IssueCategory
	Priority    IssuePriority
	Status      IssueStatus
	Latitude    *float64
	Longitude   *float64
	Address     *string
	ImageURL    *string
	ReporterID  string
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time

	// Joined profile summaries; nil when the join found nothing.
	Reporter      *ProfileRef
	AssignedStaff *ProfileRef
}
