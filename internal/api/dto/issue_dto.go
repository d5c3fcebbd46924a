package dto

import (
	"time"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
)

// CreateIssueRequest is the citizen report form.
type CreateIssueRequest struct {
	Title       string               `json:"title" validate:"required,max=200,maxbytes=800"`
	Description string               `json:"description" validate:"required,max=5000,maxbytes=20000"`
	Category    domain.IssueCategory `json:"category" validate:"required,oneof=pothole streetlight traffic_signal sidewalk graffiti garbage water_leak other"`
	Priority    domain.IssuePriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Address     *string              `json:"address" validate:"omitempty,max=500,maxbytes=1000"`
	Latitude    *float64             `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64             `json:"longitude" validate:"omitempty,longitude"`
	ImageURL    *string              `json:"image_url" validate:"omitempty,url,maxbytes=2000"`
}

// UpdateIssueRequest is the staff issue management form. Omitted fields keep
// their current value.
type UpdateIssueRequest struct {
	Status     domain.IssueStatus `json:"status" validate:"omitempty,oneof=pending in_progress resolved closed"`
	AssignedTo *string            `json:"assigned_to" validate:"omitempty,uuid"`
	Unassign   bool               `json:"unassign"`
	Message    string             `json:"message" validate:"max=2000,maxbytes=4000"`
}

// ProfileRef is the joined reporter or assignee.
type ProfileRef struct {
	FullName *string `json:"full_name"`
	Email    string  `json:"email"`
}

// IssueResponse represents an issue with joined profiles.
type IssueResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Category      domain.IssueCategory `json:"category"`
	Priority      domain.IssuePriority `json:"priority"`
	Status        domain.IssueStatus   `json:"status"`
	Latitude      *float64             `json:"location_lat"`
	Longitude     *float64             `json:"location_lng"`
	Address       *string              `json:"address"`
	ImageURL      *string              `json:"image_url"`
	ReporterID    string               `json:"reporter_id"`
	AssignedTo    *string              `json:"assigned_to"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	ResolvedAt    *time.Time           `json:"resolved_at"`
	Reporter      *ProfileRef          `json:"reporter"`
	AssignedStaff *ProfileRef          `json:"assigned_staff"`
}

// IssueUpdateResponse is one thread entry.
type IssueUpdateResponse struct {
	ID        string              `json:"id"`
	IssueID   string              `json:"issue_id"`
	UserID    string              `json:"user_id"`
	Message   string              `json:"message"`
	Status    *domain.IssueStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	Author    *ProfileRef         `json:"profiles"`
}

// IssueDetailResponse is an issue plus its thread, newest first.
type IssueDetailResponse struct {
	IssueResponse
	Updates []IssueUpdateResponse `json:"updates"`
}

// IssueListResponse is one page of issues.
type IssueListResponse struct {
	Data     []IssueResponse `json:"data"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// StaffChangeResponse reports what a staff update did.
type StaffChangeResponse struct {
	Issue           IssueResponse        `json:"issue"`
	Update          *IssueUpdateResponse `json:"update"`
	StatusChanged   bool                 `json:"status_changed"`
	AssigneeChanged bool                 `json:"assignee_changed"`
}

// StaffMemberResponse is an assignable profile.
type StaffMemberResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	FullName   *string     `json:"full_name"`
	Role       domain.Role `json:"role"`
	Department *string     `json:"department"`
}
