package handlers

import (
	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/dto"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
)

func profileRef(ref *domain.ProfileRef) *dto.ProfileRef {
	if ref == nil {
		return nil
	}
	return &dto.ProfileRef{FullName: ref.FullName, Email: ref.Email}
}

func issueResponse(issue *domain.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		ID:            issue.ID,
		Title:         issue.Title,
		Description:   issue.Description,
		Category:      issue.Category,
		Priority:      issue.Priority,
		Status:        issue.Status,
		Latitude:      issue.Latitude,
		Longitude:     issue.Longitude,
		Address:       issue.Address,
		ImageURL:      issue.ImageURL,
		ReporterID:    issue.ReporterID,
		AssignedTo:    issue.AssignedTo,
		CreatedAt:     issue.CreatedAt,
		UpdatedAt:     issue.UpdatedAt,
		ResolvedAt:    issue.ResolvedAt,
		Reporter:      profileRef(issue.Reporter),
		AssignedStaff: profileRef(issue.AssignedStaff),
	}
}

func issueResponses(issues []domain.Issue) []dto.IssueResponse {
	items := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, issueResponse(&issues[i]))
	}
	return items
}

func issueUpdateResponse(u *domain.IssueUpdate) dto.IssueUpdateResponse {
	return dto.IssueUpdateResponse{
		ID:        u.ID,
		IssueID:   u.IssueID,
		UserID:    u.UserID,
		Message:   u.Message,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		Author:    profileRef(u.Author),
	}
}

func issueUpdateResponses(updates []domain.IssueUpdate) []dto.IssueUpdateResponse {
	items := make([]dto.IssueUpdateResponse, 0, len(updates))
	for i := range updates {
		items = append(items, issueUpdateResponse(&updates[i]))
	}
	return items
}

func notificationResponses(items []domain.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NotificationResponse{
			ID:        n.ID,
			UserID:    n.UserID,
			IssueID:   n.IssueID,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

func statusCountsResponse(c viewmodel.StatusCounts) dto.StatusCounts {
	return dto.StatusCounts{
		Total:          c.Total(),
		Pending:        c.Pending,
		InProgress:     c.InProgress,
		Resolved:       c.Resolved,
		Closed:         c.Closed,
		ResolutionRate: c.ResolutionRate(),
	}
}

func staffMemberResponse(p *domain.Profile) dto.StaffMemberResponse {
	return dto.StaffMemberResponse{
		ID:         p.ID,
		Email:      p.Email,
		FullName:   p.FullName,
		Role:       p.Role,
		Department: p.Department,
	}
}

func analyticsResponse(period string, a viewmodel.Analytics) dto.AnalyticsResponse {
	resp := dto.AnalyticsResponse{
		Period:            period,
		From:              a.From,
		To:                a.To,
		Reported:          a.Reported,
		Resolved:          a.Resolved,
		ResolutionRate:    a.ResolutionRate,
		AvgResolutionDays: a.AvgResolutionDays,
		ByStatus:          make(map[string]int, len(a.ByStatus)),
		ByCategory:        make(map[string]int, len(a.ByCategory)),
		ByPriority:        make(map[string]int, len(a.ByPriority)),
		Daily:             make([]dto.DailyPoint, 0, len(a.Daily)),
		Staff:             make([]dto.StaffPerformance, 0, len(a.Staff)),
	}
	for k, v := range a.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range a.ByCategory {
		resp.ByCategory[string(k)] = v
	}
	for k, v := range a.ByPriority {
		resp.ByPriority[string(k)] = v
	}
	for _, d := range a.Daily {
		resp.Daily = append(resp.Daily, dto.DailyPoint{Date: d.Date, Reported: d.Reported, Resolved: d.Resolved})
	}
	for _, s := range a.Staff {
		resp.Staff = append(resp.Staff, dto.StaffPerformance{StaffID: s.StaffID, Name: s.Name, Total: s.Total, Resolved: s.Resolved, Rate: s.Rate})
	}
	return resp
}
