package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/dto"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
)

// AdminHandler serves the staff issue management and analytics endpoints.
type AdminHandler struct {
	issues    *service.IssueService
	analytics *service.AnalyticsService
	validator *RequestValidator
}

// NewAdminHandler constructs handler.
func NewAdminHandler(issueService *service.IssueService, analyticsService *service.AnalyticsService, validator *RequestValidator) *AdminHandler {
	return &AdminHandler{issues: issueService, analytics: analyticsService, validator: validator}
}

// ListIssues GET /api/admin/issues.
func (h *AdminHandler) ListIssues(c *fiber.Ctx) error {
	filter := parseIssueListFilter(c)
	switch assignee := c.Query("assigned_to"); assignee {
	case "", "all":
	case "unassigned":
		filter.Unassigned = true
	default:
		filter.AssigneeID = &assignee
	}
	page, err := h.issues.ListIssues(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(issueListResponse(page))
}

// UpdateIssue PATCH /api/admin/issues/:id.
func (h *AdminHandler) UpdateIssue(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateIssueRequest
	if err := h.validator.bind(c, &req); err != nil {
		return err
	}
	issue, plan, err := h.issues.UpdateIssueAsStaff(c.UserContext(), p.Profile, c.Params("id"), domain.StaffChange{
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
		Unassign:   req.Unassign,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}
	resp := dto.StaffChangeResponse{
		Issue:           issueResponse(issue),
		StatusChanged:   plan.StatusChanged,
		AssigneeChanged: plan.AssigneeChanged,
	}
	if plan.Update != nil {
		update := issueUpdateResponse(plan.Update)
		resp.Update = &update
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListStaff GET /api/admin/staff.
func (h *AdminHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.issues.ListStaff(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.StaffMemberResponse, 0, len(staff))
	for i := range staff {
		items = append(items, staffMemberResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Analytics GET /api/admin/analytics.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	period, err := service.ParseAnalyticsPeriod(c.Query("period"))
	if err != nil {
		return err
	}
	a, err := h.analytics.Analytics(c.UserContext(), period)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": analyticsResponse(string(period), a)})
}

// Stats GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.analytics.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardStatsResponse{
		StatusCounts: statusCountsResponse(stats.Counts),
		StaffCount:   stats.StaffCount,
	}})
}
