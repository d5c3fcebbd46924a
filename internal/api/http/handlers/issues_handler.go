package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/dto"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
)

// IssuesHandler serves the citizen-facing issue endpoints.
type IssuesHandler struct {
	issues    *service.IssueService
	validator *RequestValidator
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService, validator *RequestValidator) *IssuesHandler {
	return &IssuesHandler{issues: issueService, validator: validator}
}

// CreateIssue POST /api/issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateIssueRequest
	if err := h.validator.bind(c, &req); err != nil {
		return err
	}
	issue, err := h.issues.CreateIssue(c.UserContext(), p.ID(), service.IssueCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueResponse(issue)})
}

// ListIssues GET /api/issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	page, err := h.issues.ListIssues(c.UserContext(), parseIssueListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(issueListResponse(page))
}

// ListMyIssues GET /api/me/issues.
func (h *IssuesHandler) ListMyIssues(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, err := h.issues.ListReporterIssues(c.UserContext(), p.ID(), parseIssueListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(issueListResponse(page))
}

// GetIssue GET /api/issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	issue, updates, err := h.issues.GetIssue(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.IssueDetailResponse{
		IssueResponse: issueResponse(issue),
		Updates:       issueUpdateResponses(updates),
	}})
}

func issueListResponse(page *service.IssuePage) dto.IssueListResponse {
	return dto.IssueListResponse{
		Data:     issueResponses(page.Items),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}
