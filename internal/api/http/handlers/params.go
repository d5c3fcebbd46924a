package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/auth"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}

// parseIssueListFilter reads the list filters shared by the public and staff
// issue lists. "all" or an empty value disables a filter.
func parseIssueListFilter(c *fiber.Ctx) service.IssueListFilter {
	filter := service.IssueListFilter{
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 20),
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}
	for _, part := range splitList(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.IssueStatus(part))
	}
	for _, part := range splitList(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.IssueCategory(part))
	}
	for _, part := range splitList(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.IssuePriority(part))
	}
	return filter
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "all" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
