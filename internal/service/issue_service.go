package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/repository"
	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// IssueService coordinates issue reporting and staff management workflows.
type IssueService struct {
	issues   repository.IssueRepository
	updates  repository.IssueUpdateRepository
	profiles repository.ProfileRepository
	logger   *zap.Logger
	now      func() time.Time
}

// IssueDependencies bundles repositories for the issue service.
type IssueDependencies struct {
	IssueRepo   repository.IssueRepository
	UpdateRepo  repository.IssueUpdateRepository
	ProfileRepo repository.ProfileRepository
	Logger      *zap.Logger
	Clock       func() time.Time
}

// IssueCreateInput describes the citizen report form.
type IssueCreateInput struct {
	Title       string
	Description string
	Category    domain.IssueCategory
	Priority    domain.IssuePriority
	Address     *string
	Latitude    *float64
	Longitude   *float64
	ImageURL    *string
}

// IssueListFilter describes list and search parameters.
type IssueListFilter struct {
	Search     *string
	Statuses   []domain.IssueStatus
	Categories []domain.IssueCategory
	Priorities []domain.IssuePriority
	AssigneeID *string
	Unassigned bool
	Page       int
	PageSize   int
}

// IssuePage is one page of issues.
type IssuePage struct {
	Items    []domain.Issue
	Total    int
	Page     int
	PageSize int
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &IssueService{
		issues:   deps.IssueRepo,
		updates:  deps.UpdateRepo,
		profiles: deps.ProfileRepo,
		logger:   logger,
		now:      clock,
	}
}

// CreateIssue files a new report for reporterID. New issues start pending.
func (s *IssueService) CreateIssue(ctx context.Context, reporterID string, input IssueCreateInput) (*domain.Issue, error) {
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}
	if input.Priority == "" {
		input.Priority = domain.IssuePriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, apperrors.NewValidationError("latitude and longitude must be given together", nil)
	}

	issue := &domain.Issue{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.IssueStatusPending,
		Address:     trimmedOrNil(input.Address),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		ImageURL:    trimmedOrNil(input.ImageURL),
		ReporterID:  reporterID,
	}
	if issue.Title == "" || issue.Description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}
	s.logger.Info("issue reported",
		zap.String("issue_id", issue.ID),
		zap.String("reporter_id", reporterID),
		zap.String("category", string(issue.Category)))
	return issue, nil
}

// ListIssues returns a page of issues, newest first.
func (s *IssueService) ListIssues(ctx context.Context, filter IssueListFilter) (*IssuePage, error) {
	return s.list(ctx, nil, filter)
}

// ListReporterIssues returns the caller's own reports.
func (s *IssueService) ListReporterIssues(ctx context.Context, reporterID string, filter IssueListFilter) (*IssuePage, error) {
	return s.list(ctx, &reporterID, filter)
}

func (s *IssueService) list(ctx context.Context, reporterID *string, filter IssueListFilter) (*IssuePage, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	page, size := normalizePage(filter.Page, filter.PageSize)
	repoFilter := repository.IssueFilter{
		ReporterID: reporterID,
		AssigneeID: filter.AssigneeID,
		Unassigned: filter.Unassigned,
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Priorities: filter.Priorities,
		SearchTerm: filter.Search,
		Limit:      size,
		Offset:     (page - 1) * size,
	}
	items, err := s.issues.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.issues.CountWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	return &IssuePage{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// GetIssue returns an issue with its thread, newest first.
func (s *IssueService) GetIssue(ctx context.Context, id string) (*domain.Issue, []domain.IssueUpdate, error) {
	issue, err := s.loadIssue(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	updates, err := s.updates.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, nil, err
	}
	return issue, updates, nil
}

// Exists reports whether id names an issue; unknown ids yield a not-found error.
func (s *IssueService) Exists(ctx context.Context, id string) error {
	_, err := s.loadIssue(ctx, id)
	return err
}

// ListStaff returns profiles that issues may be assigned to.
func (s *IssueService) ListStaff(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.ListByRoles(ctx, domain.RoleStaff, domain.RoleAdmin)
}

// UpdateIssueAsStaff applies status/assignee changes and an optional thread
// message as one atomic write.
func (s *IssueService) UpdateIssueAsStaff(ctx context.Context, actor *domain.Profile, id string, change domain.StaffChange) (*domain.Issue, domain.ChangePlan, error) {
	if actor == nil || !actor.Role.IsStaff() {
		return nil, domain.ChangePlan{}, apperrors.NewForbidden("staff role required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ChangePlan{}, apperrors.NewNotFound("issue", map[string]any{"id": id})
	}
	if change.AssignedTo != nil && !change.Unassign && strings.TrimSpace(*change.AssignedTo) != "" {
		if err := s.ensureAssignable(ctx, strings.TrimSpace(*change.AssignedTo)); err != nil {
			return nil, domain.ChangePlan{}, err
		}
	}

	issue, plan, err := s.issues.ApplyChange(ctx, id, func(current domain.Issue) (domain.ChangePlan, error) {
		return domain.PlanStaffChange(current, change, actor.ID, s.now())
	})
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, domain.ChangePlan{}, apperrors.NewNotFound("issue", map[string]any{"id": id})
	case errors.Is(err, domain.ErrInvalidStatus):
		return nil, domain.ChangePlan{}, apperrors.NewValidationError("invalid status", map[string]any{"status": change.Status})
	case err != nil:
		return nil, domain.ChangePlan{}, err
	}

	s.logger.Info("issue updated by staff",
		zap.String("issue_id", issue.ID),
		zap.String("actor_id", actor.ID),
		zap.String("status", string(issue.Status)),
		zap.Bool("status_changed", plan.StatusChanged),
		zap.Bool("assignee_changed", plan.AssigneeChanged),
		zap.Bool("update_posted", plan.Update != nil))
	return issue, plan, nil
}

func (s *IssueService) ensureAssignable(ctx context.Context, profileID string) error {
	if _, err := uuid.Parse(profileID); err != nil {
		return apperrors.NewValidationError("assigned_to must be a staff profile id", nil)
	}
	profile, err := s.profiles.GetByID(ctx, profileID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewValidationError("assigned_to must be a staff profile id", nil)
	}
	if err != nil {
		return err
	}
	if !profile.Role.IsStaff() {
		return apperrors.NewValidationError("assigned_to must be a staff profile id", nil)
	}
	return nil
}

func (s *IssueService) loadIssue(ctx context.Context, id string) (*domain.Issue, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("issue", map[string]any{"id": id})
	}
	issue, err := s.issues.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("issue", map[string]any{"id": id})
	}
	return issue, err
}

func validateFilter(filter IssueListFilter) error {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return apperrors.NewValidationError("invalid status filter", map[string]any{"status": status})
		}
	}
	for _, category := range filter.Categories {
		if !category.Valid() {
			return apperrors.NewValidationError("invalid category filter", map[string]any{"category": category})
		}
	}
	for _, priority := range filter.Priorities {
		if !priority.Valid() {
			return apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": priority})
		}
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
