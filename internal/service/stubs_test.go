package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/repository"
)

type stubIssueRepo struct {
	mu       sync.Mutex
	issues   map[string]domain.Issue
	created  []domain.Issue
	counts   map[domain.IssueStatus]int
	lastFrom *time.Time
	listErr  error
}

func newStubIssueRepo(issues ...domain.Issue) *stubIssueRepo {
	r := &stubIssueRepo{issues: map[string]domain.Issue{}}
	for _, issue := range issues {
		r.issues[issue.ID] = issue
	}
	return r
}

func (r *stubIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue.ID = "00000000-0000-0000-0000-00000000000a"
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	r.created = append(r.created, *issue)
	return nil
}

func (r *stubIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &issue, nil
}

func (r *stubIssueRepo) ListWithFilter(context.Context, repository.IssueFilter) ([]domain.Issue, error) {
	return r.all(), nil
}

func (r *stubIssueRepo) CountWithFilter(context.Context, repository.IssueFilter) (int, error) {
	return len(r.all()), nil
}

func (r *stubIssueRepo) ListCreatedBetween(_ context.Context, from, _ *time.Time) ([]domain.Issue, error) {
	r.mu.Lock()
	r.lastFrom = from
	r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.all(), nil
}

func (r *stubIssueRepo) CountByStatus(context.Context) (map[domain.IssueStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts != nil {
		return r.counts, nil
	}
	counts := map[domain.IssueStatus]int{}
	for _, issue := range r.issues {
		counts[issue.Status]++
	}
	return counts, nil
}

func (r *stubIssueRepo) ApplyChange(_ context.Context, id string, plan repository.PlanFunc) (*domain.Issue, domain.ChangePlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.issues[id]
	if !ok {
		return nil, domain.ChangePlan{}, pgx.ErrNoRows
	}
	planned, err := plan(current)
	if err != nil {
		return nil, domain.ChangePlan{}, err
	}
	next := planned.Patch.Apply(current)
	r.issues[id] = next
	return &next, planned, nil
}

func (r *stubIssueRepo) all() []domain.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		out = append(out, issue)
	}
	return out
}

type stubProfileRepo struct {
	profiles map[string]domain.Profile
}

func newStubProfileRepo(profiles ...domain.Profile) *stubProfileRepo {
	r := &stubProfileRepo{profiles: map[string]domain.Profile{}}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *stubProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *stubProfileRepo) ListByRoles(_ context.Context, roles ...domain.Role) ([]domain.Profile, error) {
	var out []domain.Profile
	for _, p := range r.profiles {
		for _, role := range roles {
			if p.Role == role {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

type stubUpdateRepo struct {
	updates map[string][]domain.IssueUpdate
}

func (r *stubUpdateRepo) ListByIssue(_ context.Context, issueID string) ([]domain.IssueUpdate, error) {
	if r == nil {
		return nil, nil
	}
	return r.updates[issueID], nil
}

type stubNotificationRepo struct {
	mu     sync.Mutex
	items  []domain.Notification
	unread int
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.items {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(context.Context, string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unread, nil
}

func (r *stubNotificationRepo) SetRead(_ context.Context, userID, id string, read bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].Read = read
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *stubNotificationRepo) MarkAllRead(context.Context, string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(r.unread)
	r.unread = 0
	return n, nil
}

func (r *stubNotificationRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func strPtr(s string) *string { return &s }
