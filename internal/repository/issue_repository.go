package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
)

// IssueFilter captures list and search parameters.
type IssueFilter struct {
	ReporterID  *string
	AssigneeID  *string
	Unassigned  bool
	Statuses    []domain.IssueStatus
	Categories  []domain.IssueCategory
	Priorities  []domain.IssuePriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// PlanFunc computes a change from the locked current row.
type PlanFunc func(current domain.Issue) (domain.ChangePlan, error)

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	CountWithFilter(ctx context.Context, filter IssueFilter) (int, error)
	ListCreatedBetween(ctx context.Context, from, to *time.Time) ([]domain.Issue, error)
	CountByStatus(ctx context.Context) (map[domain.IssueStatus]int, error)
	ApplyChange(ctx context.Context, id string, plan PlanFunc) (*domain.Issue, domain.ChangePlan, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueSelect = `
        SELECT i.id, i.title, i.description, i.category, i.priority, i.status,
               i.location_lat, i.location_lng, i.address, i.image_url,
               i.reporter_id, i.assigned_to, i.created_at, i.updated_at, i.resolved_at,
               rp.full_name, rp.email, sp.full_name, sp.email
        FROM issues i
        LEFT JOIN profiles rp ON rp.id = i.reporter_id
        LEFT JOIN profiles sp ON sp.id = i.assigned_to`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (title, description, category, priority, status, location_lat, location_lng, address, image_url, reporter_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Priority,
		issue.Status,
		issue.Latitude,
		issue.Longitude,
		issue.Address,
		issue.ImageURL,
		issue.ReporterID,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := scanIssue(r.pool.QueryRow(ctx, issueSelect+` WHERE i.id=$1`, id))
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	where, args := filter.clauses()

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY i.created_at DESC LIMIT %d OFFSET %d`,
		issueSelect, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) CountWithFilter(ctx context.Context, filter IssueFilter) (int, error) {
	where, args := filter.clauses()
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM issues i WHERE `+where, args...).Scan(&total)
	return total, err
}

func (r *issueRepository) ListCreatedBetween(ctx context.Context, from, to *time.Time) ([]domain.Issue, error) {
	filter := IssueFilter{CreatedFrom: from, CreatedTo: to}
	where, args := filter.clauses()
	rows, err := r.pool.Query(ctx, issueSelect+` WHERE `+where+` ORDER BY i.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) CountByStatus(ctx context.Context) (map[domain.IssueStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM issues GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.IssueStatus]int, len(domain.IssueStatuses))
	for rows.Next() {
		var status domain.IssueStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ApplyChange locks the issue row, plans the change against it and writes the
// patch together with the optional thread entry in one transaction.
func (r *issueRepository) ApplyChange(ctx context.Context, id string, plan PlanFunc) (*domain.Issue, domain.ChangePlan, error) {
	var (
		result  domain.Issue
		planned domain.ChangePlan
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanIssue(tx.QueryRow(ctx, issueSelect+` WHERE i.id=$1 FOR UPDATE OF i`, id))
		if err != nil {
			return err
		}

		planned, err = plan(current)
		if err != nil {
			return err
		}
		patch := planned.Patch

		const update = `
            UPDATE issues SET status=$1, assigned_to=$2, resolved_at=$3, updated_at=$4
            WHERE id=$5`
		if _, err := tx.Exec(ctx, update, patch.Status, patch.AssignedTo, patch.ResolvedAt, patch.UpdatedAt, id); err != nil {
			return err
		}

		if u := planned.Update; u != nil {
			const insert = `
                INSERT INTO issue_updates (issue_id, user_id, message, status)
                VALUES ($1,$2,$3,$4)
                RETURNING id, created_at`
			if err := tx.QueryRow(ctx, insert, id, u.UserID, u.Message, u.Status).Scan(&u.ID, &u.CreatedAt); err != nil {
				return err
			}
		}

		result, err = scanIssue(tx.QueryRow(ctx, issueSelect+` WHERE i.id=$1`, id))
		return err
	})
	if err != nil {
		return nil, domain.ChangePlan{}, err
	}
	return &result, planned, nil
}

// likeEscaper makes search input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f IssueFilter) clauses() (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if f.ReporterID != nil {
		args = append(args, *f.ReporterID)
		clauses = append(clauses, fmt.Sprintf("i.reporter_id=$%d", len(args)))
	}
	if f.Unassigned {
		clauses = append(clauses, "i.assigned_to IS NULL")
	} else if f.AssigneeID != nil {
		args = append(args, *f.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("i.assigned_to=$%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, status := range f.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("i.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(f.Categories) > 0 {
		placeholders := make([]string, len(f.Categories))
		for i, category := range f.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("i.category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(f.Priorities) > 0 {
		placeholders := make([]string, len(f.Priorities))
		for i, pr := range f.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("i.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("i.created_at >= $%d", len(args)))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("i.created_at <= $%d", len(args)))
	}
	if f.SearchTerm != nil && strings.TrimSpace(*f.SearchTerm) != "" {
		search := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(*f.SearchTerm))) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(`(LOWER(i.title) LIKE %[1]s ESCAPE '\' OR LOWER(i.description) LIKE %[1]s ESCAPE '\' OR LOWER(COALESCE(i.address, '')) LIKE %[1]s ESCAPE '\')`, placeholder))
	}
	return strings.Join(clauses, " AND "), args
}

func scanIssue(row pgx.Row) (domain.Issue, error) {
	var (
		issue                     domain.Issue
		reporterName, staffName   *string
		reporterEmail, staffEmail *string
	)
	if err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Priority,
		&issue.Status,
		&issue.Latitude,
		&issue.Longitude,
		&issue.Address,
		&issue.ImageURL,
		&issue.ReporterID,
		&issue.AssignedTo,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.ResolvedAt,
		&reporterName,
		&reporterEmail,
		&staffName,
		&staffEmail,
	); err != nil {
		return domain.Issue{}, err
	}
	issue.Reporter = profileRef(reporterName, reporterEmail)
	issue.AssignedStaff = profileRef(staffName, staffEmail)
	return issue, nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}

func profileRef(name, email *string) *domain.ProfileRef {
	if email == nil {
		return nil
	}
	return &domain.ProfileRef{FullName: name, Email: *email}
}
