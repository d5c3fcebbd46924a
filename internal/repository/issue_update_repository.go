package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
)

// IssueUpdateRepository reads issue threads. Entries are written by
// IssueRepository.ApplyChange.
type IssueUpdateRepository interface {
	ListByIssue(ctx context.Context, issueID string) ([]domain.IssueUpdate, error)
}

type issueUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewIssueUpdateRepository builds repository.
func NewIssueUpdateRepository(pool *pgxpool.Pool) IssueUpdateRepository {
	return &issueUpdateRepository{pool: pool}
}

// ListByIssue returns the thread newest first with author profiles joined.
func (r *issueUpdateRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.IssueUpdate, error) {
	const query = `
        SELECT u.id, u.issue_id, u.user_id, u.message, u.status, u.created_at, p.full_name, p.email
        FROM issue_updates u
        LEFT JOIN profiles p ON p.id = u.user_id
        WHERE u.issue_id=$1 ORDER BY u.created_at DESC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IssueUpdate
	for rows.Next() {
		var (
			u           domain.IssueUpdate
			name, email *string
		)
		if err := rows.Scan(
			&u.ID,
			&u.IssueID,
			&u.UserID,
			&u.Message,
			&u.Status,
			&u.CreatedAt,
			&name,
			&email,
		); err != nil {
			return nil, err
		}
		u.Author = profileRef(name, email)
		result = append(result, u)
	}
	return result, rows.Err()
}
