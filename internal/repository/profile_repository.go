package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
)

// ProfileRepository reads application profiles. Profiles are created by the
// auth backend at sign-up.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	ListByRoles(ctx context.Context, roles ...domain.Role) ([]domain.Profile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileSelect = `
        SELECT id, email, full_name, phone, role, department, created_at, updated_at
        FROM profiles`

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := scanProfile(r.pool.QueryRow(ctx, profileSelect+` WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ListByRoles(ctx context.Context, roles ...domain.Role) ([]domain.Profile, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	rows, err := r.pool.Query(ctx, profileSelect+` WHERE role = ANY($1) ORDER BY full_name NULLS LAST, email`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Phone,
		&p.Role,
		&p.Department,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
