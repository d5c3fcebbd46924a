package domain

import "time"

// Role determines access to staff-only surfaces.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// IsStaff reports whether the role may manage issues.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Profile is the application-side record of an authenticated identity.
type Profile struct {
	ID         string
	Email      string
	FullName   *string
	Phone      *string
	Role       Role
	Department *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName returns the full name, or empty when unset.
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == nil {
		return ""
	}
	return *p.FullName
}

// ProfileRef is the joined subset of a profile shown next to an issue.
type ProfileRef struct {
	FullName *string
	Email    string
}

// Name returns the full name, or empty when unset.
func (p *ProfileRef) Name() string {
	if p == nil || p.FullName == nil {
		return ""
	}
	return *p.FullName
}
