package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Profile *domain.Profile
}

// ID returns the caller's profile id.
func (p *Principal) ID() string {
	if p == nil || p.Profile == nil {
		return ""
	}
	return p.Profile.ID
}

// IsStaff reports whether the caller may use staff surfaces.
func (p *Principal) IsStaff() bool {
	return p != nil && p.Profile != nil && p.Profile.Role.IsStaff()
}

// ProfileLookup resolves a token subject to its profile row.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	profiles ProfileLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, profiles ProfileLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, profiles: profiles}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	return m.authenticate(c, raw)
}

// HandleStream is Handle for event streams. Browsers cannot set headers on
// EventSource, so the token may also arrive as the access_token query value.
func (m *AuthMiddleware) HandleStream(c *fiber.Ctx) error {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		return m.Handle(c)
	}
	raw := c.Query("access_token")
	if raw == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	return m.authenticate(c, raw)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx, raw string) error {
	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	profile, err := m.profiles.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("profile not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Profile: profile})
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal.Profile != nil
}
