package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

// RequireStaff ensures the caller is staff or admin.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsStaff() {
			return apperrors.NewForbidden("Insufficient permissions")
		}
		return c.Next()
	}
}
