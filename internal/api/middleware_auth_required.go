package api

import (
	"github.com/gofiber/fiber/v2"
)

const changePasswordPath = "/api/auth/change-password"

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword && c.Path() != changePasswordPath && c.Path() != "/api/auth/me" {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}
	return c.Next()
}

// OnboardingRequired runs after AuthRequired.
func (handler *Handler) OnboardingRequired(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.OnboardingCompleted {
		return apiError(c, fiber.StatusForbidden, "onboarding required")
	}
	return c.Next()
}
