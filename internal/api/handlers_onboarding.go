package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowlog/internal/services"
)

func (handler *Handler) CompleteOnboarding(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.OnboardingCompleted {
		return apiError(c, fiber.StatusConflict, "onboarding already completed")
	}

	input := onboardingInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}
	if err := input.Validate(); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	initial, err := handler.onboardingService.Complete(user.ID, input.toServiceInput(handler.location), handler.currentTime())
	switch {
	case errors.Is(err, services.ErrOnboardingStartDateOutOfRange):
		return apiError(c, fiber.StatusBadRequest, "last period start out of range")
	case errors.Is(err, services.ErrOnboardingPeriodLength):
		return apiError(c, fiber.StatusBadRequest, "invalid period length")
	case err != nil:
		handler.logFailure(c, "onboarding failed", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to complete onboarding")
	}

	return c.JSON(fiber.Map{
		"ok":     true,
		"period": initial,
	})
}
