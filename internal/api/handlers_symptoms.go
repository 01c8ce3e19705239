package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowlog/internal/models"
)

func (handler *Handler) GetSymptoms(c *fiber.Ctx) error {
	return c.JSON(models.DefaultBuiltinSymptoms())
}

func (handler *Handler) GetSymptomStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := handler.periods.SymptomFrequencies(user.ID)
	if err != nil {
		return handler.respondPeriodError(c, err)
	}
	return c.JSON(stats)
}
