package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowlog/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondPeriodError maps symptom and period service failures to HTTP
// responses. Server-side failures are logged with the request id.
func (handler *Handler) respondPeriodError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoSymptomsSelected):
		return apiError(c, fiber.StatusBadRequest, "no symptoms selected")
	case errors.Is(err, services.ErrInvalidSymptomName):
		return apiError(c, fiber.StatusBadRequest, "invalid symptom name")
	case errors.Is(err, services.ErrInvalidFlow):
		return apiError(c, fiber.StatusBadRequest, "invalid flow")
	case errors.Is(err, services.ErrInvalidEndDate):
		return apiError(c, fiber.StatusBadRequest, "end date before start date")
	case errors.Is(err, services.ErrEmptyPeriodUpdate):
		return apiError(c, fiber.StatusBadRequest, "nothing to update")
	case errors.Is(err, services.ErrInvalidPeriodLimit):
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	case errors.Is(err, services.ErrPeriodRecordMissing):
		return apiError(c, fiber.StatusNotFound, "period not found")
	case errors.Is(err, services.ErrActivePeriodLoad):
		handler.logFailure(c, "active period load failed", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load active period")
	case errors.Is(err, services.ErrPersistFailed):
		handler.logFailure(c, "period save failed", err)
		return apiError(c, fiber.StatusInternalServerError, "save failed")
	default:
		handler.logFailure(c, "period request failed", err)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func (handler *Handler) logFailure(c *fiber.Ctx, message string, err error) {
	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.Error(err),
	}
	if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if user, ok := currentUser(c); ok {
		fields = append(fields, zap.Uint("user_id", user.ID))
	}
	handler.logger.Error(message, fields...)
}

func parseRecordID(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}
