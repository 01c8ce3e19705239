package api

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	records, err := handler.periods.ListRecent(user.ID, limit)
	if err != nil {
		return handler.respondPeriodError(c, err)
	}
	return c.JSON(records)
}

// GetActivePeriod previews the record the next symptom save attaches to.
// persisted is false when that save would create a new period.
func (handler *Handler) GetActivePeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	record, created, err := handler.symptomLog.ActivePeriod(user.ID, handler.currentTime())
	if err != nil {
		return handler.respondPeriodError(c, err)
	}
	return c.JSON(fiber.Map{
		"period":    record,
		"persisted": !created,
	})
}

func (handler *Handler) AttachSymptoms(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := symptomSelectionInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.symptomLog.AttachSymptoms(user.ID, input.Symptoms, handler.currentTime())
	if err != nil {
		return handler.respondPeriodError(c, err)
	}
	return c.JSON(record)
}

func (handler *Handler) UpdatePeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, err := parseRecordID(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	input := periodUpdateInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := input.Validate(); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	update, err := input.toServiceUpdate(handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid end_date")
	}

	record, err := handler.periods.UpdatePeriod(user.ID, recordID, update)
	if err != nil {
		return handler.respondPeriodError(c, err)
	}
	return c.JSON(record)
}

func (handler *Handler) RemoveSymptom(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, err := parseRecordID(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid symptom name")
	}

	record, err := handler.symptomLog.RemoveSymptom(user.ID, recordID, name)
	if err != nil {
		return handler.respondPeriodError(c, err)
	}
	return c.JSON(record)
}

// ClearSymptoms empties a period's symptoms. It also discards a stored value
// that can no longer be read.
func (handler *Handler) ClearSymptoms(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, err := parseRecordID(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	record, err := handler.symptomLog.ClearSymptoms(user.ID, recordID)
	if err != nil {
		return handler.respondPeriodError(c, err)
	}
	return c.JSON(record)
}
