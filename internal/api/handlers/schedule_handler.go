package handlers

import (
	"log/slog"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type ScheduleHandler struct {
	s service.ScheduleService
}

func NewScheduleHandler(s service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{s: s}
}

func (h *ScheduleHandler) GetCalendarConfig(c *fiber.Ctx) error {
	userID := GetUserID(c)

	config, events, err := h.s.GetCalendarConfig(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get calendar config",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"config": config,
		"events": events,
	})
}

func (h *ScheduleHandler) UpdateCalendarConfig(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var update transfer.CalendarConfigUpdate
	if err := c.BodyParser(&update); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.SaveCalendarConfig(c.Context(), userID, &update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ScheduleHandler) GetIndustryConfig(c *fiber.Ctx) error {
	userID := GetUserID(c)

	config, slots, err := h.s.GetIndustryConfig(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get industry config",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"config": config,
		"slots":  slots,
	})
}

func (h *ScheduleHandler) UpdateIndustryConfig(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var update transfer.IndustryConfigUpdate
	if err := c.BodyParser(&update); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.SaveIndustryConfig(c.Context(), userID, &update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
