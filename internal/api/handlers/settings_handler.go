package handlers

import (
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	s service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{s: s}
}

func (h *SettingsHandler) GetSettingsInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	settings, err := h.s.GetSettings(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to get settings",
		})
	}

	return c.Status(fiber.StatusOK).JSON(settings)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)

	tone := c.FormValue("tone")
	industry := c.FormValue("industry")

	if err := h.s.SaveSettings(c.Context(), userID, tone, industry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save settings",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
