package handlers

import (
	"fmt"
	"log"
	"log/slog"
	"strconv"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
	"github.com/Shashank-765/LinkedInAutomation-sub000/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type PlatformHandler struct {
	li  service.LinkedInService
	as  service.AccountService
	cfg config.Config
}

func NewPlatformHandler(li service.LinkedInService, as service.AccountService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		li:  li,
		as:  as,
		cfg: cfg,
	}
}

// ConnectAccount starts the LinkedIn OAuth flow. The state parameter is a
// short-lived token carrying the user id, validated on callback.
func (h *PlatformHandler) ConnectAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	state, err := utils.GenerateToken(h.cfg.SecretKey, fmt.Sprintf("%d", userID), 10*time.Minute)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"auth_url": h.li.AuthURL(state),
	})
}

func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	if err := h.li.LinkedInCallback(c.Context(), code, userID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) ListAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.as.ListAccounts(c.Context(), userID)
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch linked accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *PlatformHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountId := c.QueryInt("id", 0)

	err := h.as.RemoveAccount(c.Context(), userID, int64(accountId))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove linked account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
