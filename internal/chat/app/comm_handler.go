package app

import (
	"school_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ConnectCheck liveness probe
func ConnectCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// DebugLogFlag toggle the logger debug core at runtime
func DebugLogFlag(c *fiber.Ctx) error {
	var req struct {
		Debug bool `json:"debug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	logger.Log.SetDebugMode(req.Debug)
	return c.JSON(fiber.Map{"debug": req.Debug})
}
