package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewServerConfig returns the fiber settings shared by the API binary and tests.
// Path params arrive decoded, so /employees/search/ice%20Sm searches "ice Sm".
func NewServerConfig(appName string, logger *zap.Logger) fiber.Config {
	return fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          ErrorHandler(logger),
	}
}
