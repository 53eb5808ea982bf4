package logger

import (
	"time"

	"housetrack_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// probes tidak dicatat supaya log akses tidak penuh health check.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggerMiddleware mencatat semua request selain probe.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Next:       func(c *fiber.Ctx) bool { return quietPaths[c.Path()] },
		TimeFormat: time.RFC3339,
		TimeZone:   configs.GetEnv("LOG_TIMEZONE", "UTC"),
		Format:     "[${time}] ${locals:requestid} ${ip} - ${method} ${path} - ${status} - ${latency} ${error}\n",
	})
}
