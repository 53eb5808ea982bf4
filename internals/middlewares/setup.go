package middlewares

import (
	"housetrack_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// SetupMiddlewares memasang middleware global dengan urutan tetap.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(requestid.New())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(MetricsMiddleware())
}
