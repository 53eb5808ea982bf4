package details

import (
	authRoute "housetrack_backend/internals/features/users/auth/route"
	authService "housetrack_backend/internals/features/users/auth/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthRoutes(app *fiber.App, db *gorm.DB, blacklist authService.BlacklistStore) {
	authRoute.AuthRoutes(app, db, blacklist)
}
