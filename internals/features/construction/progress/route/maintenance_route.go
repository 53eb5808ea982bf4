package routes

import (
	"housetrack_backend/internals/constants"
	progressController "housetrack_backend/internals/features/construction/progress/controller"
	authMiddleware "housetrack_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func MaintenanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := progressController.NewRecountController(db)

	grp := r.Group("/maintenance",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("maintenance"), constants.AdminOnly...),
	)
	grp.Post("/recount", ctl.Recount)
}
