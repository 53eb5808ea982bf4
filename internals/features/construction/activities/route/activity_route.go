package routes

import (
	"housetrack_backend/internals/constants"
	activityController "housetrack_backend/internals/features/construction/activities/controller"
	authMiddleware "housetrack_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ActivityUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := activityController.NewActivityController(db)

	grp := r.Group("/activities")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}

// ActivityAdminRoutes: master checklist hanya dikelola admin
func ActivityAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := activityController.NewActivityController(db)

	grp := r.Group("/activities",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("activity templates"), constants.AdminOnly...),
	)
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)
}
