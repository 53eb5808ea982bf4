package routes

import (
	"housetrack_backend/internals/constants"
	houseController "housetrack_backend/internals/features/construction/houses/controller"
	"housetrack_backend/internals/helpers/blob"
	authMiddleware "housetrack_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HouseUserRoutes: /api/u/houses (read-only, semua role)
func HouseUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := houseController.NewHouseController(db, nil)

	grp := r.Group("/houses")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
	grp.Get("/:id/activities", ctl.ListActivities)
}

// HouseAdminRoutes: /api/a/houses
func HouseAdminRoutes(r fiber.Router, db *gorm.DB, store blob.Store) {
	ctl := houseController.NewHouseController(db, store)

	grp := r.Group("/houses")
	grp.Post("/",
		authMiddleware.OnlyRoles(constants.RoleErrorReviewer("create houses"), constants.ReviewerAndAbove...),
		ctl.Create)
	grp.Patch("/:id",
		authMiddleware.OnlyRoles(constants.RoleErrorReviewer("update houses"), constants.ReviewerAndAbove...),
		ctl.Patch)
	grp.Delete("/:id",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("delete houses"), constants.AdminOnly...),
		ctl.Delete)
}
