package routes

import (
	"housetrack_backend/internals/constants"
	projectController "housetrack_backend/internals/features/construction/projects/controller"
	authMiddleware "housetrack_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ProjectUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := projectController.NewProjectController(db)

	grp := r.Group("/projects")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}

func ProjectAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := projectController.NewProjectController(db)

	grp := r.Group("/projects")
	grp.Post("/",
		authMiddleware.OnlyRoles(constants.RoleErrorReviewer("create projects"), constants.ReviewerAndAbove...),
		ctl.Create)
	grp.Patch("/:id",
		authMiddleware.OnlyRoles(constants.RoleErrorReviewer("update projects"), constants.ReviewerAndAbove...),
		ctl.Patch)
	grp.Delete("/:id",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("delete projects"), constants.AdminOnly...),
		ctl.Delete)
}
