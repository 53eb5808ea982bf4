package routes

import (
	"housetrack_backend/internals/constants"
	userController "housetrack_backend/internals/features/users/user/controller"
	authMiddleware "housetrack_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserAdminRoutes mounts /users under the admin group.
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	userCtrl := userController.NewUserController(db)

	users := r.Group("/users",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("user management"), constants.AdminOnly...),
	)
	users.Get("/", userCtrl.List)
	users.Get("/:id", userCtrl.GetByID)
	users.Patch("/:id/role", userCtrl.UpdateRole)
	users.Patch("/:id/active", userCtrl.UpdateActive)
}
