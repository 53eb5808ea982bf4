package route

import (
	controller "housetrack_backend/internals/features/users/auth/controller"
	"housetrack_backend/internals/features/users/auth/service"
	rateLimiter "housetrack_backend/internals/middlewares"
	authMiddleware "housetrack_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes mounts /api/auth.
func AuthRoutes(app *fiber.App, db *gorm.DB, blacklist service.BlacklistStore) {
	authController := controller.NewAuthController(db, blacklist)

	baseAuth := app.Group("/api/auth")

	// 🔓 Public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/refresh-token", authController.RefreshToken)
	baseAuth.Post("/logout", authController.Logout)

	// 🔐 Protected
	protectedAuth := baseAuth.Group("", authMiddleware.AuthMiddleware(db, blacklist))
	protectedAuth.Get("/me", authController.Me)
	protectedAuth.Post("/change-password", authController.ChangePassword)
	protectedAuth.Put("/update-user-name", authController.UpdateUserName)
}
