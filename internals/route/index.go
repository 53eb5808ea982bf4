// file: internals/route/index.go
package routes

import (
	"time"

	"housetrack_backend/internals/configs"
	authService "housetrack_backend/internals/features/users/auth/service"
	"housetrack_backend/internals/helpers/blob"
	authMiddleware "housetrack_backend/internals/middlewares/auth"
	routeDetails "housetrack_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

// Options carries the infrastructure the routes depend on.
type Options struct {
	Blacklist authService.BlacklistStore
	Blob      blob.Store
	// UploadDir is served under /uploads when non-empty (local blob driver).
	UploadDir string
}

func SetupRoutes(app *fiber.App, db *gorm.DB, opt Options) {
	startTime = time.Now()
	if opt.Blacklist == nil {
		opt.Blacklist = authService.NewDBBlacklist(db)
	}

	BaseRoutes(app, db, opt.UploadDir)

	// ===================== AUTH =====================
	configs.Log.Info("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db, opt.Blacklist)

	// ===================== GROUPS =====================
	auth := authMiddleware.AuthMiddleware(db, opt.Blacklist)

	// 👤 semua user login
	user := app.Group("/api/u", auth)

	// 🔐 reviewer/admin; role per endpoint
	admin := app.Group("/api/a", auth)

	// ===================== MOUNT ROUTES =====================
	configs.Log.Info("[INFO] Mounting construction routes...")
	routeDetails.ConstructionUserRoutes(user, db, opt.Blob)
	routeDetails.ConstructionAdminRoutes(admin, db, opt.Blob)

	configs.Log.Info("[INFO] Mounting user admin routes...")
	routeDetails.UserAdminRoutes(admin, db)
}
