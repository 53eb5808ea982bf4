package details

import (
	activityRoute "housetrack_backend/internals/features/construction/activities/route"
	houseActivityRoute "housetrack_backend/internals/features/construction/house_activities/route"
	houseRoute "housetrack_backend/internals/features/construction/houses/route"
	imageRoute "housetrack_backend/internals/features/construction/images/route"
	progressRoute "housetrack_backend/internals/features/construction/progress/route"
	projectRoute "housetrack_backend/internals/features/construction/projects/route"
	"housetrack_backend/internals/helpers/blob"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ConstructionUserRoutes: semua user login (/api/u)
func ConstructionUserRoutes(user fiber.Router, db *gorm.DB, store blob.Store) {
	activityRoute.ActivityUserRoutes(user, db)
	projectRoute.ProjectUserRoutes(user, db)
	houseRoute.HouseUserRoutes(user, db)
	houseActivityRoute.HouseActivityUserRoutes(user, db)
	imageRoute.ImageUserRoutes(user, db, store)
}

// ConstructionAdminRoutes: reviewer/admin (/api/a), role dicek per route
func ConstructionAdminRoutes(admin fiber.Router, db *gorm.DB, store blob.Store) {
	activityRoute.ActivityAdminRoutes(admin, db)
	projectRoute.ProjectAdminRoutes(admin, db)
	houseRoute.HouseAdminRoutes(admin, db, store)
	progressRoute.MaintenanceAdminRoutes(admin, db)
}
