package routes

import (
	haController "housetrack_backend/internals/features/construction/house_activities/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HouseActivityUserRoutes: /api/u/house-activities (semua role; izin per-field dicek di service)
func HouseActivityUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := haController.NewHouseActivityController(db)

	grp := r.Group("/house-activities")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
	grp.Patch("/:id", ctl.Patch)
}
