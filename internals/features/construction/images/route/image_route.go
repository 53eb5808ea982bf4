package routes

import (
	imageController "housetrack_backend/internals/features/construction/images/controller"
	"housetrack_backend/internals/helpers/blob"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ImageUserRoutes(r fiber.Router, db *gorm.DB, store blob.Store) {
	ctl := imageController.NewImageController(db, store, blob.WebPOptionsFromEnv())

	r.Post("/house-activities/:id/images", ctl.Upload)
	r.Get("/house-activities/:id/images", ctl.List)
	r.Delete("/images/:id", ctl.Delete)
}
