package controller

import (
	"errors"
	"strings"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/features/construction/images/service"
	helper "housetrack_backend/internals/helpers"
	"housetrack_backend/internals/helpers/blob"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ImageController struct {
	DB    *gorm.DB
	Store blob.Store
	WebP  blob.WebPOptions
}

func NewImageController(db *gorm.DB, store blob.Store, opt blob.WebPOptions) *ImageController {
	return &ImageController{DB: db, Store: store, WebP: opt}
}

func maxUploadBytes() int64 {
	mb := configs.UploadMaxMB
	if mb <= 0 {
		mb = 10
	}
	return int64(mb) << 20
}

func imageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "House activity not found")
	case errors.Is(err, service.ErrImageNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Image not found")
	case errors.Is(err, service.ErrNotAllowed):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotImage),
		errors.Is(err, blob.ErrEmptyImage),
		errors.Is(err, blob.ErrUnsupportedImage):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		return helper.FromError(c, helper.MapDBError(err, "Image not found"))
	}
}

/*
=========================================================
POST /api/u/house-activities/:id/images
multipart: image (wajib), description (opsional)
=========================================================
*/
func (ctl *ImageController) Upload(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "image file is required")
	}
	if fh.Size > maxUploadBytes() {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "image is too large")
	}
	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read image file")
	}
	defer src.Close()

	var desc *string
	if d := strings.TrimSpace(c.FormValue("description")); d != "" {
		desc = &d
	}

	row, err := service.Upload(c.UserContext(), ctl.DB, ctl.Store, ctl.WebP, service.UploadInput{
		HouseActivityID: id,
		CallerID:        userID,
		Role:            helper.GetRole(c),
		Filename:        fh.Filename,
		File:            src,
		Description:     desc,
	})
	if err != nil {
		return imageError(c, err)
	}
	return helper.JsonCreated(c, "Image uploaded", row)
}

// GET /api/u/house-activities/:id/images
func (ctl *ImageController) List(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := service.List(c.UserContext(), ctl.DB, id)
	if err != nil {
		return imageError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// DELETE /api/u/images/:id
func (ctl *ImageController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.Delete(c.UserContext(), ctl.DB, ctl.Store, id, userID, helper.GetRole(c)); err != nil {
		return imageError(c, err)
	}
	return helper.JsonDeleted(c, "Image deleted", fiber.Map{"id": id})
}
