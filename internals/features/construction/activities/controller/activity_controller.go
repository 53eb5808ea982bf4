package controller

import (
	"strings"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/features/construction/activities/dto"
	activityModel "housetrack_backend/internals/features/construction/activities/model"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ActivityController struct {
	DB *gorm.DB
}

func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{DB: db}
}

/*
=========================================================
GET /api/u/activities
Query: active (true|false), phase, page, per_page
Urut berdasarkan nomor template.
=========================================================
*/
func (ctl *ActivityController) List(c *fiber.Ctx) error {
	tx := ctl.DB.WithContext(c.UserContext()).Model(&activityModel.ActivityModel{})

	switch strings.ToLower(strings.TrimSpace(c.Query("active"))) {
	case "true":
		tx = tx.Where("activity_is_active = ?", true)
	case "false":
		tx = tx.Where("activity_is_active = ?", false)
	}
	if phase := strings.TrimSpace(c.Query("phase")); phase != "" {
		tx = tx.Where("activity_phase = ?", phase)
	}

	paging := helper.ResolvePaging(c, 100, 500)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count activities")
	}
	var rows []activityModel.ActivityModel
	if err := tx.Order("activity_number ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch activities")
	}

	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", rows, &pg)
}

// GET /api/u/activities/:id
func (ctl *ActivityController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var row activityModel.ActivityModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&row, "activity_id = ?", id).Error; err != nil {
		return helper.FromError(c, helper.MapDBError(err, "Activity not found"))
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /api/a/activities
func (ctl *ActivityController) Create(c *fiber.Ctx) error {
	var req dto.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validator().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	db := ctl.DB.WithContext(c.UserContext())
	if taken, err := numberTaken(db, m.ActivityNumber, nil); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check activity number")
	} else if taken {
		return helper.JsonError(c, fiber.StatusConflict, "Activity number already exists")
	}

	if err := db.Create(m).Error; err != nil {
		return helper.FromError(c, helper.MapDBError(err, "Activity not found"))
	}
	return helper.JsonCreated(c, "Activity created", m)
}

// PATCH /api/a/activities/:id
// Perubahan template tidak menyentuh house_activities yang sudah ada.
func (ctl *ActivityController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	var m activityModel.ActivityModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "activity_id = ?", id).Error; err != nil {
			return helper.MapDBError(err, "Activity not found")
		}
		cols, err := req.Apply(&m)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Number != nil {
			taken, err := numberTaken(tx, m.ActivityNumber, &m)
			if err != nil {
				return err
			}
			if taken {
				return fiber.NewError(fiber.StatusConflict, "Activity number already exists")
			}
		}
		if err := tx.Model(&activityModel.ActivityModel{}).Where("activity_id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&m, "activity_id = ?", id).Error
	})
	if err != nil {
		return helper.FromError(c, helper.MapDBError(err, "Activity not found"))
	}
	return helper.JsonUpdated(c, "Activity updated", m)
}

/*
=========================================================
DELETE /api/a/activities/:id
Kalau sudah dipakai rumah → dinonaktifkan (soft retire),
kalau belum → dihapus permanen.
=========================================================
*/
func (ctl *ActivityController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	retired := false
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m activityModel.ActivityModel
		if err := tx.First(&m, "activity_id = ?", id).Error; err != nil {
			return helper.MapDBError(err, "Activity not found")
		}
		var refs int64
		if err := tx.Model(&haModel.HouseActivityModel{}).
			Where("house_activity_activity_id = ?", id).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			retired = true
			return tx.Model(&activityModel.ActivityModel{}).
				Where("activity_id = ?", id).
				Update("activity_is_active", false).Error
		}
		return tx.Delete(&activityModel.ActivityModel{}, "activity_id = ?", id).Error
	})
	if err != nil {
		return helper.FromError(c, helper.MapDBError(err, "Activity not found"))
	}

	if retired {
		configs.Log.Info("activity retired", zap.String("activity_id", id.String()))
		return helper.JsonOK(c, "Activity is referenced by houses and was deactivated", fiber.Map{"id": id, "retired": true})
	}
	return helper.JsonDeleted(c, "Activity deleted", fiber.Map{"id": id, "retired": false})
}

func numberTaken(db *gorm.DB, number int, self *activityModel.ActivityModel) (bool, error) {
	q := db.Model(&activityModel.ActivityModel{}).Where("activity_number = ?", number)
	if self != nil {
		q = q.Where("activity_id <> ?", self.ActivityID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
