package controller

import (
	"context"
	"errors"
	"strings"

	"housetrack_backend/internals/configs"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	"housetrack_backend/internals/features/construction/houses/dto"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	"housetrack_backend/internals/features/construction/houses/service"
	helper "housetrack_backend/internals/helpers"
	"housetrack_backend/internals/helpers/blob"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HouseController struct {
	DB    *gorm.DB
	Store blob.Store
}

func NewHouseController(db *gorm.DB, store blob.Store) *HouseController {
	return &HouseController{DB: db, Store: store}
}

func houseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrHouseNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "House not found")
	case errors.Is(err, service.ErrNoActiveTemplates),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrInvalidStatus):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		return helper.FromError(c, helper.MapDBError(err, "House not found"))
	}
}

var houseSortColumns = map[string]string{
	"createdAt": "house_created_at",
	"name":      "house_name",
	"progress":  "house_progress",
	"status":    "house_status",
}

/*
=========================================================
GET /api/u/houses
Query: projectId, status, q (nama), sort_by, order, page, per_page
=========================================================
*/
func (ctl *HouseController) List(c *fiber.Ctx) error {
	projectID, err := helper.ParseUUIDQuery(c, "projectId")
	if err != nil {
		return helper.FromError(c, err)
	}

	tx := ctl.DB.WithContext(c.UserContext()).Model(&houseModel.HouseModel{})
	if projectID != nil {
		tx = tx.Where("house_project_id = ?", *projectID)
	}
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		if !houseModel.IsValidHouseStatus(st) {
			return helper.JsonError(c, fiber.StatusBadRequest, service.ErrInvalidStatus.Error())
		}
		tx = tx.Where("house_status = ?", st)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("LOWER(house_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	orderBy, err := helper.ResolveSort(c, "createdAt", "desc").OrderClause(houseSortColumns)
	if err != nil {
		return helper.FromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count houses")
	}

	var rows []houseModel.HouseModel
	if err := tx.Order(orderBy).
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch houses")
	}

	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", rows, &pg)
}

// GET /api/u/houses/:id
func (ctl *HouseController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var row houseModel.HouseModel
	if err := ctl.DB.WithContext(c.UserContext()).First(&row, "house_id = ?", id).Error; err != nil {
		return helper.FromError(c, helper.MapDBError(err, "House not found"))
	}
	return helper.JsonOK(c, "ok", row)
}

// GET /api/u/houses/:id/activities  (urut nomor template)
func (ctl *HouseController) ListActivities(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	db := ctl.DB.WithContext(c.UserContext())

	var n int64
	if err := db.Model(&houseModel.HouseModel{}).Where("house_id = ?", id).Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch house")
	}
	if n == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "House not found")
	}

	q := db.Model(&haModel.HouseActivityModel{}).
		Select(`house_activities.house_activity_id, activities.activity_id, activities.activity_number,
			activities.activity_phase, activities.activity_sub_phase, activities.activity_name,
			house_activities.house_activity_status, house_activities.house_activity_start_date,
			house_activities.house_activity_completion_date, house_activities.house_activity_app_user_id,
			house_activities.house_activity_approved_by_id, house_activities.house_activity_approval_date,
			house_activities.house_activity_remarks, house_activities.house_activity_rejected_remarks,
			house_activities.house_activity_is_blocked`).
		Joins("JOIN activities ON activities.activity_id = house_activities.house_activity_activity_id").
		Where("house_activities.house_activity_house_id = ?", id)
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		q = q.Where("house_activities.house_activity_status = ?", st)
	}

	var rows []dto.HouseActivityRow
	if err := q.Order("activities.activity_number ASC").Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch house activities")
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/a/houses
func (ctl *HouseController) Create(c *fiber.Ctx) error {
	var req dto.CreateHouseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validator().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	res, err := service.CreateHouse(c.UserContext(), ctl.DB, req.ToInput())
	if err != nil {
		return houseError(c, err)
	}
	return helper.JsonCreated(c, "House created", dto.CreateHouseResponse{
		House:         res.House,
		ActivityCount: res.ActivityCount,
		Projects:      res.Projects,
	})
}

// PATCH /api/a/houses/:id
func (ctl *HouseController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateHouseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := service.UpdateHouse(c.UserContext(), ctl.DB, id, in)
	if err != nil {
		return houseError(c, err)
	}
	return helper.JsonUpdated(c, "House updated", dto.UpdateHouseResponse{
		House:         res.House,
		StatusChanged: res.StatusChanged,
		Projects:      res.Projects,
	})
}

// DELETE /api/a/houses/:id
func (ctl *HouseController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	res, err := service.DeleteHouse(c.UserContext(), ctl.DB, id)
	if err != nil {
		return houseError(c, err)
	}

	// objek foto dihapus setelah commit; gagal hapus hanya di-log
	ctl.removeObjects(context.Background(), res.ObjectKeys)

	return helper.JsonDeleted(c, "House deleted", fiber.Map{
		"id":       res.HouseID,
		"images":   len(res.ObjectKeys),
		"projects": res.Projects,
	})
}

func (ctl *HouseController) removeObjects(ctx context.Context, keys []string) {
	if ctl.Store == nil {
		return
	}
	for _, k := range keys {
		if err := ctl.Store.Delete(ctx, k); err != nil {
			configs.Log.Warn("failed to delete image object", zap.String("key", k), zap.Error(err))
		}
	}
}
