package controller

import (
	"errors"
	"strings"

	"housetrack_backend/internals/features/construction/house_activities/dto"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	"housetrack_backend/internals/features/construction/house_activities/service"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	helper "housetrack_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HouseActivityController struct {
	DB *gorm.DB
}

func NewHouseActivityController(db *gorm.DB) *HouseActivityController {
	return &HouseActivityController{DB: db}
}

/*
=========================================================
GET /api/u/house-activities/:id
=========================================================
*/
func (ctl *HouseActivityController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var row haModel.HouseActivityModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&row, "house_activity_id = ?", id).Error; err != nil {
		return helper.FromError(c, helper.MapDBError(err, "House activity not found"))
	}
	return helper.JsonOK(c, "ok", dto.FromModel(row))
}

/*
=========================================================
GET /api/u/house-activities
Query:
  - mine=true    hanya yang di-assign ke caller
  - houseId
  - status
  - page, per_page
=========================================================
*/
func (ctl *HouseActivityController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	houseID, err := helper.ParseUUIDQuery(c, "houseId")
	if err != nil {
		return helper.FromError(c, err)
	}

	tx := ctl.DB.WithContext(c.UserContext()).Model(&haModel.HouseActivityModel{})

	if strings.EqualFold(strings.TrimSpace(c.Query("mine")), "true") {
		tx = tx.Where("house_activity_app_user_id = ?", userID)
	}
	if houseID != nil {
		tx = tx.Where("house_activity_house_id = ?", *houseID)
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, err := workflow.ParseStatus(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		tx = tx.Where("house_activity_status = ?", string(st))
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count house activities")
	}

	var rows []haModel.HouseActivityModel
	if err := tx.
		Order("house_activity_updated_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch house activities")
	}

	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

/*
=========================================================
PATCH /api/u/house-activities/:id
Body parsial; field yang tidak dikirim tidak disentuh, null = clear.
=========================================================
*/
func (ctl *HouseActivityController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.UpdateHouseActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	patch, err := req.ToPatch()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	out, err := service.UpdateHouseActivity(c.UserContext(), ctl.DB, service.UpdateInput{
		ID:       id,
		CallerID: userID,
		Role:     helper.GetRole(c),
		Patch:    patch,
	})
	if err != nil {
		return updateError(c, err)
	}
	return helper.JsonUpdated(c, "House activity updated", dto.FromOutcome(out))
}

func updateError(c *fiber.Ctx, err error) error {
	var fe *workflow.ForbiddenFieldsError
	switch {
	case errors.As(err, &fe):
		return helper.JsonErrorData(c, fiber.StatusForbidden, fe.Error(), fiber.Map{"fields": fe.Fields})
	case errors.Is(err, workflow.ErrNoChanges):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrNotAssignee), errors.Is(err, workflow.ErrAssignOthers):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrActivityNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "House activity not found")
	case errors.Is(err, service.ErrAssigneeNotFound), errors.Is(err, service.ErrApproverInvalid):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		return helper.FromError(c, helper.MapDBError(err, "House activity not found"))
	}
}
