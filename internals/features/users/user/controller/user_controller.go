package controller

import (
	"errors"
	"strings"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/constants"
	"housetrack_backend/internals/features/users/user/dto"
	"housetrack_backend/internals/features/users/user/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

/*
=========================================================
GET /api/a/users
Query: role, active, q (user name / email), page, per_page
=========================================================
*/
func (uc *UserController) List(c *fiber.Ctx) error {
	tx := uc.DB.WithContext(c.UserContext()).Model(&model.UserModel{})

	if role := strings.ToLower(strings.TrimSpace(c.Query("role"))); role != "" {
		if !constants.IsValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid role filter")
		}
		tx = tx.Where("role = ?", role)
	}
	if active := strings.TrimSpace(c.Query("active")); active != "" {
		tx = tx.Where("is_active = ?", active == "true" || active == "1")
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(user_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}
	var rows []model.UserModel
	if err := tx.Order("created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch users")
	}

	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

// GET /api/a/users/:id
func (uc *UserController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	u, err := uc.find(c, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*u))
}

// PATCH /api/a/users/:id/role
func (uc *UserController) UpdateRole(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	if err := uc.guardSelf(c, id); err != nil {
		return helper.FromError(c, err)
	}

	u, err := uc.update(c, id, map[string]any{"role": req.Role})
	if err != nil {
		return helper.FromError(c, err)
	}
	configs.Log.Info("🔑 user role changed",
		zap.String("user_id", id.String()),
		zap.String("role", req.Role),
	)
	return helper.JsonUpdated(c, "Role updated", dto.FromModel(*u))
}

// PATCH /api/a/users/:id/active
func (uc *UserController) UpdateActive(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	if err := uc.guardSelf(c, id); err != nil {
		return helper.FromError(c, err)
	}

	u, err := uc.update(c, id, map[string]any{"is_active": *req.IsActive})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Active flag updated", dto.FromModel(*u))
}

// guardSelf: admin tidak boleh menurunkan / menonaktifkan dirinya sendiri
func (uc *UserController) guardSelf(c *fiber.Ctx, target uuid.UUID) error {
	caller, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if caller == target {
		return fiber.NewError(fiber.StatusBadRequest, "You cannot change your own role or active flag")
	}
	return nil
}

func (uc *UserController) find(c *fiber.Ctx, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, helper.MapDBError(err, "User not found")
	}
	return &u, nil
}

func (uc *UserController) update(c *fiber.Ctx, id uuid.UUID, patch map[string]any) (*model.UserModel, error) {
	if _, err := uc.find(c, id); err != nil {
		return nil, err
	}
	if err := uc.DB.WithContext(c.UserContext()).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(patch).Error; err != nil {
		return nil, helper.MapDBError(err, "User not found")
	}
	return uc.find(c, id)
}
