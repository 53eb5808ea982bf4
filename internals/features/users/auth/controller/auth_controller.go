package controller

import (
	"strings"

	"housetrack_backend/internals/features/users/auth/service"
	userModel "housetrack_backend/internals/features/users/user/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB        *gorm.DB
	Blacklist service.BlacklistStore
}

func NewAuthController(db *gorm.DB, blacklist service.BlacklistStore) *AuthController {
	return &AuthController{DB: db, Blacklist: blacklist}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.DB, c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	return service.LoginGoogle(ac.DB, c)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, ac.Blacklist, c)
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	return service.Me(ac.DB, c)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(ac.DB, c)
}

func (ac *AuthController) UpdateUserName(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req struct {
		UserName string `json:"userName" validate:"required,min=3,max=50"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.UserName = strings.TrimSpace(req.UserName)
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	var n int64
	if err := ac.DB.Model(&userModel.UserModel{}).
		Where("user_name = ? AND id <> ?", req.UserName, userID).
		Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check user name")
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "User name already taken")
	}

	if err := ac.DB.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("user_name", req.UserName).Error; err != nil {
		return helper.FromError(c, helper.MapDBError(err, "User not found"))
	}
	return helper.JsonUpdated(c, "User name updated", fiber.Map{"userName": req.UserName})
}
