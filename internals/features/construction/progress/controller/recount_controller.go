package controller

import (
	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/features/construction/progress/service"
	helper "housetrack_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RecountController struct {
	DB *gorm.DB
}

func NewRecountController(db *gorm.DB) *RecountController {
	return &RecountController{DB: db}
}

// POST /api/a/maintenance/recount
func (ctl *RecountController) Recount(c *fiber.Ctx) error {
	report, err := service.RecountAll(c.UserContext(), ctl.DB)
	if err != nil {
		configs.Log.Error("recount failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Recount failed")
	}
	return helper.JsonOK(c, "Recount finished", report)
}
