package controller

import (
	"strings"

	"housetrack_backend/internals/configs"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	progressService "housetrack_backend/internals/features/construction/progress/service"
	"housetrack_backend/internals/features/construction/projects/dto"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectController struct {
	DB *gorm.DB
}

func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{DB: db}
}

var projectSortColumns = map[string]string{
	"createdAt": "project_created_at",
	"name":      "project_name",
	"startDate": "project_start_date",
}

/*
=========================================================
GET /api/u/projects
Query: q (nama/lokasi), sort_by, order, page, per_page
=========================================================
*/
func (ctl *ProjectController) List(c *fiber.Ctx) error {
	tx := ctl.DB.WithContext(c.UserContext()).Model(&projectModel.ProjectModel{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(project_name) LIKE ? OR LOWER(COALESCE(project_location, '')) LIKE ?", like, like)
	}

	orderBy, err := helper.ResolveSort(c, "createdAt", "desc").OrderClause(projectSortColumns)
	if err != nil {
		return helper.FromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count projects")
	}
	var rows []projectModel.ProjectModel
	if err := tx.Order(orderBy).
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch projects")
	}

	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", rows, &pg)
}

// GET /api/u/projects/:id  (dengan ringkasan rumah)
func (ctl *ProjectController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	db := ctl.DB.WithContext(c.UserContext())

	var p projectModel.ProjectModel
	if err := db.First(&p, "project_id = ?", id).Error; err != nil {
		return helper.FromError(c, helper.MapDBError(err, "Project not found"))
	}

	var houses []dto.HouseBrief
	if err := db.Model(&houseModel.HouseModel{}).
		Select("house_id, house_name, house_coto, house_status, house_progress").
		Where("house_project_id = ?", id).
		Order("house_name ASC").
		Scan(&houses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch houses")
	}

	var sum dto.HousesSummary
	for _, h := range houses {
		switch h.Status {
		case houseModel.HouseStatusCompleted:
			sum.Completed++
		case houseModel.HouseStatusDelayed:
			sum.Delayed++
		default:
			sum.InProgress++
		}
	}
	sum.Total = len(houses)
	if houses == nil {
		houses = []dto.HouseBrief{}
	}

	return helper.JsonOK(c, "ok", dto.ProjectDetailResponse{
		ProjectModel: p,
		Progress:     progressService.Progress(p.ProjectHousesCompleted, p.ProjectTotalHouses),
		Summary:      sum,
		Houses:       houses,
	})
}

// POST /api/a/projects
func (ctl *ProjectController) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
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

	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.FromError(c, helper.MapDBError(err, "Project not found"))
	}
	return helper.JsonCreated(c, "Project created", m)
}

// PATCH /api/a/projects/:id
func (ctl *ProjectController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}

	var p projectModel.ProjectModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "project_id = ?", id).Error; err != nil {
			return helper.MapDBError(err, "Project not found")
		}
		cols, err := req.Apply(&p)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := tx.Model(&projectModel.ProjectModel{}).Where("project_id = ?", id).Updates(cols).Error; err != nil {
			return helper.MapDBError(err, "Project not found")
		}
		return tx.First(&p, "project_id = ?", id).Error
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Project updated", p)
}

// DELETE /api/a/projects/:id  (rumah tetap ada, projectId dikosongkan)
func (ctl *ProjectController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var detached int64
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var p projectModel.ProjectModel
		if err := tx.First(&p, "project_id = ?", id).Error; err != nil {
			return helper.MapDBError(err, "Project not found")
		}
		res := tx.Model(&houseModel.HouseModel{}).
			Where("house_project_id = ?", id).
			Update("house_project_id", nil)
		if res.Error != nil {
			return res.Error
		}
		detached = res.RowsAffected
		return tx.Delete(&projectModel.ProjectModel{}, "project_id = ?", id).Error
	})
	if err != nil {
		return helper.FromError(c, helper.MapDBError(err, "Project not found"))
	}

	configs.Log.Info("project deleted", zap.String("project_id", id.String()), zap.Int64("houses_detached", detached))
	return helper.JsonDeleted(c, "Project deleted", fiber.Map{"id": id, "housesDetached": detached})
}
