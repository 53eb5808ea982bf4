package service

import (
	"context"
	"errors"

	"housetrack_backend/internals/configs"
	activityModel "housetrack_backend/internals/features/construction/activities/model"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	imageModel "housetrack_backend/internals/features/construction/images/model"
	progressService "housetrack_backend/internals/features/construction/progress/service"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const activityBatchSize = 200

var (
	ErrNoActiveTemplates = errors.New("no active activity templates; seed or activate templates first")
	ErrProjectNotFound   = errors.New("project not found")
	ErrHouseNotFound     = progressService.ErrHouseNotFound
	ErrInvalidStatus     = errors.New("status must be one of: in_progress, completed, delayed")
)

type CreateHouseInput struct {
	ProjectID   *uuid.UUID
	Coto        *string
	Name        string
	Model       *string
	Status      string
	Description *string
	HouseImage  *string
	M2Const     *float64
}

type CreateHouseResult struct {
	House         houseModel.HouseModel
	ActivityCount int
	Projects      []projectModel.ProjectModel
}

func projectExists(tx *gorm.DB, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&projectModel.ProjectModel{}).Where("project_id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// CreateHouse inserts the house and one pending activity per active template in
// a single transaction. Nothing is written when no active template exists.
func CreateHouse(ctx context.Context, db *gorm.DB, in CreateHouseInput) (*CreateHouseResult, error) {
	if in.Status == "" {
		in.Status = houseModel.HouseStatusInProgress
	}
	if !houseModel.IsValidHouseStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	res := &CreateHouseResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := projectExists(tx, in.ProjectID); err != nil {
			return err
		}

		var templates []activityModel.ActivityModel
		if err := tx.Select("activity_id", "activity_number").
			Where("activity_is_active = ?", true).
			Order("activity_number ASC").
			Find(&templates).Error; err != nil {
			return err
		}
		if len(templates) == 0 {
			return ErrNoActiveTemplates
		}

		house := houseModel.HouseModel{
			HouseProjectID:       in.ProjectID,
			HouseCoto:            in.Coto,
			HouseName:            in.Name,
			HouseModelName:       in.Model,
			HouseStatus:          in.Status,
			HouseDescription:     in.Description,
			HouseImage:           in.HouseImage,
			HouseM2Const:         in.M2Const,
			HouseTotalActivities: len(templates),
		}
		if err := tx.Create(&house).Error; err != nil {
			return err
		}

		rows := make([]haModel.HouseActivityModel, len(templates))
		for i, t := range templates {
			rows[i] = haModel.HouseActivityModel{
				HouseActivityHouseID:    house.HouseID,
				HouseActivityActivityID: t.ActivityID,
				HouseActivityStatus:     string(workflow.StatusPending),
			}
		}
		if err := tx.CreateInBatches(&rows, activityBatchSize).Error; err != nil {
			return err
		}

		if err := progressService.AdjustTotalHouses(tx, house.HouseProjectID, 1); err != nil {
			return err
		}
		touched, err := progressService.ApplyHouseTransition(tx, nil, "", house.HouseProjectID, house.HouseStatus)
		if err != nil {
			return err
		}
		if house.HouseProjectID != nil {
			touched = append(touched, *house.HouseProjectID)
		}
		projects, err := progressService.LoadProjects(tx, touched)
		if err != nil {
			return err
		}

		res.House = house
		res.ActivityCount = len(rows)
		res.Projects = projects
		return nil
	})
	if err != nil {
		return nil, err
	}

	configs.Log.Info("house created",
		zap.String("house_id", res.House.HouseID.String()),
		zap.Int("activities", res.ActivityCount),
	)
	return res, nil
}

type UpdateHouseInput struct {
	ProjectID   helper.Nullable[uuid.UUID]
	Coto        helper.Nullable[string]
	Name        *string
	Model       helper.Nullable[string]
	Status      *string
	Description helper.Nullable[string]
	HouseImage  helper.Nullable[string]
	M2Const     helper.Nullable[float64]
}

func (in UpdateHouseInput) Empty() bool {
	return !in.ProjectID.Set && !in.Coto.Set && in.Name == nil && !in.Model.Set &&
		in.Status == nil && !in.Description.Set && !in.HouseImage.Set && !in.M2Const.Set
}

type UpdateHouseResult struct {
	House         houseModel.HouseModel
	StatusChanged bool
	Projects      []projectModel.ProjectModel
}

// UpdateHouse applies metadata, an imperative status and project reassignment.
// project.totalHouses and project.housesCompleted follow the change in the same transaction.
func UpdateHouse(ctx context.Context, db *gorm.DB, id uuid.UUID, in UpdateHouseInput) (*UpdateHouseResult, error) {
	if in.Status != nil && !houseModel.IsValidHouseStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}

	res := &UpdateHouseResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var house houseModel.HouseModel
		if err := tx.First(&house, "house_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}
		oldProject, oldStatus := house.HouseProjectID, house.HouseStatus

		if in.ProjectID.Set {
			if err := projectExists(tx, in.ProjectID.Value); err != nil {
				return err
			}
			house.HouseProjectID = in.ProjectID.Value
		}
		if in.Coto.Set {
			house.HouseCoto = in.Coto.Value
		}
		if in.Name != nil {
			house.HouseName = *in.Name
		}
		if in.Model.Set {
			house.HouseModelName = in.Model.Value
		}
		if in.Status != nil {
			house.HouseStatus = *in.Status
		}
		if in.Description.Set {
			house.HouseDescription = in.Description.Value
		}
		if in.HouseImage.Set {
			house.HouseImage = in.HouseImage.Value
		}
		if in.M2Const.Set {
			house.HouseM2Const = in.M2Const.Value
		}

		if err := tx.Model(&houseModel.HouseModel{}).Where("house_id = ?", id).Updates(map[string]any{
			"house_project_id":  house.HouseProjectID,
			"house_coto":        house.HouseCoto,
			"house_name":        house.HouseName,
			"house_model":       house.HouseModelName,
			"house_status":      house.HouseStatus,
			"house_description": house.HouseDescription,
			"house_image":       house.HouseImage,
			"house_m2const":     house.HouseM2Const,
		}).Error; err != nil {
			return err
		}

		var touched []uuid.UUID
		if !sameProject(oldProject, house.HouseProjectID) {
			if err := progressService.AdjustTotalHouses(tx, oldProject, -1); err != nil {
				return err
			}
			if err := progressService.AdjustTotalHouses(tx, house.HouseProjectID, 1); err != nil {
				return err
			}
			touched = appendProject(touched, oldProject)
			touched = appendProject(touched, house.HouseProjectID)
		}
		rolled, err := progressService.ApplyHouseTransition(tx, oldProject, oldStatus, house.HouseProjectID, house.HouseStatus)
		if err != nil {
			return err
		}
		touched = append(touched, rolled...)

		projects, err := progressService.LoadProjects(tx, touched)
		if err != nil {
			return err
		}
		if err := tx.First(&house, "house_id = ?", id).Error; err != nil {
			return err
		}

		res.House = house
		res.StatusChanged = oldStatus != house.HouseStatus
		res.Projects = projects
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type DeleteHouseResult struct {
	HouseID    uuid.UUID
	ObjectKeys []string // image objects to remove from blob storage after commit
	Projects   []projectModel.ProjectModel
}

// DeleteHouse removes the house with its activities and their image rows.
func DeleteHouse(ctx context.Context, db *gorm.DB, id uuid.UUID) (*DeleteHouseResult, error) {
	res := &DeleteHouseResult{HouseID: id}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var house houseModel.HouseModel
		if err := tx.First(&house, "house_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}

		var activityIDs []uuid.UUID
		if err := tx.Model(&haModel.HouseActivityModel{}).
			Where("house_activity_house_id = ?", id).
			Pluck("house_activity_id", &activityIDs).Error; err != nil {
			return err
		}
		if len(activityIDs) > 0 {
			if err := tx.Model(&imageModel.ImageModel{}).
				Where("image_house_activity_id IN ?", activityIDs).
				Pluck("image_object_key", &res.ObjectKeys).Error; err != nil {
				return err
			}
			if err := tx.Where("image_house_activity_id IN ?", activityIDs).
				Delete(&imageModel.ImageModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("house_activity_house_id = ?", id).
			Delete(&haModel.HouseActivityModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&houseModel.HouseModel{}, "house_id = ?", id).Error; err != nil {
			return err
		}

		if err := progressService.AdjustTotalHouses(tx, house.HouseProjectID, -1); err != nil {
			return err
		}
		touched, err := progressService.ApplyHouseTransition(tx, house.HouseProjectID, house.HouseStatus, nil, "")
		if err != nil {
			return err
		}
		touched = appendProject(touched, house.HouseProjectID)
		projects, err := progressService.LoadProjects(tx, touched)
		if err != nil {
			return err
		}
		res.Projects = projects
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func sameProject(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func appendProject(ids []uuid.UUID, id *uuid.UUID) []uuid.UUID {
	if id == nil {
		return ids
	}
	return append(ids, *id)
}
