package service

import (
	"context"
	"errors"
	"math"

	"housetrack_backend/internals/configs"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	"housetrack_backend/internals/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrHouseNotFound = errors.New("house not found")

/* ==========================
   Pure helpers
========================== */

// Progress returns completed/total*100 rounded to 2 decimals, 0 when total is 0.
func Progress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}

// NextHouseStatus only ever flips between completed and in_progress.
func NextHouseStatus(completed, total int, current string) string {
	switch {
	case total > 0 && completed == total && current != houseModel.HouseStatusCompleted:
		return houseModel.HouseStatusCompleted
	case completed < total && current == houseModel.HouseStatusCompleted:
		return houseModel.HouseStatusInProgress
	default:
		return current
	}
}

// AffectsProgress reports whether an activity status change moves into or out of completed.
func AffectsProgress(from, to workflow.Status) bool {
	return from != to && (from == workflow.StatusCompleted || to == workflow.StatusCompleted)
}

/* ==========================
   House rollup
========================== */

func sameProject(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ApplyHouseTransition keeps project.housesCompleted in step with a house moving
// from (oldProject, oldStatus) to (newProject, newStatus). It returns the ids of
// the projects it touched.
func ApplyHouseTransition(tx *gorm.DB, oldProject *uuid.UUID, oldStatus string, newProject *uuid.UUID, newStatus string) ([]uuid.UUID, error) {
	wasCompleted := oldProject != nil && oldStatus == houseModel.HouseStatusCompleted
	isCompleted := newProject != nil && newStatus == houseModel.HouseStatusCompleted

	if wasCompleted && isCompleted && sameProject(oldProject, newProject) {
		return nil, nil
	}

	var touched []uuid.UUID
	if wasCompleted {
		if err := decrementCompleted(tx, *oldProject); err != nil {
			return nil, err
		}
		touched = append(touched, *oldProject)
	}
	if isCompleted {
		if err := incrementCompleted(tx, *newProject); err != nil {
			return nil, err
		}
		touched = append(touched, *newProject)
	}
	return touched, nil
}

func incrementCompleted(tx *gorm.DB, projectID uuid.UUID) error {
	err := tx.Model(&projectModel.ProjectModel{}).
		Where("project_id = ?", projectID).
		Update("project_houses_completed", gorm.Expr("project_houses_completed + 1")).Error
	if err == nil {
		metrics.RecordRollup("increment")
	}
	return err
}

// decrementCompleted never goes below 0.
func decrementCompleted(tx *gorm.DB, projectID uuid.UUID) error {
	err := tx.Model(&projectModel.ProjectModel{}).
		Where("project_id = ?", projectID).
		Update("project_houses_completed",
			gorm.Expr("CASE WHEN project_houses_completed > 0 THEN project_houses_completed - 1 ELSE 0 END")).Error
	if err == nil {
		metrics.RecordRollup("decrement")
	}
	return err
}

// AdjustTotalHouses adds delta to project.totalHouses, floored at 0. nil project is a no-op.
func AdjustTotalHouses(tx *gorm.DB, projectID *uuid.UUID, delta int) error {
	if projectID == nil || delta == 0 {
		return nil
	}
	expr := gorm.Expr("project_total_houses + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN project_total_houses + ? > 0 THEN project_total_houses + ? ELSE 0 END", delta, delta)
	}
	return tx.Model(&projectModel.ProjectModel{}).
		Where("project_id = ?", *projectID).
		Update("project_total_houses", expr).Error
}

// LoadProjects returns the given projects in id order of the input, skipping missing ones.
func LoadProjects(tx *gorm.DB, ids []uuid.UUID) ([]projectModel.ProjectModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []projectModel.ProjectModel
	if err := tx.Where("project_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]projectModel.ProjectModel, len(rows))
	for _, r := range rows {
		byID[r.ProjectID] = r
	}
	out := make([]projectModel.ProjectModel, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if p, ok := byID[id]; ok && !seen[id] {
			out = append(out, p)
			seen[id] = true
		}
	}
	return out, nil
}

/* ==========================
   Activity → house
========================== */

type HouseRecalc struct {
	House           houseModel.HouseModel
	PreviousStatus  string
	StatusChanged   bool
	TouchedProjects []uuid.UUID
}

// RecalculateHouse recounts the completed activities of a house, persists
// completedActivities and progress, flips the house status when needed and
// rolls a status flip up to the project. tx must be a transaction.
func RecalculateHouse(ctx context.Context, tx *gorm.DB, houseID uuid.UUID) (*HouseRecalc, error) {
	var house houseModel.HouseModel
	if err := tx.WithContext(ctx).First(&house, "house_id = ?", houseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}

	var completed int64
	if err := tx.WithContext(ctx).Model(&haModel.HouseActivityModel{}).
		Where("house_activity_house_id = ? AND house_activity_status = ?", houseID, string(workflow.StatusCompleted)).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	total := house.HouseTotalActivities
	out := &HouseRecalc{PreviousStatus: house.HouseStatus}
	nextStatus := NextHouseStatus(int(completed), total, house.HouseStatus)

	house.HouseCompletedActivities = int(completed)
	house.HouseProgress = Progress(int(completed), total)
	house.HouseStatus = nextStatus

	if err := tx.WithContext(ctx).Model(&houseModel.HouseModel{}).
		Where("house_id = ?", houseID).
		Updates(map[string]any{
			"house_completed_activities": house.HouseCompletedActivities,
			"house_progress":             house.HouseProgress,
			"house_status":               house.HouseStatus,
		}).Error; err != nil {
		return nil, err
	}

	if nextStatus != out.PreviousStatus {
		out.StatusChanged = true
		touched, err := ApplyHouseTransition(tx.WithContext(ctx), house.HouseProjectID, out.PreviousStatus, house.HouseProjectID, nextStatus)
		if err != nil {
			return nil, err
		}
		out.TouchedProjects = touched
		configs.Log.Info("house status flipped",
			zap.String("house_id", houseID.String()),
			zap.String("from", out.PreviousStatus),
			zap.String("to", nextStatus),
			zap.Int64("completed", completed),
			zap.Int("total", total),
		)
	}

	out.House = house
	return out, nil
}
