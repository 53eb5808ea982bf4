package service

import (
	"context"
	"math"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	"housetrack_backend/internals/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RecountReport struct {
	HousesScanned    int         `json:"housesScanned"`
	HousesRepaired   int         `json:"housesRepaired"`
	ProjectsScanned  int         `json:"projectsScanned"`
	ProjectsRepaired int         `json:"projectsRepaired"`
	RepairedHouses   []uuid.UUID `json:"repairedHouses,omitempty"`
	RepairedProjects []uuid.UUID `json:"repairedProjects,omitempty"`
}

type activityAgg struct {
	HouseID   uuid.UUID
	Total     int
	Completed int
}

type houseAgg struct {
	ProjectID uuid.UUID
	Total     int
	Completed int
}

// RecountAll recomputes every house aggregate from its activities and every
// project aggregate from its houses, rewriting only rows that drifted.
// Running it twice in a row repairs nothing the second time.
func RecountAll(ctx context.Context, db *gorm.DB) (*RecountReport, error) {
	report := &RecountReport{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var aggs []activityAgg
		if err := tx.Raw(`
			SELECT house_activity_house_id AS house_id,
			       COUNT(*) AS total,
			       COALESCE(SUM(CASE WHEN house_activity_status = ? THEN 1 ELSE 0 END), 0) AS completed
			FROM house_activities
			GROUP BY house_activity_house_id`, string(workflow.StatusCompleted)).
			Scan(&aggs).Error; err != nil {
			return err
		}
		byHouse := make(map[uuid.UUID]activityAgg, len(aggs))
		for _, a := range aggs {
			byHouse[a.HouseID] = a
		}

		var houses []houseModel.HouseModel
		if err := tx.Order("house_created_at ASC").Find(&houses).Error; err != nil {
			return err
		}
		report.HousesScanned = len(houses)

		for _, h := range houses {
			a := byHouse[h.HouseID]
			status := NextHouseStatus(a.Completed, a.Total, h.HouseStatus)
			progress := Progress(a.Completed, a.Total)

			if h.HouseTotalActivities == a.Total &&
				h.HouseCompletedActivities == a.Completed &&
				math.Abs(h.HouseProgress-progress) < 0.005 &&
				h.HouseStatus == status {
				continue
			}
			if err := tx.Model(&houseModel.HouseModel{}).
				Where("house_id = ?", h.HouseID).
				Updates(map[string]any{
					"house_total_activities":     a.Total,
					"house_completed_activities": a.Completed,
					"house_progress":             progress,
					"house_status":               status,
				}).Error; err != nil {
				return err
			}
			report.HousesRepaired++
			report.RepairedHouses = append(report.RepairedHouses, h.HouseID)
			configs.Log.Warn("recount repaired house",
				zap.String("house_id", h.HouseID.String()),
				zap.Int("completed_was", h.HouseCompletedActivities),
				zap.Int("completed_now", a.Completed),
				zap.String("status_was", h.HouseStatus),
				zap.String("status_now", status),
			)
		}

		var hAggs []houseAgg
		if err := tx.Raw(`
			SELECT house_project_id AS project_id,
			       COUNT(*) AS total,
			       COALESCE(SUM(CASE WHEN house_status = ? THEN 1 ELSE 0 END), 0) AS completed
			FROM houses
			WHERE house_project_id IS NOT NULL
			GROUP BY house_project_id`, houseModel.HouseStatusCompleted).
			Scan(&hAggs).Error; err != nil {
			return err
		}
		byProject := make(map[uuid.UUID]houseAgg, len(hAggs))
		for _, a := range hAggs {
			byProject[a.ProjectID] = a
		}

		var projects []projectModel.ProjectModel
		if err := tx.Order("project_created_at ASC").Find(&projects).Error; err != nil {
			return err
		}
		report.ProjectsScanned = len(projects)

		for _, p := range projects {
			a := byProject[p.ProjectID]
			if p.ProjectTotalHouses == a.Total && p.ProjectHousesCompleted == a.Completed {
				continue
			}
			if err := tx.Model(&projectModel.ProjectModel{}).
				Where("project_id = ?", p.ProjectID).
				Updates(map[string]any{
					"project_total_houses":     a.Total,
					"project_houses_completed": a.Completed,
				}).Error; err != nil {
				return err
			}
			report.ProjectsRepaired++
			report.RepairedProjects = append(report.RepairedProjects, p.ProjectID)
			configs.Log.Warn("recount repaired project",
				zap.String("project_id", p.ProjectID.String()),
				zap.Int("completed_was", p.ProjectHousesCompleted),
				zap.Int("completed_now", a.Completed),
				zap.Int("total_was", p.ProjectTotalHouses),
				zap.Int("total_now", a.Total),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRecountRepairs("house", report.HousesRepaired)
	metrics.RecordRecountRepairs("project", report.ProjectsRepaired)
	configs.Log.Info("✅ recount finished",
		zap.Int("houses_scanned", report.HousesScanned),
		zap.Int("houses_repaired", report.HousesRepaired),
		zap.Int("projects_scanned", report.ProjectsScanned),
		zap.Int("projects_repaired", report.ProjectsRepaired),
	)
	return report, nil
}
