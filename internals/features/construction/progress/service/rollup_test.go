package service_test

import (
	"context"
	"testing"

	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	"housetrack_backend/internals/features/construction/progress/service"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	"housetrack_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
		{1, 8, 12.5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, service.Progress(tc.completed, tc.total), "%d/%d", tc.completed, tc.total)
	}
}

func TestNextHouseStatus(t *testing.T) {
	const (
		inProgress = houseModel.HouseStatusInProgress
		completed  = houseModel.HouseStatusCompleted
		delayed    = houseModel.HouseStatusDelayed
	)
	cases := []struct {
		name             string
		completed, total int
		current, want    string
	}{
		{"all done flips to completed", 3, 3, inProgress, completed},
		{"delayed also completes", 2, 2, delayed, completed},
		{"already completed stays", 3, 3, completed, completed},
		{"regression reopens", 2, 3, completed, inProgress},
		{"partial keeps delayed", 1, 3, delayed, delayed},
		{"no activities never completes", 0, 0, inProgress, inProgress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.NextHouseStatus(tc.completed, tc.total, tc.current))
		})
	}
}

func TestAffectsProgress(t *testing.T) {
	assert.True(t, service.AffectsProgress(workflow.StatusReview, workflow.StatusCompleted))
	assert.True(t, service.AffectsProgress(workflow.StatusCompleted, workflow.StatusBlocked))
	assert.False(t, service.AffectsProgress(workflow.StatusPending, workflow.StatusReview))
	assert.False(t, service.AffectsProgress(workflow.StatusCompleted, workflow.StatusCompleted))
}

func seedHouse(t *testing.T, db *gorm.DB, project *uuid.UUID, status string, activities int) houseModel.HouseModel {
	t.Helper()
	h := houseModel.HouseModel{
		HouseProjectID:       project,
		HouseName:            "H-" + uuid.NewString()[:6],
		HouseStatus:          status,
		HouseTotalActivities: activities,
	}
	require.NoError(t, db.Create(&h).Error)
	for i := 0; i < activities; i++ {
		require.NoError(t, db.Create(&haModel.HouseActivityModel{
			HouseActivityHouseID:    h.HouseID,
			HouseActivityActivityID: uuid.New(),
			HouseActivityStatus:     string(workflow.StatusPending),
		}).Error)
	}
	return h
}

func TestApplyHouseTransition(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateProject(t, db, "A")
	b := testutil.CreateProject(t, db, "B")
	const (
		inProgress = houseModel.HouseStatusInProgress
		completed  = houseModel.HouseStatusCompleted
	)

	run := func(oldP *uuid.UUID, oldS string, newP *uuid.UUID, newS string) []uuid.UUID {
		var touched []uuid.UUID
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			var err error
			touched, err = service.ApplyHouseTransition(tx, oldP, oldS, newP, newS)
			return err
		}))
		return touched
	}
	completedOf := func(id uuid.UUID) int { return testutil.ReloadProject(t, db, id).ProjectHousesCompleted }

	assert.ElementsMatch(t, []uuid.UUID{a.ProjectID}, run(&a.ProjectID, inProgress, &a.ProjectID, completed))
	assert.Equal(t, 1, completedOf(a.ProjectID))

	// completed house moves from A to B
	assert.ElementsMatch(t, []uuid.UUID{a.ProjectID, b.ProjectID}, run(&a.ProjectID, completed, &b.ProjectID, completed))
	assert.Equal(t, 0, completedOf(a.ProjectID))
	assert.Equal(t, 1, completedOf(b.ProjectID))

	// no status or project change: nothing touched
	assert.Empty(t, run(&b.ProjectID, completed, &b.ProjectID, completed))
	assert.Empty(t, run(nil, inProgress, nil, completed))

	// floor at zero
	run(&a.ProjectID, completed, &a.ProjectID, inProgress)
	assert.Equal(t, 0, completedOf(a.ProjectID))
}

func TestAdjustTotalHouses(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.CreateProject(t, db, "P")

	require.NoError(t, service.AdjustTotalHouses(db, &p.ProjectID, 1))
	require.NoError(t, service.AdjustTotalHouses(db, &p.ProjectID, 1))
	require.NoError(t, service.AdjustTotalHouses(db, &p.ProjectID, -3))
	require.NoError(t, service.AdjustTotalHouses(db, nil, 1))

	assert.Equal(t, 0, testutil.ReloadProject(t, db, p.ProjectID).ProjectTotalHouses)
}

func TestRecalculateHouse(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.CreateProject(t, db, "P")
	h := seedHouse(t, db, &p.ProjectID, houseModel.HouseStatusInProgress, 2)

	require.NoError(t, db.Model(&haModel.HouseActivityModel{}).
		Where("house_activity_house_id = ?", h.HouseID).
		Update("house_activity_status", string(workflow.StatusCompleted)).Error)

	var out *service.HouseRecalc
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = service.RecalculateHouse(context.Background(), tx, h.HouseID)
		return err
	}))
	assert.True(t, out.StatusChanged)
	assert.Equal(t, houseModel.HouseStatusCompleted, out.House.HouseStatus)
	assert.Equal(t, 100.0, out.House.HouseProgress)
	assert.Equal(t, []uuid.UUID{p.ProjectID}, out.TouchedProjects)
	assert.Equal(t, 1, testutil.ReloadProject(t, db, p.ProjectID).ProjectHousesCompleted)

	// running again changes nothing
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = service.RecalculateHouse(context.Background(), tx, h.HouseID)
		return err
	}))
	assert.False(t, out.StatusChanged)
	assert.Equal(t, 1, testutil.ReloadProject(t, db, p.ProjectID).ProjectHousesCompleted)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := service.RecalculateHouse(context.Background(), tx, uuid.New())
		return err
	})
	assert.ErrorIs(t, err, service.ErrHouseNotFound)
}

func TestRecountAll_RepairsDriftOnce(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.CreateProject(t, db, "P")
	done := seedHouse(t, db, &p.ProjectID, houseModel.HouseStatusInProgress, 2)
	open := seedHouse(t, db, &p.ProjectID, houseModel.HouseStatusCompleted, 4)

	require.NoError(t, db.Model(&haModel.HouseActivityModel{}).
		Where("house_activity_house_id = ?", done.HouseID).
		Update("house_activity_status", string(workflow.StatusCompleted)).Error)
	var first haModel.HouseActivityModel
	require.NoError(t, db.Where("house_activity_house_id = ?", open.HouseID).First(&first).Error)
	require.NoError(t, db.Model(&haModel.HouseActivityModel{}).
		Where("house_activity_id = ?", first.HouseActivityID).
		Update("house_activity_status", string(workflow.StatusCompleted)).Error)
	require.NoError(t, db.Model(&projectModel.ProjectModel{}).
		Where("project_id = ?", p.ProjectID).
		Updates(map[string]any{"project_houses_completed": 7, "project_total_houses": 0}).Error)

	report, err := service.RecountAll(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 2, report.HousesScanned)
	assert.Equal(t, 2, report.HousesRepaired)
	assert.Equal(t, 1, report.ProjectsRepaired)

	d := testutil.ReloadHouse(t, db, done.HouseID)
	assert.Equal(t, houseModel.HouseStatusCompleted, d.HouseStatus)
	assert.Equal(t, 2, d.HouseCompletedActivities)
	assert.Equal(t, 100.0, d.HouseProgress)

	o := testutil.ReloadHouse(t, db, open.HouseID)
	assert.Equal(t, houseModel.HouseStatusInProgress, o.HouseStatus)
	assert.Equal(t, 1, o.HouseCompletedActivities)
	assert.Equal(t, 25.0, o.HouseProgress)

	proj := testutil.ReloadProject(t, db, p.ProjectID)
	assert.Equal(t, 1, proj.ProjectHousesCompleted)
	assert.Equal(t, 2, proj.ProjectTotalHouses)

	again, err := service.RecountAll(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, again.HousesRepaired)
	assert.Zero(t, again.ProjectsRepaired)
}
