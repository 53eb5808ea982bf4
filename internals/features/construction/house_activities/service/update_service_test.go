package service_test

import (
	"context"
	"testing"
	"time"

	"housetrack_backend/internals/constants"
	"housetrack_backend/internals/features/construction/house_activities/service"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	houseService "housetrack_backend/internals/features/construction/houses/service"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	"housetrack_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	project  projectModel.ProjectModel
	house    houseModel.HouseModel
	reviewer uuid.UUID
	acts     []uuid.UUID
}

func newFixture(t *testing.T, templates int) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.CreateTemplates(t, db, templates)
	project := testutil.CreateProject(t, db, "Lomas del Sol")
	reviewer := testutil.CreateUser(t, db, constants.RoleReviewer)

	res, err := houseService.CreateHouse(context.Background(), db, houseService.CreateHouseInput{
		ProjectID: &project.ProjectID,
		Name:      "Lot 12",
	})
	require.NoError(t, err)

	f := fixture{db: db, project: project, house: res.House, reviewer: reviewer.ID}
	for _, a := range testutil.HouseActivities(t, db, res.House.HouseID) {
		f.acts = append(f.acts, a.HouseActivityID)
	}
	require.Len(t, f.acts, templates)
	return f
}

func (f fixture) approve(t *testing.T, id uuid.UUID) *service.Outcome {
	t.Helper()
	out, err := service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID:       id,
		CallerID: f.reviewer,
		Role:     constants.RoleReviewer,
		Patch: workflow.Patch{
			CompletionDate: workflow.Set(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
			ApprovedByID:   workflow.Set(f.reviewer),
		},
	})
	require.NoError(t, err)
	return out
}

func TestUpdate_CompletingAllActivitiesCompletesHouseOnce(t *testing.T) {
	f := newFixture(t, 3)

	for i, id := range f.acts {
		out := f.approve(t, id)
		assert.Equal(t, string(workflow.StatusCompleted), out.Activity.HouseActivityStatus)
		assert.True(t, out.StatusChanged)
		require.NotNil(t, out.House)
		assert.Equal(t, i+1, out.House.HouseCompletedActivities)
	}

	house := testutil.ReloadHouse(t, f.db, f.house.HouseID)
	assert.Equal(t, houseModel.HouseStatusCompleted, house.HouseStatus)
	assert.Equal(t, 100.0, house.HouseProgress)
	assert.Equal(t, 3, house.HouseCompletedActivities)

	project := testutil.ReloadProject(t, f.db, f.project.ProjectID)
	assert.Equal(t, 1, project.ProjectHousesCompleted)
	assert.Equal(t, 1, project.ProjectTotalHouses)
}

func TestUpdate_ProgressRoundsToTwoDecimals(t *testing.T) {
	f := newFixture(t, 3)
	out := f.approve(t, f.acts[0])

	require.NotNil(t, out.House)
	assert.Equal(t, 33.33, out.House.HouseProgress)
	assert.Equal(t, houseModel.HouseStatusInProgress, out.House.HouseStatus)
	assert.Empty(t, out.Projects)
}

func TestUpdate_BlockingReopensCompletedHouse(t *testing.T) {
	f := newFixture(t, 3)
	for _, id := range f.acts {
		f.approve(t, id)
	}

	out, err := service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID:       f.acts[1],
		CallerID: f.reviewer,
		Role:     constants.RoleReviewer,
		Patch:    workflow.Patch{IsBlocked: workflow.Set(true)},
	})
	require.NoError(t, err)

	assert.Equal(t, string(workflow.StatusBlocked), out.Activity.HouseActivityStatus)
	assert.NotNil(t, out.Activity.HouseActivityCompletionDate)
	assert.NotNil(t, out.Activity.HouseActivityApprovedByID)
	assert.True(t, out.HouseChanged)
	require.Len(t, out.Projects, 1)
	assert.Equal(t, 0, out.Projects[0].ProjectHousesCompleted)

	house := testutil.ReloadHouse(t, f.db, f.house.HouseID)
	assert.Equal(t, 2, house.HouseCompletedActivities)
	assert.Equal(t, houseModel.HouseStatusInProgress, house.HouseStatus)
	assert.Equal(t, 66.67, house.HouseProgress)
}

func TestUpdate_DecrementFlooredAtZero(t *testing.T) {
	f := newFixture(t, 1)
	f.approve(t, f.acts[0])

	// simulate drift
	require.NoError(t, f.db.Model(&projectModel.ProjectModel{}).
		Where("project_id = ?", f.project.ProjectID).
		Update("project_houses_completed", 0).Error)

	_, err := service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID:       f.acts[0],
		CallerID: f.reviewer,
		Role:     constants.RoleAdmin,
		Patch:    workflow.Patch{RejectedRemarks: workflow.Set("cracked plaster")},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, testutil.ReloadProject(t, f.db, f.project.ProjectID).ProjectHousesCompleted)
	assert.Equal(t, houseModel.HouseStatusInProgress, testutil.ReloadHouse(t, f.db, f.house.HouseID).HouseStatus)
}

func TestUpdate_SamePayloadTwiceDoesNotDoubleCount(t *testing.T) {
	f := newFixture(t, 1)

	first := f.approve(t, f.acts[0])
	second := f.approve(t, f.acts[0])

	assert.True(t, first.StatusChanged)
	assert.False(t, second.StatusChanged)
	assert.Nil(t, second.House)
	assert.Equal(t, first.Activity.HouseActivityApprovalDate.Unix(), second.Activity.HouseActivityApprovalDate.Unix())
	assert.Equal(t, 1, testutil.ReloadProject(t, f.db, f.project.ProjectID).ProjectHousesCompleted)
	assert.Equal(t, 1, testutil.ReloadHouse(t, f.db, f.house.HouseID).HouseCompletedActivities)
}

func TestUpdate_SurveyorOnOthersActivityIsRejectedWithoutWrites(t *testing.T) {
	f := newFixture(t, 1)
	owner := testutil.CreateUser(t, f.db, constants.RoleSurveyor)
	intruder := testutil.CreateUser(t, f.db, constants.RoleSurveyor)

	_, err := service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: f.reviewer, Role: constants.RoleReviewer,
		Patch: workflow.Patch{AppUserID: workflow.Set(owner.ID)},
	})
	require.NoError(t, err)
	before := testutil.ReloadActivity(t, f.db, f.acts[0])

	_, err = service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: intruder.ID, Role: constants.RoleSurveyor,
		Patch: workflow.Patch{Remarks: workflow.Set("not mine")},
	})
	assert.ErrorIs(t, err, workflow.ErrNotAssignee)

	after := testutil.ReloadActivity(t, f.db, f.acts[0])
	assert.Nil(t, after.HouseActivityRemarks)
	assert.Equal(t, before.HouseActivityUpdatedAt.Unix(), after.HouseActivityUpdatedAt.Unix())
}

func TestUpdate_SurveyorCannotTakeOverAssignedActivity(t *testing.T) {
	f := newFixture(t, 1)
	owner := testutil.CreateUser(t, f.db, constants.RoleSurveyor)
	intruder := testutil.CreateUser(t, f.db, constants.RoleSurveyor)

	_, err := service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: owner.ID, Role: constants.RoleSurveyor,
		Patch: workflow.Patch{AppUserID: workflow.Set(owner.ID), Remarks: workflow.Set("owner notes")},
	})
	require.NoError(t, err)
	before := testutil.ReloadActivity(t, f.db, f.acts[0])

	_, err = service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: intruder.ID, Role: constants.RoleSurveyor,
		Patch: workflow.Patch{AppUserID: workflow.Set(intruder.ID), Remarks: workflow.Set("mine now")},
	})
	assert.ErrorIs(t, err, workflow.ErrNotAssignee)

	after := testutil.ReloadActivity(t, f.db, f.acts[0])
	require.NotNil(t, after.HouseActivityAppUserID)
	assert.Equal(t, owner.ID, *after.HouseActivityAppUserID)
	require.NotNil(t, after.HouseActivityRemarks)
	assert.Equal(t, "owner notes", *after.HouseActivityRemarks)
	assert.Equal(t, before.HouseActivityStatus, after.HouseActivityStatus)
	assert.Equal(t, before.HouseActivityUpdatedAt.Unix(), after.HouseActivityUpdatedAt.Unix())
}

func TestUpdate_SurveyorWorkflow(t *testing.T) {
	f := newFixture(t, 2)
	me := testutil.CreateUser(t, f.db, constants.RoleSurveyor)
	ctx := context.Background()

	out, err := service.UpdateHouseActivity(ctx, f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: me.ID, Role: constants.RoleSurveyor,
		Patch: workflow.Patch{AppUserID: workflow.Set(me.ID), StartDate: workflow.Set(time.Now().UTC())},
	})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusInProgress), out.Activity.HouseActivityStatus)
	assert.Nil(t, out.House, "in_progress does not touch the house aggregate")

	out, err = service.UpdateHouseActivity(ctx, f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: me.ID, Role: constants.RoleSurveyor,
		Patch: workflow.Patch{CompletionDate: workflow.Set(time.Now().UTC())},
	})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusReview), out.Activity.HouseActivityStatus)

	_, err = service.UpdateHouseActivity(ctx, f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: me.ID, Role: constants.RoleSurveyor,
		Patch: workflow.Patch{ApprovedByID: workflow.Set(me.ID)},
	})
	var fe *workflow.ForbiddenFieldsError
	assert.ErrorAs(t, err, &fe)
}

func TestUpdate_ExplicitOverrideIsStoredVerbatim(t *testing.T) {
	f := newFixture(t, 2)
	f.approve(t, f.acts[0])

	out, err := service.UpdateHouseActivity(context.Background(), f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: f.reviewer, Role: constants.RoleReviewer,
		Patch: workflow.Patch{Status: workflow.Set(workflow.StatusPending)},
	})
	require.NoError(t, err)

	assert.True(t, out.Overridden)
	assert.Equal(t, string(workflow.StatusPending), out.Activity.HouseActivityStatus)
	assert.NotNil(t, out.Activity.HouseActivityApprovedByID)
	require.NotNil(t, out.House)
	assert.Equal(t, 0, out.House.HouseCompletedActivities)
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture(t, 1)
	surveyor := testutil.CreateUser(t, f.db, constants.RoleSurveyor)
	ctx := context.Background()

	_, err := service.UpdateHouseActivity(ctx, f.db, service.UpdateInput{
		ID: uuid.New(), CallerID: f.reviewer, Role: constants.RoleReviewer,
		Patch: workflow.Patch{Remarks: workflow.Set("x")},
	})
	assert.ErrorIs(t, err, service.ErrActivityNotFound)

	_, err = service.UpdateHouseActivity(ctx, f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: f.reviewer, Role: constants.RoleReviewer,
	})
	assert.ErrorIs(t, err, workflow.ErrNoChanges)

	_, err = service.UpdateHouseActivity(ctx, f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: f.reviewer, Role: constants.RoleReviewer,
		Patch: workflow.Patch{AppUserID: workflow.Set(uuid.New())},
	})
	assert.ErrorIs(t, err, service.ErrAssigneeNotFound)

	_, err = service.UpdateHouseActivity(ctx, f.db, service.UpdateInput{
		ID: f.acts[0], CallerID: f.reviewer, Role: constants.RoleReviewer,
		Patch: workflow.Patch{ApprovedByID: workflow.Set(surveyor.ID)},
	})
	assert.ErrorIs(t, err, service.ErrApproverInvalid)

	assert.Equal(t, string(workflow.StatusPending), testutil.ReloadActivity(t, f.db, f.acts[0]).HouseActivityStatus)
}
