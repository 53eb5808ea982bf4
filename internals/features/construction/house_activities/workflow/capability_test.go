package workflow

import (
	"testing"
	"time"

	"housetrack_backend/internals/constants"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanWrite_Table(t *testing.T) {
	surveyorOnly := []Field{FieldStartDate, FieldCompletionDate, FieldRemarks, FieldAppUserID}
	reviewerOnly := []Field{FieldIsBlocked, FieldRejectedRemarks, FieldApprovedByID, FieldStatus}

	for _, f := range surveyorOnly {
		assert.True(t, CanWrite(constants.RoleSurveyor, f), f)
		assert.True(t, CanWrite(constants.RoleReviewer, f), f)
		assert.True(t, CanWrite(constants.RoleAdmin, f), f)
	}
	for _, f := range reviewerOnly {
		assert.False(t, CanWrite(constants.RoleSurveyor, f), f)
		assert.True(t, CanWrite(constants.RoleReviewer, f), f)
		assert.True(t, CanWrite(constants.RoleAdmin, f), f)
	}
	assert.False(t, CanWrite("guest", FieldRemarks))
}

func TestAuthorize_EmptyPayload(t *testing.T) {
	err := Authorize(constants.RoleAdmin, uuid.New(), nil, Patch{})
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestAuthorize_SurveyorForbiddenFieldsListed(t *testing.T) {
	me := uuid.New()
	p := Patch{
		Remarks:      Set("ok"),
		IsBlocked:    Set(true),
		ApprovedByID: Set(me),
	}
	err := Authorize(constants.RoleSurveyor, me, &me, p)

	var fe *ForbiddenFieldsError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []Field{FieldIsBlocked, FieldApprovedByID}, fe.Fields)
	assert.Contains(t, fe.Error(), "isBlocked")
}

func TestAuthorize_SurveyorOwnership(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	remarks := Patch{Remarks: Set("poured slab")}

	t.Run("own activity", func(t *testing.T) {
		assert.NoError(t, Authorize(constants.RoleSurveyor, me, &me, remarks))
	})
	t.Run("someone else's activity", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(constants.RoleSurveyor, me, &other, remarks), ErrNotAssignee)
	})
	t.Run("unassigned activity", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(constants.RoleSurveyor, me, nil, remarks), ErrNotAssignee)
	})
	t.Run("claiming an unassigned activity", func(t *testing.T) {
		p := Patch{AppUserID: Set(me), StartDate: Set(time.Now())}
		assert.NoError(t, Authorize(constants.RoleSurveyor, me, nil, p))
	})
	t.Run("claiming someone else's activity", func(t *testing.T) {
		p := Patch{AppUserID: Set(me), Remarks: Set("mine now")}
		assert.ErrorIs(t, Authorize(constants.RoleSurveyor, me, &other, p), ErrNotAssignee)
	})
	t.Run("re-claiming own activity", func(t *testing.T) {
		assert.NoError(t, Authorize(constants.RoleSurveyor, me, &me, Patch{AppUserID: Set(me)}))
	})
	t.Run("assigning another user", func(t *testing.T) {
		p := Patch{AppUserID: Set(other)}
		assert.ErrorIs(t, Authorize(constants.RoleSurveyor, me, &me, p), ErrAssignOthers)
	})
	t.Run("releasing own assignment", func(t *testing.T) {
		assert.NoError(t, Authorize(constants.RoleSurveyor, me, &me, Patch{AppUserID: Clear[uuid.UUID]()}))
	})
	t.Run("releasing someone else's assignment", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(constants.RoleSurveyor, me, &other, Patch{AppUserID: Clear[uuid.UUID]()}), ErrNotAssignee)
	})
}

func TestAuthorize_ReviewerAnyActivity(t *testing.T) {
	reviewer, other := uuid.New(), uuid.New()
	p := Patch{IsBlocked: Set(true), Status: Set(StatusBlocked), AppUserID: Set(other)}
	assert.NoError(t, Authorize(constants.RoleReviewer, reviewer, &other, p))
	assert.NoError(t, Authorize(constants.RoleAdmin, reviewer, nil, p))
}

func TestAuthorize_UnknownRole(t *testing.T) {
	err := Authorize("guest", uuid.New(), nil, Patch{Remarks: Set("x")})
	var fe *ForbiddenFieldsError
	assert.ErrorAs(t, err, &fe)
}
