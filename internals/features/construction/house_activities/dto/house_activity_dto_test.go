package dto

import (
	"testing"

	"housetrack_backend/internals/features/construction/house_activities/workflow"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRequest(t *testing.T, body string) UpdateHouseActivityRequest {
	t.Helper()
	var r UpdateHouseActivityRequest
	require.NoError(t, sonic.Unmarshal([]byte(body), &r))
	return r
}

func TestToPatch_PresentFieldsOnly(t *testing.T) {
	p, err := decodeRequest(t, `{"startDate":"2026-03-01","remarks":"  ok  ","completionDate":null}`).ToPatch()
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]workflow.Field{workflow.FieldStartDate, workflow.FieldCompletionDate, workflow.FieldRemarks},
		p.Present())
	require.NotNil(t, p.StartDate.Value)
	assert.Nil(t, p.CompletionDate.Value)
	require.NotNil(t, p.Remarks.Value)
	assert.Equal(t, "ok", *p.Remarks.Value)
	assert.False(t, p.Status.Set)
}

func TestToPatch_BlankTextClears(t *testing.T) {
	p, err := decodeRequest(t, `{"rejectedRemarks":"   "}`).ToPatch()
	require.NoError(t, err)
	assert.True(t, p.RejectedRemarks.Set)
	assert.Nil(t, p.RejectedRemarks.Value)
}

func TestToPatch_Errors(t *testing.T) {
	_, err := decodeRequest(t, `{"isBlocked":null}`).ToPatch()
	assert.ErrorIs(t, err, ErrIsBlockedNull)

	_, err = decodeRequest(t, `{"status":null}`).ToPatch()
	assert.ErrorIs(t, err, ErrStatusNull)

	_, err = decodeRequest(t, `{"status":"finished"}`).ToPatch()
	assert.Error(t, err)

	p, err := decodeRequest(t, `{"status":"completed","isBlocked":false}`).ToPatch()
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCompleted, *p.Status.Value)
	assert.False(t, *p.IsBlocked.Value)
}
