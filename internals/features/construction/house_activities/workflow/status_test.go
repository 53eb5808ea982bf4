package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDeriveStatus_Precedence(t *testing.T) {
	now := time.Now()
	approver := uuid.New()

	tests := []struct {
		name string
		in   Fields
		want Status
	}{
		{"empty", Fields{}, StatusPending},
		{"started", Fields{StartDate: &now}, StatusInProgress},
		{"finished without approval", Fields{StartDate: &now, CompletionDate: &now}, StatusReview},
		{"finished without start", Fields{CompletionDate: &now}, StatusReview},
		{"approved", Fields{CompletionDate: &now, ApprovedByID: &approver}, StatusCompleted},
		{"approver alone is not completion", Fields{StartDate: &now, ApprovedByID: &approver}, StatusInProgress},
		{"rejected beats completed", Fields{CompletionDate: &now, ApprovedByID: &approver, RejectedRemarks: ptr("bad wall")}, StatusRejected},
		{"whitespace remarks ignored", Fields{StartDate: &now, RejectedRemarks: ptr("   ")}, StatusInProgress},
		{"blocked beats everything", Fields{IsBlocked: true, RejectedRemarks: ptr("x"), CompletionDate: &now, ApprovedByID: &approver}, StatusBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.in))
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(" " + string(s) + " ")
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, bad := range []string{"", "done", "COMPLETED", "in progress"} {
		_, err := ParseStatus(bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, bad)
	}
}
