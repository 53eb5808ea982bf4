package scheduler

import (
	"testing"
	"time"

	"housetrack_backend/internals/constants"
	authModel "housetrack_backend/internals/features/users/auth/model"
	"housetrack_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCleanup_PurgesOnlyExpiredRows(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&[]authModel.TokenBlacklistModel{
		{Token: "old", ExpiredAt: now.Add(-8 * 24 * time.Hour)},
		{Token: "recent", ExpiredAt: now.Add(-2 * 24 * time.Hour)},
	}).Error)

	user := testutil.CreateUser(t, db, constants.RoleSurveyor)
	require.NoError(t, db.Create(&[]authModel.RefreshTokenModel{
		{UserID: user.ID, Token: []byte(uuid.NewString()), ExpiresAt: now.Add(-time.Minute)},
		{UserID: user.ID, Token: []byte(uuid.NewString()), ExpiresAt: now.Add(time.Hour)},
	}).Error)

	RunCleanup(db, now)

	var tokens []string
	require.NoError(t, db.Model(&authModel.TokenBlacklistModel{}).Pluck("token", &tokens).Error)
	assert.Equal(t, []string{"recent"}, tokens)

	var refresh int64
	require.NoError(t, db.Model(&authModel.RefreshTokenModel{}).Count(&refresh).Error)
	assert.EqualValues(t, 1, refresh)
}
