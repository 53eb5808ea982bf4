package users

import (
	"testing"

	"housetrack_backend/internals/constants"
	"housetrack_backend/internals/features/users/user/model"
	"housetrack_backend/internals/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdmin(t *testing.T) {
	db := testutil.NewDB(t)

	created, err := SeedAdmin(db, "", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = SeedAdmin(db, "root", "root@example.com", "short")
	assert.Error(t, err)

	created, err = SeedAdmin(db, "", " Root@Example.com ", "Sup3rSecret")
	require.NoError(t, err)
	assert.True(t, created)

	var u model.UserModel
	require.NoError(t, db.First(&u, "email = ?", "root@example.com").Error)
	assert.Equal(t, "root", u.UserName)
	assert.Equal(t, constants.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)

	created, err = SeedAdmin(db, "root", "root@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.False(t, created)
}
