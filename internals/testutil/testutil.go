// Package testutil builds in-memory stores and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	database "housetrack_backend/internals/databases"
	activityModel "housetrack_backend/internals/features/construction/activities/model"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	authService "housetrack_backend/internals/features/users/auth/service"
	userModel "housetrack_backend/internals/features/users/user/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	JWTSecret        = "test-access-secret"
	JWTRefreshSecret = "test-refresh-secret"
	Password         = "Passw0rd!"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection so the memory database lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts an active user with the given role and the shared test password.
func CreateUser(t *testing.T, db *gorm.DB, role string) userModel.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	short := uuid.NewString()[:8]
	u := userModel.UserModel{
		UserName: role + "_" + short,
		Email:    role + "_" + short + "@example.com",
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateTemplates inserts n active templates numbered 1..n.
func CreateTemplates(t *testing.T, db *gorm.DB, n int) []activityModel.ActivityModel {
	t.Helper()
	out := make([]activityModel.ActivityModel, 0, n)
	for i := 1; i <= n; i++ {
		a := activityModel.ActivityModel{
			ActivityNumber:   i,
			ActivityPhase:    "Structure",
			ActivityName:     fmt.Sprintf("Step %d", i),
			ActivityIsActive: true,
		}
		require.NoError(t, db.Create(&a).Error)
		out = append(out, a)
	}
	return out
}

func CreateProject(t *testing.T, db *gorm.DB, name string) projectModel.ProjectModel {
	t.Helper()
	p := projectModel.ProjectModel{ProjectName: name}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func ReloadProject(t *testing.T, db *gorm.DB, id uuid.UUID) projectModel.ProjectModel {
	t.Helper()
	var p projectModel.ProjectModel
	require.NoError(t, db.First(&p, "project_id = ?", id).Error)
	return p
}

func ReloadHouse(t *testing.T, db *gorm.DB, id uuid.UUID) houseModel.HouseModel {
	t.Helper()
	var h houseModel.HouseModel
	require.NoError(t, db.First(&h, "house_id = ?", id).Error)
	return h
}

func ReloadActivity(t *testing.T, db *gorm.DB, id uuid.UUID) haModel.HouseActivityModel {
	t.Helper()
	var a haModel.HouseActivityModel
	require.NoError(t, db.First(&a, "house_activity_id = ?", id).Error)
	return a
}

// HouseActivities returns the activities of a house ordered by template number.
func HouseActivities(t *testing.T, db *gorm.DB, houseID uuid.UUID) []haModel.HouseActivityModel {
	t.Helper()
	var rows []haModel.HouseActivityModel
	require.NoError(t, db.
		Joins("JOIN activities ON activities.activity_id = house_activities.house_activity_activity_id").
		Where("house_activity_house_id = ?", houseID).
		Order("activities.activity_number ASC").
		Find(&rows).Error)
	return rows
}

// AccessToken signs an access token for u with JWTSecret.
func AccessToken(t *testing.T, u userModel.UserModel) string {
	t.Helper()
	tok, err := authService.SignAccessToken(u, JWTSecret, time.Now().UTC())
	require.NoError(t, err)
	return tok
}
