package database

import (
	"housetrack_backend/internals/configs"
	activityModel "housetrack_backend/internals/features/construction/activities/model"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	imageModel "housetrack_backend/internals/features/construction/images/model"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	authModel "housetrack_backend/internals/features/users/auth/model"
	userModel "housetrack_backend/internals/features/users/user/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.RefreshTokenModel{},
		&authModel.TokenBlacklistModel{},
		&activityModel.ActivityModel{},
		&projectModel.ProjectModel{},
		&houseModel.HouseModel{},
		&haModel.HouseActivityModel{},
		&imageModel.ImageModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		configs.Log.Error("❌ auto migrate failed", zap.Error(err))
		return err
	}
	configs.Log.Info("✅ schema migrated", zap.Int("tables", len(Models())))
	return nil
}
