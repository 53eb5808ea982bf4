package seeds

import (
	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/seeds/activities"
	"housetrack_backend/internals/seeds/users"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunAllSeeds is idempotent: existing templates and users are skipped.
func RunAllSeeds(db *gorm.DB) error {
	//* Activity templates
	if _, _, err := activities.SeedActivities(db, configs.GetEnv("SEED_ACTIVITIES_FILE")); err != nil {
		configs.Log.Error("❌ seed activities", zap.Error(err))
		return err
	}

	//* Admin
	if _, err := users.SeedAdmin(db,
		configs.GetEnv("SEED_ADMIN_USERNAME"),
		configs.GetEnv("SEED_ADMIN_EMAIL"),
		configs.GetEnv("SEED_ADMIN_PASSWORD"),
	); err != nil {
		configs.Log.Error("❌ seed admin", zap.Error(err))
		return err
	}
	return nil
}
