package users

import (
	"errors"
	"strings"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/constants"
	authHelper "housetrack_backend/internals/features/users/auth/helper"
	"housetrack_backend/internals/features/users/user/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin from SEED_ADMIN_* env values; skipped when
// the email already exists or the values are missing.
func SeedAdmin(db *gorm.DB, userName, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	userName = strings.TrimSpace(userName)
	if email == "" || password == "" {
		configs.Log.Info("ℹ️ SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD kosong, admin seed dilewati")
		return false, nil
	}
	if userName == "" {
		userName = strings.SplitN(email, "@", 2)[0]
	}

	var existing model.UserModel
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		configs.Log.Info("ℹ️ admin sudah ada, dilewati", zap.String("email", email))
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := authHelper.ValidatePassword(password); err != nil {
		return false, err
	}
	hashed, err := authHelper.HashPassword(password)
	if err != nil {
		return false, err
	}
	u := model.UserModel{
		UserName: userName,
		Email:    email,
		Password: hashed,
		Role:     constants.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		return false, err
	}
	configs.Log.Info("✅ admin seeded", zap.String("email", email))
	return true, nil
}
