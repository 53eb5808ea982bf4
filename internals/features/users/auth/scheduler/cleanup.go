package scheduler

import (
	"context"
	"time"

	"housetrack_backend/internals/configs"
	authRepo "housetrack_backend/internals/features/users/auth/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cleanupInterval = 24 * time.Hour

// StartBlacklistCleanupScheduler purges expired blacklist entries and refresh
// tokens once a day until ctx is cancelled.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			RunCleanup(db, time.Now().UTC())

			select {
			case <-ctx.Done():
				configs.Log.Info("[CLEANUP] scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

// RunCleanup deletes blacklist rows older than the retention window and expired refresh tokens.
func RunCleanup(db *gorm.DB, now time.Time) {
	ttlDays := configs.BlacklistTTLDays
	if ttlDays <= 0 {
		ttlDays = 7
	}
	deleteBefore := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)

	n, err := authRepo.CleanupExpiredBlacklist(db, deleteBefore)
	if err != nil {
		configs.Log.Error("[CLEANUP ERROR] token_blacklist", zap.Error(err))
	} else {
		configs.Log.Info("[CLEANUP] token_blacklist purged", zap.Int64("rows", n))
	}

	n, err = authRepo.CleanupExpiredRefreshTokens(db, now)
	if err != nil {
		configs.Log.Error("[CLEANUP ERROR] refresh_tokens", zap.Error(err))
	} else {
		configs.Log.Info("[CLEANUP] refresh_tokens purged", zap.Int64("rows", n))
	}
}
