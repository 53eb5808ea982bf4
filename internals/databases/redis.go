package database

import (
	"context"
	"time"

	"housetrack_backend/internals/configs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis returns nil when REDIS_URL is empty or the server does not answer;
// callers fall back to the database.
func ConnectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		configs.Log.Warn("⚠️ invalid REDIS_URL, redis disabled", zap.Error(err))
		return nil
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		configs.Log.Warn("⚠️ redis not reachable, redis disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	configs.Log.Info("✅ redis connected", zap.String("addr", opt.Addr))
	return rdb
}
