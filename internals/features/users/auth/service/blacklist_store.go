package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"housetrack_backend/internals/configs"
	authRepo "housetrack_backend/internals/features/users/auth/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BlacklistStore remembers revoked access tokens until they expire.
type BlacklistStore interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

/* ==========================
   Database store
========================== */

type DBBlacklist struct {
	DB *gorm.DB
}

func NewDBBlacklist(db *gorm.DB) *DBBlacklist {
	return &DBBlacklist{DB: db}
}

func (s *DBBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	return authRepo.BlacklistToken(s.DB.WithContext(ctx), token, expiresAt)
}

func (s *DBBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	return authRepo.IsTokenBlacklisted(s.DB.WithContext(ctx), token)
}

/* ==========================
   Redis store (write-through)
========================== */

const blacklistKeyPrefix = "auth:blacklist:"

// RedisBlacklist writes to Redis and the database; reads hit Redis and fall back
// to the database when Redis errors.
type RedisBlacklist struct {
	Redis *redis.Client
	DB    *DBBlacklist
}

func NewRedisBlacklist(rdb *redis.Client, db *gorm.DB) *RedisBlacklist {
	return &RedisBlacklist{Redis: rdb, DB: NewDBBlacklist(db)}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *RedisBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	if err := s.DB.Add(ctx, token, expiresAt); err != nil {
		return err
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.Redis.Set(ctx, blacklistKey(token), 1, ttl).Err(); err != nil {
		configs.Log.Warn("redis blacklist write failed", zap.Error(err))
	}
	return nil
}

func (s *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.Redis.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		configs.Log.Warn("redis blacklist read failed, using database", zap.Error(err))
		return s.DB.Contains(ctx, token)
	}
	if n > 0 {
		return true, nil
	}
	return false, nil
}

// NewBlacklistStore picks Redis when a client is available.
func NewBlacklistStore(db *gorm.DB, rdb *redis.Client) BlacklistStore {
	if rdb == nil {
		return NewDBBlacklist(db)
	}
	return NewRedisBlacklist(rdb, db)
}
