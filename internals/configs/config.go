package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	AppEnv           string
	Port             string
	JWTSecret        string
	JWTRefreshSecret string
	GoogleClientID   string
	RedisURL         string
	StorageDriver    string
	UploadDir        string
	PublicBaseURL    string
	CorsAllowOrigins string
	DBAutoMigrate    bool
	BlacklistTTLDays int
	UploadMaxMB      int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("⚠️ .env not found, using system environment")
		}
	}

	AppEnv = GetEnv("APP_ENV", "development")
	InitLogger(AppEnv)

	Port = GetEnv("PORT", "3000")
	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	RedisURL = GetEnv("REDIS_URL")
	StorageDriver = strings.ToLower(GetEnv("STORAGE_DRIVER", "local"))
	UploadDir = GetEnv("UPLOAD_DIR", "./uploads")
	PublicBaseURL = strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:"+Port), "/")
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	DBAutoMigrate = GetEnvBool("DB_AUTO_MIGRATE", false)
	BlacklistTTLDays = GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)
	UploadMaxMB = GetEnvInt("UPLOAD_MAX_MB", 10)

	if JWTSecret == "" {
		Log.Error("❌ JWT_SECRET is not set")
	}
	if JWTRefreshSecret == "" {
		Log.Error("❌ JWT_REFRESH_SECRET is not set")
	}
	if GoogleClientID == "" {
		Log.Warn("GOOGLE_CLIENT_ID is not set, Google login disabled")
	}
	Log.Info("✅ environment loaded",
		zap.String("env", AppEnv),
		zap.String("storage", StorageDriver),
		zap.Bool("redis", RedisURL != ""),
	)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func GetEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// DatabaseDSN prefers DATABASE_URL, otherwise builds one from the DB_* parts.
func DatabaseDSN() string {
	if url := GetEnv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=housetrack&options=-c%%20statement_timeout=5000",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "disable"),
	)
}
