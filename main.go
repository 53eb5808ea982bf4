package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"housetrack_backend/internals/configs"
	database "housetrack_backend/internals/databases"
	progressService "housetrack_backend/internals/features/construction/progress/service"
	authService "housetrack_backend/internals/features/users/auth/service"
	scheduler "housetrack_backend/internals/features/users/auth/scheduler"
	helper "housetrack_backend/internals/helpers"
	"housetrack_backend/internals/helpers/blob"
	middlewares "housetrack_backend/internals/middlewares"
	routes "housetrack_backend/internals/route"
	"housetrack_backend/internals/seeds"
)

const usage = `usage: housetrack [serve|migrate|seed|recount]
  serve    start the HTTP API (default)
  migrate  create or update the schema
  seed     insert activity templates and the first admin
  recount  recompute house and project progress from activity rows`

func main() {
	configs.LoadEnv()
	defer func() { _ = configs.Log.Sync() }()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		serve()
	case "migrate":
		database.ConnectDB()
		exitOnErr("migrate", database.AutoMigrate(database.DB))
	case "seed":
		database.ConnectDB()
		exitOnErr("seed", seeds.RunAllSeeds(database.DB))
	case "recount":
		database.ConnectDB()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		report, err := progressService.RecountAll(ctx, database.DB)
		exitOnErr("recount", err)
		configs.Log.Info("✅ recount finished",
			zap.Int("houses_scanned", report.HousesScanned),
			zap.Int("houses_repaired", report.HousesRepaired),
			zap.Int("projects_scanned", report.ProjectsScanned),
			zap.Int("projects_repaired", report.ProjectsRepaired),
		)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func exitOnErr(step string, err error) {
	if err != nil {
		configs.Log.Error("❌ "+step+" failed", zap.Error(err))
		os.Exit(1)
	}
}

func serve() {
	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		BodyLimit:               (configs.UploadMaxMB + 1) * 1024 * 1024,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	middlewares.SetupMiddlewares(app)
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.GlobalRateLimiter())

	// HTTP timeout guard (selaras dengan statement_timeout di DB)
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	if configs.DBAutoMigrate {
		exitOnErr("migrate", database.AutoMigrate(database.DB))
	}

	store, err := blob.NewStoreFromEnv()
	exitOnErr("blob store", err)

	rdb := database.ConnectRedis(configs.RedisURL)
	blacklist := authService.NewBlacklistStore(database.DB, rdb)

	// ⏱ scheduler setelah DB siap
	bgCtx, stopBackground := context.WithCancel(context.Background())
	scheduler.StartBlacklistCleanupScheduler(bgCtx, database.DB)

	uploadDir := ""
	if configs.StorageDriver == "" || configs.StorageDriver == "local" {
		uploadDir = configs.UploadDir
	}
	routes.SetupRoutes(app, database.DB, routes.Options{
		Blacklist: blacklist,
		Blob:      store,
		UploadDir: uploadDir,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		configs.Log.Info("✅ Listening", zap.String("port", configs.Port))
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			configs.Log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	closeDB(database.DB)
	if rdb != nil {
		_ = rdb.Close()
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
