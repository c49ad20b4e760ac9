package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"lembagaku_backend/internals/configs"
	database "lembagaku_backend/internals/databases"
	attendanceModel "lembagaku_backend/internals/features/attendance/attendance/model"
	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
	feeModel "lembagaku_backend/internals/features/payment/fees/model"
	feeService "lembagaku_backend/internals/features/payment/fees/service"
	authModel "lembagaku_backend/internals/features/users/auth/model"
	scheduler "lembagaku_backend/internals/features/users/auth/scheduler"
	userModel "lembagaku_backend/internals/features/users/user/model"
	announcementModel "lembagaku_backend/internals/features/utils/announcements/model"
	middlewares "lembagaku_backend/internals/middlewares"
	routes "lembagaku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing (observability ringan)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// Opsional untuk environment baru; production pakai migrasi SQL
	if strings.EqualFold(configs.GetEnv("DB_AUTO_MIGRATE", "false"), "true") {
		log.Println("🔧 AutoMigrate aktif...")
		if err := database.DB.AutoMigrate(
			&userModel.UserModel{},
			&batchModel.BatchModel{},
			&attendanceModel.AttendanceModel{},
			&authModel.RefreshTokenModel{},
			&authModel.TokenBlacklistModel{},
			&feeModel.FeeBillingModel{},
			&feeModel.UserFeeBillModel{},
			&announcementModel.AnnouncementModel{},
		); err != nil {
			log.Fatalf("❌ AutoMigrate gagal: %v", err)
		}
	}

	// ⏱ scheduler setelah DB siap
	scheduler.StartTokenCleanupScheduler(database.DB)

	// ✅ MIDTRANS
	feeService.InitMidtrans(configs.GetEnv("MIDTRANS_SERVER_KEY"))

	// ✅ Routes
	routes.SetupRoutes(app, database.DB)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
