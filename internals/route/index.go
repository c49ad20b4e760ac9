// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lembagaku_backend/internals/configs"
	attendanceService "lembagaku_backend/internals/features/attendance/attendance/service"
	authRepo "lembagaku_backend/internals/features/users/auth/repository"
	helperOSS "lembagaku_backend/internals/helpers/oss"
	authMiddleware "lembagaku_backend/internals/middlewares/auth"
	featuresMiddleware "lembagaku_backend/internals/middlewares/features"
	routeDetails "lembagaku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	/* ===================== Collaborators ===================== */

	var oss *helperOSS.OSSService
	if svc, err := helperOSS.NewOSSServiceFromEnv("lembagaku"); err != nil {
		log.Printf("⚠️  OSS tidak aktif: %v (upload foto akan gagal)", err)
	} else {
		oss = svc
		log.Println("✅ OSS siap dipakai")
	}

	var photos attendanceService.PhotoStore
	if oss != nil {
		photos = &attendanceService.OSSPhotoStore{Svc: oss}
	}

	var faces attendanceService.FaceScorer
	if endpoint := strings.TrimSpace(os.Getenv("FACE_API_URL")); endpoint != "" {
		faces = attendanceService.NewHTTPFaceScorer(endpoint)
		log.Println("✅ Face matching aktif:", endpoint)
	} else {
		log.Println("⚠️  FACE_API_URL kosong, face matching dimatikan")
	}

	attSvc := attendanceService.NewAttendanceService(db, photos, faces, configs.AppLocation)

	/* ===================== GROUPS ===================== */

	authJWT := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret: os.Getenv("JWT_SECRET"),
		BlacklistChecker: func(raw string) (bool, error) {
			return authRepo.IsTokenBlacklisted(db, raw)
		},
		AllowCookieFallback: true,
	})

	// PUBLIC → tanpa JWT
	log.Println("[INFO] Setting up PUBLIC routes...")
	public := app.Group("/api")
	routeDetails.AuthRoutes(public, db)
	routeDetails.PublicRoutes(public, db)

	// PRIVATE (USER) → /api/u
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u", authJWT)
	routeDetails.AttendanceUserRoutes(user, db, attSvc)
	routeDetails.UserUserRoutes(user, db, oss)
	routeDetails.FeeUserRoutes(user, db)
	routeDetails.AnnouncementUserRoutes(user, db)

	// ADMIN → /api/a
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a", authJWT, featuresMiddleware.IsAdmin())
	routeDetails.AttendanceAdminRoutes(admin, db, attSvc)
	routeDetails.BatchAdminRoutes(admin, db)
	routeDetails.UserAdminRoutes(admin, db)
	routeDetails.FeeAdminRoutes(admin, db)
	routeDetails.AnnouncementAdminRoutes(admin, db)
}
