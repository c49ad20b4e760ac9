package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "lembagaku_backend/internals/features/attendance/attendance/controller"
	attendanceService "lembagaku_backend/internals/features/attendance/attendance/service"
)

func AttendanceUserRoutes(user fiber.Router, db *gorm.DB, svc *attendanceService.AttendanceService) {
	ctrl := attendanceController.NewAttendanceUserController(db, svc)

	att := user.Group("/attendance")
	att.Post("/check-in", ctrl.CheckIn)
	att.Post("/check-out", ctrl.CheckOut)
	att.Get("/today", ctrl.Today)
	att.Get("/history", ctrl.History)
	att.Get("/stats", ctrl.Stats)
}

func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB, svc *attendanceService.AttendanceService) {
	ctrl := attendanceController.NewAttendanceAdminController(db, svc)

	att := admin.Group("/attendance")
	att.Get("/", ctrl.List)
	att.Post("/mark", ctrl.Mark)
	att.Post("/recalculate-stats", ctrl.RecalculateStats)
	att.Post("/cleanup", ctrl.Cleanup)
	att.Get("/batch/:batchID", ctrl.BatchReport)
	att.Put("/:id", ctrl.Update)
	att.Delete("/:id", ctrl.Delete)
}
