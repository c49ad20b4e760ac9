// file: internals/features/attendance/attendance/controller/attendance_user_controller.go
package controller

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lembagaku_backend/internals/features/attendance/attendance/dto"
	attendanceModel "lembagaku_backend/internals/features/attendance/attendance/model"
	"lembagaku_backend/internals/features/attendance/attendance/service"
	userModel "lembagaku_backend/internals/features/users/user/model"
	helper "lembagaku_backend/internals/helpers"
	helperAuth "lembagaku_backend/internals/helpers/auth"
)

type AttendanceUserController struct {
	DB      *gorm.DB
	Service *service.AttendanceService
}

func NewAttendanceUserController(db *gorm.DB, svc *service.AttendanceService) *AttendanceUserController {
	return &AttendanceUserController{DB: db, Service: svc}
}

/* ==========================
   POST /api/u/attendance/check-in
========================== */

func (ctl *AttendanceUserController) CheckIn(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	photo, geo, device := parseAttendanceForm(c)

	rec, err := ctl.Service.CheckIn(c.Context(), userID, photo, geo, device)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Check-in berhasil", dto.ToAttendanceResponse(rec))
}

/* ==========================
   POST /api/u/attendance/check-out
========================== */

func (ctl *AttendanceUserController) CheckOut(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	photo, geo, device := parseAttendanceForm(c)

	rec, err := ctl.Service.CheckOut(c.Context(), userID, photo, geo, device)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Check-out berhasil", dto.ToAttendanceResponse(rec))
}

/* ==========================
   GET /api/u/attendance/today
========================== */

func (ctl *AttendanceUserController) Today(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rec, err := ctl.Service.TodayRecord(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if rec == nil {
		return helper.JsonOK(c, "Belum ada absensi hari ini", nil)
	}
	return helper.JsonOK(c, "OK", dto.ToAttendanceResponse(rec))
}

/* ==========================
   GET /api/u/attendance/history
========================== */

func (ctl *AttendanceUserController) History(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	page, limit, offset := helper.ResolvePaging(c)

	var total int64
	q := ctl.DB.WithContext(c.Context()).
		Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung riwayat absensi")
	}

	var recs []attendanceModel.AttendanceModel
	if err := q.Order("attendance_date DESC").
		Limit(limit).Offset(offset).
		Find(&recs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat absensi")
	}

	return helper.JsonList(c, dto.ToAttendanceResponses(recs), helper.BuildPagination(page, limit, total))
}

/* ==========================
   GET /api/u/attendance/stats
========================== */

// Stats mengembalikan cache statistik user; ?recalculate=true (atau
// ?force=true) memaksa rekonsiliasi sinkron dari record otoritatif
// sebelum membalas.
func (ctl *AttendanceUserController) Stats(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	recalculated := false
	if strings.EqualFold(c.Query("recalculate"), "true") || strings.EqualFold(c.Query("force"), "true") {
		if _, rerr := ctl.Service.RecomputeStatsForUser(c.Context(), userID); rerr != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung ulang statistik")
		}
		recalculated = true
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	return helper.JsonOK(c, "OK", dto.UserStatsResponse{
		UserID:       user.ID,
		Present:      user.AttendanceStats.Present,
		Absent:       user.AttendanceStats.Absent,
		Late:         user.AttendanceStats.Late,
		HalfDay:      user.AttendanceStats.HalfDay,
		Percentage:   user.AttendanceStats.Percentage,
		Recalculated: recalculated,
	})
}

/* ==========================
   Form parsing
========================== */

// parseAttendanceForm membaca multipart check-in/check-out: foto, koordinat
// opsional, dan info device (form field menang atas User-Agent).
func parseAttendanceForm(c *fiber.Ctx) (*multipart.FileHeader, *service.GeoPoint, string) {
	photo, ferr := c.FormFile("photo")
	if ferr != nil {
		photo = nil
	}

	var geo *service.GeoPoint
	latStr := strings.TrimSpace(c.FormValue("lat"))
	lngStr := strings.TrimSpace(c.FormValue("lng"))
	if latStr != "" && lngStr != "" {
		lat, e1 := strconv.ParseFloat(latStr, 64)
		lng, e2 := strconv.ParseFloat(lngStr, 64)
		if e1 == nil && e2 == nil {
			geo = &service.GeoPoint{Lat: lat, Lng: lng}
		}
	}

	device := strings.TrimSpace(c.FormValue("device"))
	if device == "" {
		device = c.Get(fiber.HeaderUserAgent)
	}
	return photo, geo, device
}
