// file: internals/features/attendance/attendance/controller/attendance_admin_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"lembagaku_backend/internals/features/attendance/attendance/dto"
	attendanceModel "lembagaku_backend/internals/features/attendance/attendance/model"
	"lembagaku_backend/internals/features/attendance/attendance/service"
	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
	userModel "lembagaku_backend/internals/features/users/user/model"
	helper "lembagaku_backend/internals/helpers"
	"lembagaku_backend/internals/helpers/dbtime"
)

type AttendanceAdminController struct {
	DB       *gorm.DB
	Service  *service.AttendanceService
	validate *validator.Validate
}

func NewAttendanceAdminController(db *gorm.DB, svc *service.AttendanceService) *AttendanceAdminController {
	return &AttendanceAdminController{DB: db, Service: svc, validate: validator.New()}
}

/* ==========================
   POST /api/a/attendance/mark
========================== */

func (ctl *AttendanceAdminController) Mark(c *fiber.Ctx) error {
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	date, err := dbtime.ParseYMD(req.Date, ctl.Service.Loc)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus 2006-01-02")
	}

	rec, err := ctl.Service.MarkAttendance(c.Context(), req.UserID, req.BatchID, date, req.Status, req.Remarks)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Absensi berhasil ditandai", dto.ToAttendanceResponse(rec))
}

/* ==========================
   PUT /api/a/attendance/:id
========================== */

func (ctl *AttendanceAdminController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID absensi tidak valid")
	}

	var req dto.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	rec, err := ctl.Service.UpdateAttendance(c.Context(), id, service.UpdateAttendanceInput{
		Status:  req.Status,
		Remarks: req.Remarks,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Absensi berhasil diperbarui", dto.ToAttendanceResponse(rec))
}

/* ==========================
   DELETE /api/a/attendance/:id
========================== */

func (ctl *AttendanceAdminController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID absensi tidak valid")
	}
	if err := ctl.Service.DeleteAttendance(c.Context(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Absensi berhasil dihapus", fiber.Map{"attendance_id": id})
}

/* ==========================
   POST /api/a/attendance/recalculate-stats
========================== */

func (ctl *AttendanceAdminController) RecalculateStats(c *fiber.Ctx) error {
	updated, attempted, err := ctl.Service.RecomputeAllUsers(c.Context())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung ulang statistik")
	}
	return helper.JsonOK(c, "Statistik seluruh user dihitung ulang", dto.RecalculateAllResponse{
		Updated:   updated,
		Attempted: attempted,
	})
}

/* ==========================
   POST /api/a/attendance/cleanup
========================== */

func (ctl *AttendanceAdminController) Cleanup(c *fiber.Ctx) error {
	result, err := ctl.Service.CleanupInvalidRecords(c.Context())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membersihkan record tidak valid")
	}
	return helper.JsonOK(c, "Pembersihan record selesai", result)
}

/* ==========================
   GET /api/a/attendance (list, filterable)
========================== */

func (ctl *AttendanceAdminController) List(c *fiber.Ctx) error {
	page, limit, offset := helper.ResolvePaging(c)

	q := ctl.DB.WithContext(c.Context()).Model(&attendanceModel.AttendanceModel{})
	if v := c.Query("user_id"); v != "" {
		uid, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
		}
		q = q.Where("attendance_user_id = ?", uid)
	}
	if v := c.Query("batch_id"); v != "" {
		bid, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		q = q.Where("attendance_batch_id = ?", bid)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("attendance_status = ?", v)
	}
	if v := c.Query("date"); v != "" {
		d, err := dbtime.ParseYMD(v, ctl.Service.Loc)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus 2006-01-02")
		}
		q = q.Where("attendance_date = ?", d)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung record absensi")
	}

	var recs []attendanceModel.AttendanceModel
	if err := q.Order("attendance_date DESC, attendance_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&recs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil record absensi")
	}

	return helper.JsonList(c, dto.ToAttendanceResponses(recs), helper.BuildPagination(page, limit, total))
}

/* ==========================
   GET /api/a/attendance/batch/:batchID (report)
========================== */

// BatchReport merangkum statistik kehadiran seluruh anggota satu batch.
// Tanpa query param angka diambil dari cache stats user (jalankan
// recalculate-stats dulu kalau butuh angka yang dijamin segar);
// dengan ?from=2006-01-02&to=2006-01-02 dihitung langsung dari record
// pada rentang tanggal itu.
func (ctl *AttendanceAdminController) BatchReport(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("batchID"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var batch batchModel.BatchModel
	if err := ctl.DB.WithContext(c.Context()).First(&batch, "batch_id = ?", batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		d, derr := dbtime.ParseYMD(v, ctl.Service.Loc)
		if derr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format from harus 2006-01-02")
		}
		from = &d
	}
	if v := c.Query("to"); v != "" {
		d, derr := dbtime.ParseYMD(v, ctl.Service.Loc)
		if derr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format to harus 2006-01-02")
		}
		to = &d
	}

	var members []userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("batch_id = ?", batchID).
		Order("full_name ASC").
		Find(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil anggota batch")
	}

	rows := make([]dto.BatchReportRow, 0, len(members))
	if from == nil && to == nil {
		for i := range members {
			u := &members[i]
			rows = append(rows, dto.BatchReportRow{
				UserID:     u.ID,
				FullName:   u.FullName,
				Present:    u.AttendanceStats.Present,
				Absent:     u.AttendanceStats.Absent,
				Late:       u.AttendanceStats.Late,
				HalfDay:    u.AttendanceStats.HalfDay,
				Percentage: u.AttendanceStats.Percentage,
			})
		}
	} else {
		for i := range members {
			u := &members[i]
			row, rerr := ctl.tallyRange(c, u, batchID, from, to)
			if rerr != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung rekap absensi")
			}
			rows = append(rows, row)
		}
	}

	return helper.JsonOK(c, "OK", dto.BatchReportResponse{
		BatchID:   batch.BatchID,
		BatchName: batch.BatchName,
		Members:   rows,
	})
}

func (ctl *AttendanceAdminController) tallyRange(c *fiber.Ctx, u *userModel.UserModel, batchID uuid.UUID, from, to *time.Time) (dto.BatchReportRow, error) {
	q := ctl.DB.WithContext(c.Context()).
		Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_user_id = ? AND attendance_batch_id = ?", u.ID, batchID)
	if from != nil {
		q = q.Where("attendance_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("attendance_date <= ?", *to)
	}

	var tally []struct {
		Status string
		Total  int
	}
	if err := q.Select("attendance_status AS status, COUNT(*) AS total").
		Group("attendance_status").
		Scan(&tally).Error; err != nil {
		return dto.BatchReportRow{}, err
	}

	row := dto.BatchReportRow{UserID: u.ID, FullName: u.FullName}
	for _, t := range tally {
		switch service.Status(t.Status) {
		case service.StatusPresent:
			row.Present = t.Total
		case service.StatusAbsent:
			row.Absent = t.Total
		case service.StatusLate:
			row.Late = t.Total
		case service.StatusHalfDay:
			row.HalfDay = t.Total
		}
	}
	row.Percentage = service.Percentage(row.Present, row.Absent, row.Late, row.HalfDay)
	return row, nil
}
