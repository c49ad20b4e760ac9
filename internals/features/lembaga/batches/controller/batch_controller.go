// file: internals/features/lembaga/batches/controller/batch_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"lembagaku_backend/internals/features/lembaga/batches/dto"
	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
	userModel "lembagaku_backend/internals/features/users/user/model"
	helper "lembagaku_backend/internals/helpers"
	"lembagaku_backend/internals/helpers/dbtime"
)

type BatchController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewBatchController(db *gorm.DB) *BatchController {
	return &BatchController{DB: db, validate: validator.New()}
}

/* ==========================
   POST /api/a/batches
========================== */

func (ctl *BatchController) Create(c *fiber.Ctx) error {
	var req dto.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if err := validateClassWindow(req.ClassStartTime, req.ClassEndTime); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	batch := batchModel.BatchModel{
		BatchName:           req.BatchName,
		BatchCode:           strings.ToUpper(strings.TrimSpace(req.BatchCode)),
		BatchDescription:    req.BatchDescription,
		BatchClassStartTime: req.ClassStartTime,
		BatchClassEndTime:   req.ClassEndTime,
		BatchStatus:         batchModel.BatchStatusUpcoming,
	}
	if req.LateThresholdMinutes != nil {
		batch.BatchLateThresholdMinutes = *req.LateThresholdMinutes
	} else {
		batch.BatchLateThresholdMinutes = 15
	}

	if err := ctl.DB.WithContext(c.Context()).Create(&batch).Error; err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
			return helper.JsonError(c, fiber.StatusConflict, "Kode batch sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat batch")
	}
	return helper.JsonCreated(c, "Batch berhasil dibuat", dto.ToBatchResponse(&batch))
}

/* ==========================
   GET /api/a/batches
========================== */

func (ctl *BatchController) List(c *fiber.Ctx) error {
	page, limit, offset := helper.ResolvePaging(c)

	q := ctl.DB.WithContext(c.Context()).Model(&batchModel.BatchModel{})
	if v := c.Query("status"); v != "" {
		q = q.Where("batch_status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung batch")
	}

	var batches []batchModel.BatchModel
	if err := q.Order("batch_created_at DESC").Limit(limit).Offset(offset).Find(&batches).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar batch")
	}

	return helper.JsonList(c, dto.ToBatchResponses(batches), helper.BuildPagination(page, limit, total))
}

/* ==========================
   GET /api/batches/running (public)
========================== */

func (ctl *BatchController) ListRunning(c *fiber.Ctx) error {
	var batches []batchModel.BatchModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("batch_status = ?", batchModel.BatchStatusRunning).
		Order("batch_name ASC").
		Find(&batches).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch aktif")
	}
	return helper.JsonOK(c, "OK", dto.ToBatchResponses(batches))
}

/* ==========================
   GET /api/a/batches/:id
========================== */

func (ctl *BatchController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var batch batchModel.BatchModel
	if err := ctl.DB.WithContext(c.Context()).First(&batch, "batch_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	resp := dto.ToBatchResponse(&batch)
	ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("batch_id = ?", id).
		Count(&resp.MemberCount)

	return helper.JsonOK(c, "OK", resp)
}

/* ==========================
   PUT /api/a/batches/:id
========================== */

func (ctl *BatchController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var req dto.UpdateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var batch batchModel.BatchModel
	if err := ctl.DB.WithContext(c.Context()).First(&batch, "batch_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	updates := map[string]any{}
	if req.BatchName != nil {
		updates["batch_name"] = *req.BatchName
	}
	if req.BatchDescription != nil {
		updates["batch_description"] = *req.BatchDescription
	}
	start := batch.BatchClassStartTime
	end := batch.BatchClassEndTime
	if req.ClassStartTime != nil {
		start = *req.ClassStartTime
		updates["batch_class_start_time"] = start
	}
	if req.ClassEndTime != nil {
		end = *req.ClassEndTime
		updates["batch_class_end_time"] = end
	}
	if req.ClassStartTime != nil || req.ClassEndTime != nil {
		if err := validateClassWindow(start, end); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	if req.LateThresholdMinutes != nil {
		updates["batch_late_threshold_minutes"] = *req.LateThresholdMinutes
	}
	if req.Status != nil {
		updates["batch_status"] = *req.Status
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", dto.ToBatchResponse(&batch))
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&batchModel.BatchModel{}).
		Where("batch_id = ?", id).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui batch")
	}
	if err := ctl.DB.WithContext(c.Context()).First(&batch, "batch_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}
	return helper.JsonUpdated(c, "Batch berhasil diperbarui", dto.ToBatchResponse(&batch))
}

/* ==========================
   DELETE /api/a/batches/:id (soft delete)
========================== */

func (ctl *BatchController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var memberCount int64
	ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("batch_id = ?", id).
		Count(&memberCount)
	if memberCount > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Batch masih punya anggota, pindahkan dulu sebelum dihapus")
	}

	res := ctl.DB.WithContext(c.Context()).Delete(&batchModel.BatchModel{}, "batch_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus batch")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Batch tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Batch berhasil dihapus", fiber.Map{"batch_id": id})
}

/* ==========================
   GET /api/a/batches/:id/members
========================== */

func (ctl *BatchController) Members(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var members []userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("batch_id = ?", id).
		Order("full_name ASC").
		Find(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil anggota batch")
	}

	out := make([]dto.BatchMemberResponse, 0, len(members))
	for i := range members {
		u := &members[i]
		out = append(out, dto.BatchMemberResponse{
			UserID:   u.ID,
			UserName: u.UserName,
			FullName: u.FullName,
			Email:    u.Email,
			IsActive: u.IsActive,
		})
	}
	return helper.JsonOK(c, "OK", out)
}

/* ==========================
   Util
========================== */

func validateClassWindow(start, end string) error {
	s, err := dbtime.ParseClock(start)
	if err != nil {
		return errors.New("Jam mulai kelas harus berformat HH:mm")
	}
	e, err := dbtime.ParseClock(end)
	if err != nil {
		return errors.New("Jam selesai kelas harus berformat HH:mm")
	}
	if e <= s {
		return errors.New("Jam selesai kelas harus setelah jam mulai")
	}
	return nil
}
