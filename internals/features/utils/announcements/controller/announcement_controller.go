package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	announcementModel "lembagaku_backend/internals/features/utils/announcements/model"
	userModel "lembagaku_backend/internals/features/users/user/model"
	helper "lembagaku_backend/internals/helpers"
	helperAuth "lembagaku_backend/internals/helpers/auth"
)

type AnnouncementController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{DB: db, validate: validator.New()}
}

type upsertAnnouncementRequest struct {
	Title   string     `json:"title" validate:"required,min=3,max=200"`
	Body    string     `json:"body" validate:"required"`
	BatchID *uuid.UUID `json:"batch_id"`
	Active  *bool      `json:"active"`
}

/* ==========================
   POST /api/a/announcements
========================== */

func (ctl *AnnouncementController) Create(c *fiber.Ctx) error {
	var req upsertAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	ann := announcementModel.AnnouncementModel{
		AnnouncementTitle:   req.Title,
		AnnouncementBody:    req.Body,
		AnnouncementBatchID: req.BatchID,
		AnnouncementActive:  true,
	}
	if req.Active != nil {
		ann.AnnouncementActive = *req.Active
	}

	if err := ctl.DB.WithContext(c.Context()).Create(&ann).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat pengumuman")
	}
	return helper.JsonCreated(c, "Pengumuman berhasil dibuat", ann)
}

/* ==========================
   GET /api/a/announcements
========================== */

func (ctl *AnnouncementController) List(c *fiber.Ctx) error {
	page, limit, offset := helper.ResolvePaging(c)

	q := ctl.DB.WithContext(c.Context()).Model(&announcementModel.AnnouncementModel{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung pengumuman")
	}

	var anns []announcementModel.AnnouncementModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&anns).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	return helper.JsonList(c, anns, helper.BuildPagination(page, limit, total))
}

/* ==========================
   PUT /api/a/announcements/:id
========================== */

func (ctl *AnnouncementController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pengumuman tidak valid")
	}

	var req upsertAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{
		"announcement_title":    req.Title,
		"announcement_body":     req.Body,
		"announcement_batch_id": req.BatchID,
	}
	if req.Active != nil {
		updates["announcement_active"] = *req.Active
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&announcementModel.AnnouncementModel{}).
		Where("announcement_id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui pengumuman")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Pengumuman tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Pengumuman berhasil diperbarui", fiber.Map{"announcement_id": id})
}

/* ==========================
   DELETE /api/a/announcements/:id
========================== */

func (ctl *AnnouncementController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pengumuman tidak valid")
	}

	res := ctl.DB.WithContext(c.Context()).
		Delete(&announcementModel.AnnouncementModel{}, "announcement_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus pengumuman")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Pengumuman tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Pengumuman berhasil dihapus", fiber.Map{"announcement_id": id})
}

/* ==========================
   GET /api/u/announcements
========================== */

// ForMe: pengumuman aktif yang berlaku global atau untuk batch user.
func (ctl *AnnouncementController) ForMe(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	q := ctl.DB.WithContext(c.Context()).
		Where("announcement_active = ?", true)
	if user.BatchID != nil {
		q = q.Where("announcement_batch_id IS NULL OR announcement_batch_id = ?", *user.BatchID)
	} else {
		q = q.Where("announcement_batch_id IS NULL")
	}

	var anns []announcementModel.AnnouncementModel
	if err := q.Order("created_at DESC").Limit(50).Find(&anns).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	return helper.JsonOK(c, "OK", anns)
}
