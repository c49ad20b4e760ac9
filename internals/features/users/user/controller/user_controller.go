package controller

import (
	"bytes"
	"errors"
	"image/jpeg"
	"log"

	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
	"lembagaku_backend/internals/features/users/user/dto"
	userModel "lembagaku_backend/internals/features/users/user/model"
	helper "lembagaku_backend/internals/helpers"
	helperAuth "lembagaku_backend/internals/helpers/auth"
	helperOSS "lembagaku_backend/internals/helpers/oss"
)

type UserController struct {
	DB       *gorm.DB
	OSS      *helperOSS.OSSService
	validate *validator.Validate
}

func NewUserController(db *gorm.DB, oss *helperOSS.OSSService) *UserController {
	return &UserController{DB: db, OSS: oss, validate: validator.New()}
}

/* ==========================
   GET /api/u/users/me
========================== */

func (ctl *UserController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonOK(c, "OK", dto.ToUserResponse(&user))
}

/* ==========================
   PUT /api/u/users/me
========================== */

func (ctl *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if req.UserName != nil {
		updates["user_name"] = *req.UserName
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if len(updates) > 0 {
		if err := ctl.DB.WithContext(c.Context()).
			Model(&userModel.UserModel{}).
			Where("id = ?", userID).
			Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui profil")
		}
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil profil")
	}
	return helper.JsonUpdated(c, "Profil berhasil diperbarui", dto.ToUserResponse(&user))
}

/* ==========================
   POST /api/u/users/me/photo
========================== */

// UploadPhoto mengganti foto profil sekaligus foto referensi face matching.
// Foto utama disimpan sebagai WebP; thumbnail 256x256 JPEG untuk listing.
func (ctl *UserController) UploadPhoto(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if ctl.OSS == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Penyimpanan foto belum dikonfigurasi")
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Foto wajib dilampirkan")
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	url, key, err := ctl.OSS.UploadAsWebP(c.Context(), fh, "users/photos")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal mengunggah foto: "+err.Error())
	}

	// Thumbnail best-effort; foto utama tetap jalan walau thumbnail gagal.
	thumbURL := ""
	if f, oerr := fh.Open(); oerr == nil {
		if img, derr := imaging.Decode(f, imaging.AutoOrientation(true)); derr == nil {
			thumb := imaging.Fill(img, 256, 256, imaging.Center, imaging.Lanczos)
			var buf bytes.Buffer
			if eerr := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); eerr == nil {
				if tu, _, uerr := ctl.OSS.UploadBytes(c.Context(), buf.Bytes(), "users/thumbs", "image/jpeg", ".jpg"); uerr == nil {
					thumbURL = tu
				} else {
					log.Printf("[WARN] upload thumbnail user %s gagal: %v", userID, uerr)
				}
			}
		}
		_ = f.Close()
	}

	// Foto lama dihapus best-effort
	if user.PhotoKey != nil && *user.PhotoKey != "" {
		if derr := ctl.OSS.DeleteObject(*user.PhotoKey); derr != nil {
			log.Printf("[WARN] hapus foto lama %s gagal: %v", *user.PhotoKey, derr)
		}
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"photo_url": url,
			"photo_key": key,
		}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan foto")
	}

	return helper.JsonOK(c, "Foto profil berhasil diperbarui", dto.PhotoUploadResponse{
		PhotoURL:     url,
		ThumbnailURL: thumbURL,
	})
}

/* ==========================
   GET /api/a/users (admin)
========================== */

func (ctl *UserController) List(c *fiber.Ctx) error {
	page, limit, offset := helper.ResolvePaging(c)

	q := ctl.DB.WithContext(c.Context()).Model(&userModel.UserModel{})
	if v := c.Query("batch_id"); v != "" {
		bid, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		q = q.Where("batch_id = ?", bid)
	}
	if v := c.Query("role"); v != "" {
		q = q.Where("role = ?", v)
	}
	if v := c.Query("search"); v != "" {
		like := "%" + v + "%"
		q = q.Where("user_name ILIKE ? OR full_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung user")
	}

	var users []userModel.UserModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar user")
	}

	return helper.JsonList(c, dto.ToUserResponses(users), helper.BuildPagination(page, limit, total))
}

/* ==========================
   GET /api/a/users/:id (admin)
========================== */

func (ctl *UserController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}
	return helper.JsonOK(c, "OK", dto.ToUserResponse(&user))
}

/* ==========================
   PUT /api/a/users/:id/batch (admin)
========================== */

func (ctl *UserController) AssignBatch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	var req dto.AssignBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	if req.BatchID != nil {
		var batch batchModel.BatchModel
		if err := ctl.DB.WithContext(c.Context()).First(&batch, "batch_id = ?", *req.BatchID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("id = ?", id).
		Update("batch_id", req.BatchID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memindahkan user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	msg := "User dikeluarkan dari batch"
	if req.BatchID != nil {
		msg = "User dipindahkan ke batch"
	}
	return helper.JsonUpdated(c, msg, fiber.Map{"user_id": id, "batch_id": req.BatchID})
}

/* ==========================
   PUT /api/a/users/:id/active (admin)
========================== */

func (ctl *UserController) SetActive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("id = ?", id).
		Update("is_active", req.IsActive)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah status user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	msg := "User dinonaktifkan"
	if req.IsActive {
		msg = "User diaktifkan"
	}
	return helper.JsonUpdated(c, msg, fiber.Map{"user_id": id, "is_active": req.IsActive})
}
