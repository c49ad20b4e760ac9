package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"lembagaku_backend/internals/features/payment/fees/dto"
	feeModel "lembagaku_backend/internals/features/payment/fees/model"
	feeService "lembagaku_backend/internals/features/payment/fees/service"
	userModel "lembagaku_backend/internals/features/users/user/model"
	helper "lembagaku_backend/internals/helpers"
	helperAuth "lembagaku_backend/internals/helpers/auth"
)

// UserFeeBillController: jalur user untuk melihat & membayar tagihannya sendiri.
type UserFeeBillController struct {
	DB *gorm.DB
}

func NewUserFeeBillController(db *gorm.DB) *UserFeeBillController {
	return &UserFeeBillController{DB: db}
}

/* ==========================
   GET /api/u/fees
========================== */

func (ctl *UserFeeBillController) MyBills(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	page, limit, offset := helper.ResolvePaging(c)

	q := ctl.DB.WithContext(c.Context()).
		Model(&feeModel.UserFeeBillModel{}).
		Where("user_fee_bill_user_id = ?", userID)
	if v := c.Query("status"); v != "" {
		q = q.Where("user_fee_bill_status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung tagihan")
	}

	var bills []feeModel.UserFeeBillModel
	if err := q.Order("user_fee_bill_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&bills).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tagihan")
	}

	return helper.JsonList(c, dto.ToUserFeeBillResponses(bills), helper.BuildPagination(page, limit, total))
}

/* ==========================
   POST /api/u/fees/:id/pay
========================== */

// Pay menerbitkan Snap token Midtrans untuk tagihan milik user sendiri.
func (ctl *UserFeeBillController) Pay(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	billID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	var bill feeModel.UserFeeBillModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_fee_bill_id = ? AND user_fee_bill_user_id = ?", billID, userID).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tagihan")
	}

	switch bill.UserFeeBillStatus {
	case feeModel.FeePaid:
		return helper.JsonError(c, fiber.StatusConflict, "Tagihan sudah dibayar")
	case feeModel.FeeCanceled:
		return helper.JsonError(c, fiber.StatusConflict, "Tagihan sudah dibatalkan")
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	// Token lama masih bisa dipakai selama status pending
	if bill.UserFeeBillStatus == feeModel.FeePending && bill.UserFeeBillSnapToken != nil {
		return helper.JsonOK(c, "OK", dto.PayFeeBillResponse{
			OrderID:     bill.UserFeeBillOrderID,
			SnapToken:   *bill.UserFeeBillSnapToken,
			RedirectURL: deref(bill.UserFeeBillRedirectURL),
		})
	}

	token, redirectURL, err := feeService.GenerateSnapToken(bill, user.FullName, user.Email)
	if err != nil {
		log.Printf("[ERROR] Gagal buat Snap token order %s: %v", bill.UserFeeBillOrderID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal menghubungi payment gateway")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&feeModel.UserFeeBillModel{}).
		Where("user_fee_bill_id = ?", bill.UserFeeBillID).
		Updates(map[string]any{
			"user_fee_bill_status":       string(feeModel.FeePending),
			"user_fee_bill_snap_token":   token,
			"user_fee_bill_redirect_url": redirectURL,
		}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan token pembayaran")
	}

	return helper.JsonOK(c, "Token pembayaran diterbitkan", dto.PayFeeBillResponse{
		OrderID:     bill.UserFeeBillOrderID,
		SnapToken:   token,
		RedirectURL: redirectURL,
	})
}

/* ==========================
   POST /api/fees/webhook (public, dipanggil Midtrans)
========================== */

func (ctl *UserFeeBillController) Webhook(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := feeService.HandleFeeStatusWebhook(ctl.DB, body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonOK(c, "OK", nil)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
