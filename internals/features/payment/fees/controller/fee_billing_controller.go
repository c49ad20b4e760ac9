package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
	"lembagaku_backend/internals/features/payment/fees/dto"
	feeModel "lembagaku_backend/internals/features/payment/fees/model"
	userModel "lembagaku_backend/internals/features/users/user/model"
	helper "lembagaku_backend/internals/helpers"
)

// FeeBillingController: jalur admin untuk menerbitkan & memantau tagihan iuran.
type FeeBillingController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewFeeBillingController(db *gorm.DB) *FeeBillingController {
	return &FeeBillingController{DB: db, validate: validator.New()}
}

/* ==========================
   POST /api/a/fees
========================== */

// Create menerbitkan header billing lalu satu tagihan per anggota batch,
// dalam satu transaksi.
func (ctl *FeeBillingController) Create(c *fiber.Ctx) error {
	var req dto.CreateFeeBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var batch batchModel.BatchModel
	if err := ctl.DB.WithContext(c.Context()).First(&batch, "batch_id = ?", req.BatchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	var dueDate *time.Time
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format due_date harus 2006-01-02")
		}
		dueDate = &d
	}

	var members []userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("batch_id = ? AND is_active = ?", req.BatchID, true).
		Find(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil anggota batch")
	}
	if len(members) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Batch tidak punya anggota aktif")
	}

	billing := feeModel.FeeBillingModel{
		FeeBillingBatchID:   req.BatchID,
		FeeBillingMonth:     req.Month,
		FeeBillingYear:      req.Year,
		FeeBillingTitle:     req.Title,
		FeeBillingAmountIDR: req.AmountIDR,
		FeeBillingDueDate:   dueDate,
		FeeBillingNote:      req.Note,
	}

	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&billing).Error; err != nil {
			return err
		}
		bills := make([]feeModel.UserFeeBillModel, 0, len(members))
		for i := range members {
			uid := members[i].ID
			bills = append(bills, feeModel.UserFeeBillModel{
				UserFeeBillBillingID: billing.FeeBillingID,
				UserFeeBillUserID:    &uid,
				UserFeeBillOrderID:   newFeeOrderID(),
				UserFeeBillAmountIDR: req.AmountIDR,
				UserFeeBillStatus:    feeModel.FeeUnpaid,
			})
		}
		return tx.Create(&bills).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan tagihan")
	}

	resp := dto.ToFeeBillingResponse(&billing)
	resp.BillCount = int64(len(members))
	return helper.JsonCreated(c, fmt.Sprintf("Tagihan diterbitkan untuk %d anggota", len(members)), resp)
}

/* ==========================
   GET /api/a/fees
========================== */

func (ctl *FeeBillingController) List(c *fiber.Ctx) error {
	page, limit, offset := helper.ResolvePaging(c)

	q := ctl.DB.WithContext(c.Context()).Model(&feeModel.FeeBillingModel{})
	if v := c.Query("batch_id"); v != "" {
		bid, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		q = q.Where("fee_billing_batch_id = ?", bid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung tagihan")
	}

	var billings []feeModel.FeeBillingModel
	if err := q.Order("fee_billing_year DESC, fee_billing_month DESC").
		Limit(limit).Offset(offset).
		Find(&billings).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tagihan")
	}

	out := make([]dto.FeeBillingResponse, 0, len(billings))
	for i := range billings {
		resp := dto.ToFeeBillingResponse(&billings[i])
		ctl.DB.WithContext(c.Context()).Model(&feeModel.UserFeeBillModel{}).
			Where("user_fee_bill_billing_id = ?", billings[i].FeeBillingID).
			Count(&resp.BillCount)
		ctl.DB.WithContext(c.Context()).Model(&feeModel.UserFeeBillModel{}).
			Where("user_fee_bill_billing_id = ? AND user_fee_bill_status = ?", billings[i].FeeBillingID, feeModel.FeePaid).
			Count(&resp.PaidCount)
		out = append(out, resp)
	}

	return helper.JsonList(c, out, helper.BuildPagination(page, limit, total))
}

/* ==========================
   GET /api/a/fees/:id
========================== */

func (ctl *FeeBillingController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	var billing feeModel.FeeBillingModel
	if err := ctl.DB.WithContext(c.Context()).First(&billing, "fee_billing_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tagihan")
	}

	var bills []feeModel.UserFeeBillModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_fee_bill_billing_id = ?", id).
		Order("user_fee_bill_created_at ASC").
		Find(&bills).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil detail tagihan")
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"billing": dto.ToFeeBillingResponse(&billing),
		"bills":   dto.ToUserFeeBillResponses(bills),
	})
}

/* ==========================
   DELETE /api/a/fees/:id (soft delete)
========================== */

func (ctl *FeeBillingController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	var paidCount int64
	ctl.DB.WithContext(c.Context()).Model(&feeModel.UserFeeBillModel{}).
		Where("user_fee_bill_billing_id = ? AND user_fee_bill_status = ?", id, feeModel.FeePaid).
		Count(&paidCount)
	if paidCount > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Ada tagihan yang sudah dibayar, tidak bisa dihapus")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_fee_bill_billing_id = ?", id).
			Delete(&feeModel.UserFeeBillModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&feeModel.FeeBillingModel{}, "fee_billing_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus tagihan")
	}
	return helper.JsonDeleted(c, "Tagihan berhasil dihapus", fiber.Map{"fee_billing_id": id})
}

/* ==========================
   Util
========================== */

func newFeeOrderID() string {
	return fmt.Sprintf("FEE-%d-%s", time.Now().Unix(), strings.Split(uuid.NewString(), "-")[0])
}
