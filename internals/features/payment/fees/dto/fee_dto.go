package dto

import (
	"time"

	"github.com/google/uuid"

	feeModel "lembagaku_backend/internals/features/payment/fees/model"
)

/* ==========================
   Requests
========================== */

type CreateFeeBillingRequest struct {
	BatchID   uuid.UUID `json:"batch_id" validate:"required"`
	Month     int16     `json:"month" validate:"required,min=1,max=12"`
	Year      int16     `json:"year" validate:"required,min=2000,max=2100"`
	Title     string    `json:"title" validate:"required,min=3,max=200"`
	AmountIDR int       `json:"amount_idr" validate:"required,min=0"`
	DueDate   *string   `json:"due_date" validate:"omitempty"` // format 2006-01-02
	Note      *string   `json:"note" validate:"omitempty,max=1000"`
}

/* ==========================
   Responses
========================== */

type FeeBillingResponse struct {
	FeeBillingID uuid.UUID  `json:"fee_billing_id"`
	BatchID      uuid.UUID  `json:"batch_id"`
	Month        int16      `json:"month"`
	Year         int16      `json:"year"`
	Title        string     `json:"title"`
	AmountIDR    int        `json:"amount_idr"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Note         *string    `json:"note,omitempty"`
	BillCount    int64      `json:"bill_count,omitempty"`
	PaidCount    int64      `json:"paid_count,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToFeeBillingResponse(m *feeModel.FeeBillingModel) FeeBillingResponse {
	return FeeBillingResponse{
		FeeBillingID: m.FeeBillingID,
		BatchID:      m.FeeBillingBatchID,
		Month:        m.FeeBillingMonth,
		Year:         m.FeeBillingYear,
		Title:        m.FeeBillingTitle,
		AmountIDR:    m.FeeBillingAmountIDR,
		DueDate:      m.FeeBillingDueDate,
		Note:         m.FeeBillingNote,
		CreatedAt:    m.FeeBillingCreatedAt,
	}
}

type UserFeeBillResponse struct {
	UserFeeBillID uuid.UUID  `json:"user_fee_bill_id"`
	BillingID     uuid.UUID  `json:"billing_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	OrderID       string     `json:"order_id"`
	AmountIDR     int        `json:"amount_idr"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RedirectURL   *string    `json:"redirect_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToUserFeeBillResponse(m *feeModel.UserFeeBillModel) UserFeeBillResponse {
	return UserFeeBillResponse{
		UserFeeBillID: m.UserFeeBillID,
		BillingID:     m.UserFeeBillBillingID,
		UserID:        m.UserFeeBillUserID,
		OrderID:       m.UserFeeBillOrderID,
		AmountIDR:     m.UserFeeBillAmountIDR,
		Status:        string(m.UserFeeBillStatus),
		PaidAt:        m.UserFeeBillPaidAt,
		RedirectURL:   m.UserFeeBillRedirectURL,
		CreatedAt:     m.UserFeeBillCreatedAt,
	}
}

func ToUserFeeBillResponses(ms []feeModel.UserFeeBillModel) []UserFeeBillResponse {
	out := make([]UserFeeBillResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToUserFeeBillResponse(&ms[i]))
	}
	return out
}

type PayFeeBillResponse struct {
	OrderID     string `json:"order_id"`
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url"`
}
