package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enum kecil biar aman saat dipakai di code
type UserFeeBillStatus string

const (
	FeeUnpaid   UserFeeBillStatus = "unpaid"
	FeePending  UserFeeBillStatus = "pending" // Snap token sudah terbit, menunggu pembayaran
	FeePaid     UserFeeBillStatus = "paid"
	FeeExpired  UserFeeBillStatus = "expired"
	FeeCanceled UserFeeBillStatus = "canceled"
)

type UserFeeBillModel struct {
	UserFeeBillID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_fee_bill_id" json:"user_fee_bill_id"`

	// FK ke header billing (NOT NULL)
	UserFeeBillBillingID uuid.UUID `gorm:"type:uuid;not null;column:user_fee_bill_billing_id;index:idx_user_fee_bills_billing" json:"user_fee_bill_billing_id"`

	// FK ke users.id (nullable → ON DELETE SET NULL)
	UserFeeBillUserID *uuid.UUID `gorm:"type:uuid;column:user_fee_bill_user_id;index:idx_user_fee_bills_user" json:"user_fee_bill_user_id,omitempty"`

	// Order ID unik untuk gateway pembayaran
	UserFeeBillOrderID string `gorm:"type:varchar(64);not null;uniqueIndex;column:user_fee_bill_order_id" json:"user_fee_bill_order_id"`

	UserFeeBillAmountIDR int               `gorm:"not null;check:user_fee_bill_amount_idr >= 0;column:user_fee_bill_amount_idr" json:"user_fee_bill_amount_idr"`
	UserFeeBillStatus    UserFeeBillStatus `gorm:"type:varchar(20);not null;default:unpaid;column:user_fee_bill_status" json:"user_fee_bill_status"`
	UserFeeBillPaidAt    *time.Time        `gorm:"column:user_fee_bill_paid_at" json:"user_fee_bill_paid_at,omitempty"`
	UserFeeBillNote      *string           `gorm:"type:text;column:user_fee_bill_note" json:"user_fee_bill_note,omitempty"`

	// Snap (terisi saat user mulai bayar)
	UserFeeBillSnapToken   *string `gorm:"type:text;column:user_fee_bill_snap_token" json:"user_fee_bill_snap_token,omitempty"`
	UserFeeBillRedirectURL *string `gorm:"type:text;column:user_fee_bill_redirect_url" json:"user_fee_bill_redirect_url,omitempty"`

	UserFeeBillCreatedAt time.Time      `gorm:"autoCreateTime;column:user_fee_bill_created_at" json:"user_fee_bill_created_at"`
	UserFeeBillUpdatedAt *time.Time     `gorm:"autoUpdateTime;column:user_fee_bill_updated_at" json:"user_fee_bill_updated_at,omitempty"`
	UserFeeBillDeletedAt gorm.DeletedAt `gorm:"index;column:user_fee_bill_deleted_at" json:"user_fee_bill_deleted_at,omitempty"`
}

func (UserFeeBillModel) TableName() string { return "user_fee_bills" }

func (m *UserFeeBillModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserFeeBillID == uuid.Nil {
		m.UserFeeBillID = uuid.New()
	}
	return nil
}
