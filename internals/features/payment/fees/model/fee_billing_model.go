package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeBillingModel: header tagihan iuran per batch per periode.
// Satu header melahirkan satu UserFeeBillModel untuk tiap anggota batch.
type FeeBillingModel struct {
	FeeBillingID uuid.UUID `gorm:"column:fee_billing_id;type:uuid;primaryKey" json:"fee_billing_id"`

	FeeBillingBatchID uuid.UUID `gorm:"column:fee_billing_batch_id;type:uuid;not null;index" json:"fee_billing_batch_id"`

	// Periode
	FeeBillingMonth int16 `gorm:"column:fee_billing_month;type:smallint;not null" json:"fee_billing_month"` // 1..12
	FeeBillingYear  int16 `gorm:"column:fee_billing_year;type:smallint;not null"  json:"fee_billing_year"`

	FeeBillingTitle     string     `gorm:"column:fee_billing_title;type:text;not null" json:"fee_billing_title"`
	FeeBillingAmountIDR int        `gorm:"column:fee_billing_amount_idr;not null;check:fee_billing_amount_idr >= 0" json:"fee_billing_amount_idr"`
	FeeBillingDueDate   *time.Time `gorm:"column:fee_billing_due_date;type:date" json:"fee_billing_due_date,omitempty"`
	FeeBillingNote      *string    `gorm:"column:fee_billing_note;type:text" json:"fee_billing_note,omitempty"`

	FeeBillingCreatedAt time.Time      `gorm:"column:fee_billing_created_at;autoCreateTime" json:"fee_billing_created_at"`
	FeeBillingUpdatedAt *time.Time     `gorm:"column:fee_billing_updated_at;autoUpdateTime" json:"fee_billing_updated_at,omitempty"`
	FeeBillingDeletedAt gorm.DeletedAt `gorm:"column:fee_billing_deleted_at;index" json:"fee_billing_deleted_at,omitempty"`
}

func (FeeBillingModel) TableName() string { return "fee_billings" }

func (m *FeeBillingModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeBillingID == uuid.Nil {
		m.FeeBillingID = uuid.New()
	}
	return nil
}
