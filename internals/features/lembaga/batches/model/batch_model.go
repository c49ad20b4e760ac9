// file: internals/features/lembaga/batches/model/batch_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status batch. Check-in absensi hanya diizinkan saat batch "running".
const (
	BatchStatusUpcoming  = "upcoming"
	BatchStatusRunning   = "running"
	BatchStatusCompleted = "completed"
)

type BatchModel struct {
	BatchID          uuid.UUID `gorm:"type:uuid;primaryKey;column:batch_id" json:"batch_id"`
	BatchName        string    `gorm:"size:100;not null;column:batch_name" json:"batch_name"`
	BatchCode        string    `gorm:"size:30;uniqueIndex;not null;column:batch_code" json:"batch_code"`
	BatchDescription *string   `gorm:"type:text;column:batch_description" json:"batch_description,omitempty"`

	// Jadwal kelas harian (jam dinding "HH:mm" pada timezone lembaga)
	BatchClassStartTime       string `gorm:"size:5;not null;default:'09:00';column:batch_class_start_time" json:"batch_class_start_time"`
	BatchClassEndTime         string `gorm:"size:5;not null;default:'17:00';column:batch_class_end_time" json:"batch_class_end_time"`
	BatchLateThresholdMinutes int    `gorm:"not null;default:15;column:batch_late_threshold_minutes" json:"batch_late_threshold_minutes"`

	BatchStatus string `gorm:"type:varchar(16);not null;default:'upcoming';column:batch_status" json:"batch_status"`

	BatchCreatedAt time.Time      `gorm:"autoCreateTime;column:batch_created_at" json:"batch_created_at"`
	BatchUpdatedAt time.Time      `gorm:"autoUpdateTime;column:batch_updated_at" json:"batch_updated_at"`
	BatchDeletedAt gorm.DeletedAt `gorm:"column:batch_deleted_at;index" json:"batch_deleted_at,omitempty"`
}

func (BatchModel) TableName() string {
	return "batches"
}

func (b *BatchModel) BeforeCreate(tx *gorm.DB) error {
	if b.BatchID == uuid.Nil {
		b.BatchID = uuid.New()
	}
	return nil
}

func (b *BatchModel) IsRunning() bool {
	return b.BatchStatus == BatchStatusRunning
}
