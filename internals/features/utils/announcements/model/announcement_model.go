package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementModel struct {
	AnnouncementID      uuid.UUID  `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementTitle   string     `gorm:"column:announcement_title;type:text;not null" json:"announcement_title"`
	AnnouncementBody    string     `gorm:"column:announcement_body;type:text;not null" json:"announcement_body"`
	AnnouncementBatchID *uuid.UUID `gorm:"column:announcement_batch_id;type:uuid;index" json:"announcement_batch_id,omitempty"` // nil = untuk semua batch
	AnnouncementActive  bool       `gorm:"column:announcement_active;not null;default:true" json:"announcement_active"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel konsisten
func (AnnouncementModel) TableName() string {
	return "announcements"
}

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}
