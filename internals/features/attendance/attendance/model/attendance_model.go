// file: internals/features/attendance/attendance/model/attendance_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttendanceActivity adalah satu entri log audit pada record absensi.
// Log ini append-only: setiap transisi state (check-in, check-out, mark
// manual, edit admin, cleanup) menambah satu entri, tidak pernah menghapus.
type AttendanceActivity struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// AttendanceModel merepresentasikan tabel attendances: satu record per
// (user, hari kalender). Keunikan pasangan itu dijaga oleh unique index
// di DB, bukan hanya oleh pengecekan aplikasi.
type AttendanceModel struct {
	AttendanceID      uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_id" json:"attendance_id"`
	AttendanceUserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_date;column:attendance_user_id" json:"attendance_user_id"`
	AttendanceBatchID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_batch_id" json:"attendance_batch_id"`

	// Tengah malam pada timezone lembaga
	AttendanceDate time.Time `gorm:"not null;uniqueIndex:idx_attendance_user_date;column:attendance_date" json:"attendance_date"`

	// ---- Check-in (time bersifat write-once) ----
	AttendanceCheckInTime       *time.Time `gorm:"column:attendance_check_in_time" json:"attendance_check_in_time,omitempty"`
	AttendanceCheckInPhotoURL   *string    `gorm:"size:512;column:attendance_check_in_photo_url" json:"attendance_check_in_photo_url,omitempty"`
	AttendanceCheckInPhotoKey   *string    `gorm:"size:512;column:attendance_check_in_photo_key" json:"-"`
	AttendanceCheckInLat        *float64   `gorm:"column:attendance_check_in_lat" json:"attendance_check_in_lat,omitempty"`
	AttendanceCheckInLng        *float64   `gorm:"column:attendance_check_in_lng" json:"attendance_check_in_lng,omitempty"`
	AttendanceCheckInDevice     *string    `gorm:"size:255;column:attendance_check_in_device" json:"attendance_check_in_device,omitempty"`
	AttendanceCheckInFaceScore  *float64   `gorm:"column:attendance_check_in_face_score" json:"attendance_check_in_face_score,omitempty"`

	// ---- Check-out (time bersifat write-once) ----
	AttendanceCheckOutTime      *time.Time `gorm:"column:attendance_check_out_time" json:"attendance_check_out_time,omitempty"`
	AttendanceCheckOutPhotoURL  *string    `gorm:"size:512;column:attendance_check_out_photo_url" json:"attendance_check_out_photo_url,omitempty"`
	AttendanceCheckOutPhotoKey  *string    `gorm:"size:512;column:attendance_check_out_photo_key" json:"-"`
	AttendanceCheckOutLat       *float64   `gorm:"column:attendance_check_out_lat" json:"attendance_check_out_lat,omitempty"`
	AttendanceCheckOutLng       *float64   `gorm:"column:attendance_check_out_lng" json:"attendance_check_out_lng,omitempty"`
	AttendanceCheckOutDevice    *string    `gorm:"size:255;column:attendance_check_out_device" json:"attendance_check_out_device,omitempty"`
	AttendanceCheckOutFaceScore *float64   `gorm:"column:attendance_check_out_face_score" json:"attendance_check_out_face_score,omitempty"`

	AttendanceStatus string `gorm:"type:varchar(16);not null;default:'absent';column:attendance_status" json:"attendance_status"`

	AttendanceActivities datatypes.JSON `gorm:"column:attendance_activities" json:"attendance_activities,omitempty"`
	AttendanceRemarks    *string        `gorm:"type:text;column:attendance_remarks" json:"attendance_remarks,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"autoCreateTime;column:attendance_created_at" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"autoUpdateTime;column:attendance_updated_at" json:"attendance_updated_at"`
}

func (AttendanceModel) TableName() string {
	return "attendances"
}

func (a *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.AttendanceID == uuid.Nil {
		a.AttendanceID = uuid.New()
	}
	return nil
}

// Activities meng-decode log aktivitas. JSON korup dianggap log kosong
// (log ini diagnostik, jangan sampai memblokir operasi).
func (a *AttendanceModel) Activities() []AttendanceActivity {
	if len(a.AttendanceActivities) == 0 {
		return nil
	}
	var out []AttendanceActivity
	if err := json.Unmarshal(a.AttendanceActivities, &out); err != nil {
		return nil
	}
	return out
}

// AppendActivity menambah satu entri ke log aktivitas.
func (a *AttendanceModel) AppendActivity(description string, at time.Time) {
	acts := append(a.Activities(), AttendanceActivity{
		Description: description,
		Timestamp:   at,
	})
	if raw, err := json.Marshal(acts); err == nil {
		a.AttendanceActivities = datatypes.JSON(raw)
	}
}
