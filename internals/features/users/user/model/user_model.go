package model

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validator instance
var validate = validator.New()

// AttendanceStats adalah counter absensi denormalisasi yang menempel di users.
// Ini murni cache: sumber kebenarannya tabel attendances, dan seluruh field
// selalu dihitung ulang dari nol oleh stats service (tidak pernah di-increment).
type AttendanceStats struct {
	Present    int `gorm:"not null;default:0" json:"present"`
	Absent     int `gorm:"not null;default:0" json:"absent"`
	Late       int `gorm:"not null;default:0" json:"late"`
	HalfDay    int `gorm:"not null;default:0" json:"half_day"`
	Percentage int `gorm:"not null;default:0" json:"percentage"`
}

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	FullName string    `gorm:"size:100" json:"full_name"`
	Email    string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"not null" json:"-" validate:"required,min=8"`
	GoogleID *string   `gorm:"size:255;unique" json:"google_id,omitempty"`
	Role     string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Batch yang diikuti user (nil = belum ditempatkan di batch manapun)
	BatchID *uuid.UUID `gorm:"type:uuid;index" json:"batch_id,omitempty"`

	// Foto profil sekaligus foto referensi untuk face matching saat absen
	PhotoURL *string `gorm:"size:512" json:"photo_url,omitempty"`
	PhotoKey *string `gorm:"size:512" json:"-"`

	AttendanceStats AttendanceStats `gorm:"embedded;embeddedPrefix:attendance_" json:"attendance_stats"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetDefaultValues memastikan nilai default sebelum validasi
func (u *UserModel) SetDefaultValues() {
	if u.Role == "" {
		u.Role = "user"
	}
}

// Validate memeriksa apakah input sesuai aturan yang telah didefinisikan
func (u *UserModel) Validate() error {
	u.SetDefaultValues()

	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError mengubah error validasi menjadi pesan yang lebih jelas
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		msg := ""
		for _, fieldErr := range validationErrs {
			switch fieldErr.Tag() {
			case "required":
				msg += fieldErr.Field() + " wajib diisi.\n"
			case "email":
				msg += "Format email tidak valid.\n"
			case "min":
				msg += fieldErr.Field() + " harus minimal " + fieldErr.Param() + " karakter.\n"
			case "max":
				msg += fieldErr.Field() + " harus kurang dari " + fieldErr.Param() + " karakter.\n"
			default:
				msg += fieldErr.Field() + ": format tidak valid.\n"
			}
		}
		return errors.New(msg)
	}
	return err
}
