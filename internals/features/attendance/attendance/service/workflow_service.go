// file: internals/features/attendance/attendance/service/workflow_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	attendanceModel "lembagaku_backend/internals/features/attendance/attendance/model"
	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
	userModel "lembagaku_backend/internals/features/users/user/model"
	"lembagaku_backend/internals/helpers/dbtime"
)

/* ==========================
   Service & constructor
========================== */

// AttendanceService mengorkestrasi workflow check-in/check-out/mark manual
// plus rekonsiliasi statistik. Faces boleh nil (face matching dimatikan).
type AttendanceService struct {
	DB     *gorm.DB
	Photos PhotoStore
	Faces  FaceScorer
	Loc    *time.Location
}

func NewAttendanceService(db *gorm.DB, photos PhotoStore, faces FaceScorer, loc *time.Location) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{DB: db, Photos: photos, Faces: faces, Loc: loc}
}

// GeoPoint: lokasi opsional yang dikirim klien saat absen.
type GeoPoint struct {
	Lat float64
	Lng float64
}

/* ==========================
   CHECK-IN
========================== */

func (s *AttendanceService) CheckIn(ctx context.Context, userID uuid.UUID, photo *multipart.FileHeader, geo *GeoPoint, deviceInfo string) (*attendanceModel.AttendanceModel, error) {
	now := time.Now().In(s.Loc)
	today := dbtime.DayStart(now, s.Loc)

	var user userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
	}
	if user.BatchID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Anda belum terdaftar di batch manapun")
	}

	var batch batchModel.BatchModel
	if err := s.DB.WithContext(ctx).First(&batch, "batch_id = ?", *user.BatchID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Batch tidak ditemukan")
	}
	if !batch.IsRunning() {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Batch %s belum berjalan (status: %s), check-in belum dibuka", batch.BatchName, batch.BatchStatus))
	}

	// Record hari ini (bisa sudah ada kalau admin pre-create via mark manual)
	var existing attendanceModel.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_user_id = ? AND attendance_date = ?", userID, today).
		First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if found && existing.AttendanceCheckInTime != nil {
		return nil, duplicateCheckInError(existing.AttendanceCheckInTime.In(s.Loc))
	}

	if photo == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Foto wajib dilampirkan saat check-in")
	}

	// Upload foto dulu; gagal upload = gagal check-in (tidak ada record setengah jadi).
	// Upload berjalan di luar transaksi/lock DB manapun.
	stored, err := s.Photos.StorePhoto(ctx, photo, "attendance/check-in")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal mengunggah foto check-in: "+err.Error())
	}

	var faceScore *float64
	if user.PhotoURL != nil {
		faceScore = bestEffortFaceScore(ctx, s.Faces, *user.PhotoURL, stored.URL)
	}

	startMin, perr := dbtime.ParseClock(batch.BatchClassStartTime)
	if perr != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Jam mulai kelas batch tidak valid: "+perr.Error())
	}
	status := ClassifyOnCheckIn(dbtime.MinutesOfDay(now, s.Loc), startMin, batch.BatchLateThresholdMinutes)

	var rec attendanceModel.AttendanceModel
	if !found {
		rec = attendanceModel.AttendanceModel{
			AttendanceUserID:           userID,
			AttendanceBatchID:          *user.BatchID,
			AttendanceDate:             today,
			AttendanceCheckInTime:      &now,
			AttendanceCheckInPhotoURL:  &stored.URL,
			AttendanceCheckInPhotoKey:  &stored.Key,
			AttendanceCheckInDevice:    strPtrOrNil(deviceInfo),
			AttendanceCheckInFaceScore: faceScore,
			AttendanceStatus:           string(status),
		}
		if geo != nil {
			rec.AttendanceCheckInLat = &geo.Lat
			rec.AttendanceCheckInLng = &geo.Lng
		}
		rec.AppendActivity(fmt.Sprintf("Check-in %s (%s)", now.Format("15:04"), status), now)

		if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				// Kalah race dengan check-in paralel untuk (user, hari) yang sama.
				return nil, s.duplicateCheckInFromDB(ctx, userID, today)
			}
			return nil, err
		}
	} else {
		// Record pre-created admin: isi kolom check-in secara kondisional.
		// Guard "check_in_time IS NULL" menutup race antar dua check-in paralel.
		existing.AppendActivity(fmt.Sprintf("Check-in %s (%s)", now.Format("15:04"), status), now)
		updates := map[string]any{
			"attendance_check_in_time":      &now,
			"attendance_check_in_photo_url": stored.URL,
			"attendance_check_in_photo_key": stored.Key,
			"attendance_check_in_device":    strPtrOrNil(deviceInfo),
			"attendance_status":             string(status),
			"attendance_activities":         existing.AttendanceActivities,
		}
		if faceScore != nil {
			updates["attendance_check_in_face_score"] = *faceScore
		}
		if geo != nil {
			updates["attendance_check_in_lat"] = geo.Lat
			updates["attendance_check_in_lng"] = geo.Lng
		}
		res := s.DB.WithContext(ctx).
			Model(&attendanceModel.AttendanceModel{}).
			Where("attendance_id = ? AND attendance_check_in_time IS NULL", existing.AttendanceID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, s.duplicateCheckInFromDB(ctx, userID, today)
		}
		if err := s.DB.WithContext(ctx).First(&rec, "attendance_id = ?", existing.AttendanceID).Error; err != nil {
			return nil, err
		}
	}

	// Sinkron: stats user harus segar sebelum response. Gagal recompute tidak
	// membatalkan check-in (stats hanya cache, bisa diperbaiki lewat recalculate).
	if _, err := s.RecomputeStatsForUser(ctx, userID); err != nil {
		log.Printf("[WARN] recompute stats user %s setelah check-in gagal: %v", userID, err)
	}

	return &rec, nil
}

/* ==========================
   CHECK-OUT
========================== */

func (s *AttendanceService) CheckOut(ctx context.Context, userID uuid.UUID, photo *multipart.FileHeader, geo *GeoPoint, deviceInfo string) (*attendanceModel.AttendanceModel, error) {
	now := time.Now().In(s.Loc)
	today := dbtime.DayStart(now, s.Loc)

	var rec attendanceModel.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_user_id = ? AND attendance_date = ?", userID, today).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && rec.AttendanceCheckInTime == nil) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Belum ada check-in hari ini, tidak bisa check-out")
	}
	if err != nil {
		return nil, err
	}
	if rec.AttendanceCheckOutTime != nil {
		return nil, fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Sudah check-out hari ini pada %s", rec.AttendanceCheckOutTime.In(s.Loc).Format("15:04")))
	}

	if photo == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Foto wajib dilampirkan saat check-out")
	}
	stored, err := s.Photos.StorePhoto(ctx, photo, "attendance/check-out")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal mengunggah foto check-out: "+err.Error())
	}

	var faceScore *float64
	var user userModel.UserModel
	if uerr := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; uerr == nil && user.PhotoURL != nil {
		faceScore = bestEffortFaceScore(ctx, s.Faces, *user.PhotoURL, stored.URL)
	}

	var batch batchModel.BatchModel
	if err := s.DB.WithContext(ctx).First(&batch, "batch_id = ?", rec.AttendanceBatchID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Batch tidak ditemukan")
	}
	startMin, err1 := dbtime.ParseClock(batch.BatchClassStartTime)
	endMin, err2 := dbtime.ParseClock(batch.BatchClassEndTime)
	if err1 != nil || err2 != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Jam kelas batch tidak valid")
	}

	sessionMinutes := int(now.Sub(*rec.AttendanceCheckInTime).Minutes())
	halfDayThreshold := (endMin - startMin) / 2
	newStatus := ReclassifyOnCheckOut(Status(rec.AttendanceStatus), sessionMinutes, halfDayThreshold)

	if newStatus == StatusHalfDay && Status(rec.AttendanceStatus) != StatusHalfDay {
		rec.AppendActivity(fmt.Sprintf("Check-out %s (sesi %d menit, status turun jadi %s)", now.Format("15:04"), sessionMinutes, newStatus), now)
	} else {
		rec.AppendActivity(fmt.Sprintf("Check-out %s (sesi %d menit)", now.Format("15:04"), sessionMinutes), now)
	}

	updates := map[string]any{
		"attendance_check_out_time":      &now,
		"attendance_check_out_photo_url": stored.URL,
		"attendance_check_out_photo_key": stored.Key,
		"attendance_check_out_device":    strPtrOrNil(deviceInfo),
		"attendance_status":              string(newStatus),
		"attendance_activities":          rec.AttendanceActivities,
	}
	if faceScore != nil {
		updates["attendance_check_out_face_score"] = *faceScore
	}
	if geo != nil {
		updates["attendance_check_out_lat"] = geo.Lat
		updates["attendance_check_out_lng"] = geo.Lng
	}

	// Write-once: hanya menang kalau check_out_time masih NULL.
	res := s.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_id = ? AND attendance_check_out_time IS NULL", rec.AttendanceID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var cur attendanceModel.AttendanceModel
		if err := s.DB.WithContext(ctx).First(&cur, "attendance_id = ?", rec.AttendanceID).Error; err == nil && cur.AttendanceCheckOutTime != nil {
			return nil, fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Sudah check-out hari ini pada %s", cur.AttendanceCheckOutTime.In(s.Loc).Format("15:04")))
		}
		return nil, fiber.NewError(fiber.StatusConflict, "Check-out gagal karena record berubah, coba lagi")
	}

	if err := s.DB.WithContext(ctx).First(&rec, "attendance_id = ?", rec.AttendanceID).Error; err != nil {
		return nil, err
	}

	if _, err := s.RecomputeStatsForUser(ctx, userID); err != nil {
		log.Printf("[WARN] recompute stats user %s setelah check-out gagal: %v", userID, err)
	}
	return &rec, nil
}

/* ==========================
   MARK MANUAL (admin)
========================== */

// MarkAttendance: upsert record untuk (user, tanggal) dengan status verbatim
// dari admin — satu-satunya jalur yang melewati klasifikasi jam.
func (s *AttendanceService) MarkAttendance(ctx context.Context, userID, batchID uuid.UUID, date time.Time, status string, remarks *string) (*attendanceModel.AttendanceModel, error) {
	if !IsCanonicalStatus(status) {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Status %q tidak dikenal (pilihan: %s)", status, strings.Join(CanonicalStatuses(), ", ")))
	}
	day := dbtime.DayStart(date, s.Loc)
	now := time.Now().In(s.Loc)

	var batch batchModel.BatchModel
	if err := s.DB.WithContext(ctx).First(&batch, "batch_id = ?", batchID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Batch tidak ditemukan")
	}

	var rec attendanceModel.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_user_id = ? AND attendance_date = ?", userID, day).
		First(&rec).Error

	switch {
	case err == nil:
		rec.AppendActivity(fmt.Sprintf("Ditandai manual oleh admin: %s", status), now)
		updates := map[string]any{
			"attendance_status":     status,
			"attendance_activities": rec.AttendanceActivities,
		}
		if remarks != nil {
			updates["attendance_remarks"] = *remarks
		}
		if uerr := s.DB.WithContext(ctx).
			Model(&attendanceModel.AttendanceModel{}).
			Where("attendance_id = ?", rec.AttendanceID).
			Updates(updates).Error; uerr != nil {
			return nil, uerr
		}
		if err := s.DB.WithContext(ctx).First(&rec, "attendance_id = ?", rec.AttendanceID).Error; err != nil {
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = attendanceModel.AttendanceModel{
			AttendanceUserID:  userID,
			AttendanceBatchID: batchID,
			AttendanceDate:    day,
			AttendanceStatus:  status,
			AttendanceRemarks: remarks,
		}
		rec.AppendActivity(fmt.Sprintf("Dibuat manual oleh admin: %s", status), now)
		if cerr := s.DB.WithContext(ctx).Create(&rec).Error; cerr != nil {
			if isUniqueViolation(cerr) {
				// Race dengan penulis lain; ulang sebagai update.
				return s.MarkAttendance(ctx, userID, batchID, date, status, remarks)
			}
			return nil, cerr
		}

	default:
		return nil, err
	}

	if _, err := s.RecomputeStatsForUser(ctx, userID); err != nil {
		log.Printf("[WARN] recompute stats user %s setelah mark manual gagal: %v", userID, err)
	}
	return &rec, nil
}

/* ==========================
   UPDATE / DELETE (admin)
========================== */

type UpdateAttendanceInput struct {
	Status  *string
	Remarks *string
}

func (s *AttendanceService) UpdateAttendance(ctx context.Context, attendanceID uuid.UUID, in UpdateAttendanceInput) (*attendanceModel.AttendanceModel, error) {
	var rec attendanceModel.AttendanceModel
	if err := s.DB.WithContext(ctx).First(&rec, "attendance_id = ?", attendanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Record absensi tidak ditemukan")
		}
		return nil, err
	}

	now := time.Now().In(s.Loc)
	updates := map[string]any{}
	if in.Status != nil {
		if !IsCanonicalStatus(*in.Status) {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Status %q tidak dikenal (pilihan: %s)", *in.Status, strings.Join(CanonicalStatuses(), ", ")))
		}
		updates["attendance_status"] = *in.Status
		rec.AppendActivity(fmt.Sprintf("Status diubah admin: %s → %s", rec.AttendanceStatus, *in.Status), now)
	}
	if in.Remarks != nil {
		updates["attendance_remarks"] = *in.Remarks
	}
	if len(updates) == 0 {
		return &rec, nil
	}
	updates["attendance_activities"] = rec.AttendanceActivities

	if err := s.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_id = ?", attendanceID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).First(&rec, "attendance_id = ?", attendanceID).Error; err != nil {
		return nil, err
	}

	// Update mengubah himpunan record otoritatif → stats wajib dihitung ulang.
	if _, err := s.RecomputeStatsForUser(ctx, rec.AttendanceUserID); err != nil {
		log.Printf("[WARN] recompute stats user %s setelah update gagal: %v", rec.AttendanceUserID, err)
	}
	return &rec, nil
}

func (s *AttendanceService) DeleteAttendance(ctx context.Context, attendanceID uuid.UUID) error {
	var rec attendanceModel.AttendanceModel
	if err := s.DB.WithContext(ctx).First(&rec, "attendance_id = ?", attendanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Record absensi tidak ditemukan")
		}
		return err
	}

	if err := s.DB.WithContext(ctx).Delete(&attendanceModel.AttendanceModel{}, "attendance_id = ?", attendanceID).Error; err != nil {
		return err
	}

	if _, err := s.RecomputeStatsForUser(ctx, rec.AttendanceUserID); err != nil {
		log.Printf("[WARN] recompute stats user %s setelah delete gagal: %v", rec.AttendanceUserID, err)
	}
	return nil
}

/* ==========================
   Reads
========================== */

// TodayRecord mengambil record absensi user untuk hari ini (nil kalau belum ada).
func (s *AttendanceService) TodayRecord(ctx context.Context, userID uuid.UUID) (*attendanceModel.AttendanceModel, error) {
	today := dbtime.Today(s.Loc)
	var rec attendanceModel.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_user_id = ? AND attendance_date = ?", userID, today).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

/* ==========================
   Small helpers
========================== */

func duplicateCheckInError(at time.Time) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict,
		fmt.Sprintf("Sudah check-in hari ini pada %s", at.Format("15:04")))
}

// duplicateCheckInFromDB membangun error DuplicateCheckIn dengan jam check-in
// asli milik penulis yang menang race.
func (s *AttendanceService) duplicateCheckInFromDB(ctx context.Context, userID uuid.UUID, day time.Time) error {
	var winner attendanceModel.AttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_user_id = ? AND attendance_date = ?", userID, day).
		First(&winner).Error; err == nil && winner.AttendanceCheckInTime != nil {
		return duplicateCheckInError(winner.AttendanceCheckInTime.In(s.Loc))
	}
	return fiber.NewError(fiber.StatusConflict, "Sudah check-in hari ini")
}

// isUniqueViolation membedakan pelanggaran unique constraint dari error DB lain,
// supaya race duplicate check-in bisa diterjemahkan jadi 409, bukan 500.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "duplicate key") || strings.Contains(low, "unique")
}

func strPtrOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
