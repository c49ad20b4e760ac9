// file: internals/features/attendance/attendance/service/stats_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	attendanceModel "lembagaku_backend/internals/features/attendance/attendance/model"
	userModel "lembagaku_backend/internals/features/users/user/model"
)

/* ==========================
   Stats reconciliation
========================== */

// RecomputeStatsForUser menghitung ulang cache statistik user dari nol:
// tally seluruh record absensi user, lalu satu UPDATE dengan nilai final.
// Tidak pernah increment/decrement — cache selalu bisa direkonstruksi.
func (s *AttendanceService) RecomputeStatsForUser(ctx context.Context, userID uuid.UUID) (*userModel.AttendanceStats, error) {
	type row struct {
		Status string
		Total  int
	}
	var rows []row
	if err := s.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceModel{}).
		Select("attendance_status AS status, COUNT(*) AS total").
		Where("attendance_user_id = ?", userID).
		Group("attendance_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := userModel.AttendanceStats{}
	for _, r := range rows {
		switch Status(r.Status) {
		case StatusPresent:
			stats.Present = r.Total
		case StatusAbsent:
			stats.Absent = r.Total
		case StatusLate:
			stats.Late = r.Total
		case StatusHalfDay:
			stats.HalfDay = r.Total
		default:
			// Status tak dikenal tidak dihitung; CleanupInvalidRecords yang membereskan.
			log.Printf("[WARN] user %s punya %d record dengan status tak dikenal %q", userID, r.Total, r.Status)
		}
	}
	stats.Percentage = Percentage(stats.Present, stats.Absent, stats.Late, stats.HalfDay)

	res := s.DB.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"attendance_present":    stats.Present,
			"attendance_absent":     stats.Absent,
			"attendance_late":       stats.Late,
			"attendance_half_day":   stats.HalfDay,
			"attendance_percentage": stats.Percentage,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user %s tidak ditemukan saat update stats", userID)
	}
	return &stats, nil
}

// RecomputeAllUsers menjalankan RecomputeStatsForUser untuk semua user biasa.
// Kegagalan satu user dicatat dan dilewati, tidak menghentikan batch.
func (s *AttendanceService) RecomputeAllUsers(ctx context.Context) (updated, attempted int, err error) {
	var userIDs []uuid.UUID
	if err := s.DB.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("role = ?", "user").
		Pluck("id", &userIDs).Error; err != nil {
		return 0, 0, err
	}

	for _, id := range userIDs {
		attempted++
		if _, rerr := s.RecomputeStatsForUser(ctx, id); rerr != nil {
			log.Printf("[WARN] recompute stats user %s gagal: %v", id, rerr)
			continue
		}
		updated++
	}
	return updated, attempted, nil
}

/* ==========================
   Cleanup
========================== */

// CleanupResult: ringkasan hasil pembersihan record berstatus non-kanonik.
type CleanupResult struct {
	Found   int `json:"found"`
	Updated int `json:"updated"`
}

// CleanupInvalidRecords memaksa semua record dengan status di luar himpunan
// kanonik menjadi 'absent', mencatat koreksi di activity log, lalu
// menghitung ulang stats seluruh user (record rusak bisa milik siapa saja).
func (s *AttendanceService) CleanupInvalidRecords(ctx context.Context) (*CleanupResult, error) {
	var bad []attendanceModel.AttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_status NOT IN ?", CanonicalStatuses()).
		Find(&bad).Error; err != nil {
		return nil, err
	}

	result := &CleanupResult{Found: len(bad)}
	now := time.Now().In(s.Loc)

	for i := range bad {
		rec := &bad[i]
		old := rec.AttendanceStatus
		rec.AppendActivity(fmt.Sprintf("Status %q tidak valid, dikoreksi jadi %s", old, StatusAbsent), now)
		if err := s.DB.WithContext(ctx).
			Model(&attendanceModel.AttendanceModel{}).
			Where("attendance_id = ?", rec.AttendanceID).
			Updates(map[string]any{
				"attendance_status":     string(StatusAbsent),
				"attendance_activities": rec.AttendanceActivities,
			}).Error; err != nil {
			log.Printf("[WARN] cleanup record %s (status %q) gagal: %v", rec.AttendanceID, old, err)
			continue
		}
		result.Updated++
	}

	if result.Updated > 0 {
		if _, _, err := s.RecomputeAllUsers(ctx); err != nil {
			log.Printf("[WARN] recompute seluruh user setelah cleanup gagal: %v", err)
		}
	}
	return result, nil
}
