package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attendanceModel "lembagaku_backend/internals/features/attendance/attendance/model"
	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
	userModel "lembagaku_backend/internals/features/users/user/model"
	"lembagaku_backend/internals/helpers/dbtime"
)

/* ==========================
   Fakes & fixtures
========================== */

type fakePhotoStore struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakePhotoStore) StorePhoto(ctx context.Context, fh *multipart.FileHeader, keyPrefix string) (StoredPhoto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return StoredPhoto{}, errors.New("oss unavailable")
	}
	key := fmt.Sprintf("%s/fake-%d.webp", keyPrefix, f.calls)
	return StoredPhoto{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

type fakeFaceScorer struct {
	score float64
	err   error
}

func (f *fakeFaceScorer) Score(ctx context.Context, referenceURL, candidateURL string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.score, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "attendance.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&batchModel.BatchModel{},
		&attendanceModel.AttendanceModel{},
	))
	return db
}

func newTestService(t *testing.T) (*AttendanceService, *gorm.DB, *fakePhotoStore) {
	t.Helper()
	db := newTestDB(t)
	photos := &fakePhotoStore{}
	svc := NewAttendanceService(db, photos, nil, time.UTC)
	return svc, db, photos
}

func createBatch(t *testing.T, db *gorm.DB, status string) *batchModel.BatchModel {
	t.Helper()
	b := &batchModel.BatchModel{
		BatchName:                 "Batch " + uuid.NewString()[:8],
		BatchCode:                 "B-" + uuid.NewString()[:8],
		BatchClassStartTime:       "09:00",
		BatchClassEndTime:         "17:00",
		BatchLateThresholdMinutes: 15,
		BatchStatus:               status,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func createUser(t *testing.T, db *gorm.DB, batchID *uuid.UUID) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		UserName: "user-" + uuid.NewString()[:8],
		FullName: "Test User",
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "secret-hash",
		Role:     "user",
		BatchID:  batchID,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func testPhoto() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "selfie.jpg"}
}

// runningBatchForNow: batch running dengan jam mulai = sekarang, supaya
// classification selalu present berapapun jam test dijalankan.
func runningBatchForNow(t *testing.T, db *gorm.DB) *batchModel.BatchModel {
	t.Helper()
	b := createBatch(t, db, batchModel.BatchStatusRunning)
	require.NoError(t, db.Model(b).Update("batch_class_start_time", time.Now().UTC().Format("15:04")).Error)
	b.BatchClassStartTime = time.Now().UTC().Format("15:04")
	return b
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

/* ==========================
   CHECK-IN
========================== */

func TestCheckIn_CreatesRecordAndStats(t *testing.T) {
	svc, db, photos := newTestService(t)
	batch := runningBatchForNow(t, db)
	user := createUser(t, db, &batch.BatchID)

	rec, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), &GeoPoint{Lat: -6.2, Lng: 106.8}, "android")
	require.NoError(t, err)

	assert.Equal(t, user.ID, rec.AttendanceUserID)
	assert.Equal(t, batch.BatchID, rec.AttendanceBatchID)
	assert.Equal(t, string(StatusPresent), rec.AttendanceStatus)
	require.NotNil(t, rec.AttendanceCheckInTime)
	require.NotNil(t, rec.AttendanceCheckInPhotoURL)
	assert.Nil(t, rec.AttendanceCheckOutTime)
	assert.Equal(t, 1, photos.calls)

	// activity log terisi
	acts := rec.Activities()
	require.Len(t, acts, 1)
	assert.Contains(t, acts[0].Description, "Check-in")

	// tanggal record = tengah malam hari ini
	assert.Equal(t, dbtime.Today(time.UTC).Day(), rec.AttendanceDate.Day())

	// stats langsung segar
	var fresh userModel.UserModel
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 1, fresh.AttendanceStats.Present)
	assert.Equal(t, 100, fresh.AttendanceStats.Percentage)
}

func TestCheckIn_DuplicateRejectedWithOriginalTime(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := runningBatchForNow(t, db)
	user := createUser(t, db, &batch.BatchID)

	first, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
	assert.Contains(t, err.Error(), first.AttendanceCheckInTime.Format("15:04"))

	// tetap satu record
	var count int64
	db.Model(&attendanceModel.AttendanceModel{}).Where("attendance_user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCheckIn_ConcurrentPairOnlyOneWins(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := runningBatchForNow(t, db)
	user := createUser(t, db, &batch.BatchID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
		}(i)
	}
	wg.Wait()

	okCount, conflictCount := 0, 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code == fiber.StatusConflict {
			conflictCount++
		}
	}
	assert.Equal(t, 1, okCount, "tepat satu check-in yang menang")
	assert.Equal(t, 1, conflictCount, "yang kalah dapat 409")

	var count int64
	db.Model(&attendanceModel.AttendanceModel{}).Where("attendance_user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCheckIn_Preconditions(t *testing.T) {
	svc, db, _ := newTestService(t)

	t.Run("tanpa batch", func(t *testing.T) {
		user := createUser(t, db, nil)
		_, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
		assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	})

	t.Run("batch belum berjalan", func(t *testing.T) {
		batch := createBatch(t, db, batchModel.BatchStatusUpcoming)
		user := createUser(t, db, &batch.BatchID)
		_, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
		assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	})

	t.Run("tanpa foto", func(t *testing.T) {
		batch := runningBatchForNow(t, db)
		user := createUser(t, db, &batch.BatchID)
		_, err := svc.CheckIn(context.Background(), user.ID, nil, nil, "")
		assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	})

	t.Run("user tidak dikenal", func(t *testing.T) {
		_, err := svc.CheckIn(context.Background(), uuid.New(), testPhoto(), nil, "")
		assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
	})
}

func TestCheckIn_PhotoUploadFailureBlocksCheckIn(t *testing.T) {
	svc, db, photos := newTestService(t)
	photos.fail = true
	batch := runningBatchForNow(t, db)
	user := createUser(t, db, &batch.BatchID)

	_, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadGateway, fiberCode(t, err))

	// tidak ada record setengah jadi
	var count int64
	db.Model(&attendanceModel.AttendanceModel{}).Where("attendance_user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCheckIn_FaceScoreBestEffort(t *testing.T) {
	db := newTestDB(t)
	photos := &fakePhotoStore{}
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	require.NoError(t, db.Model(batch).Update("batch_class_start_time", time.Now().UTC().Format("15:04")).Error)

	ref := "https://cdn.example.com/users/photos/ref.webp"

	t.Run("scorer sukses mengisi skor", func(t *testing.T) {
		svc := NewAttendanceService(db, photos, &fakeFaceScorer{score: 88.5}, time.UTC)
		user := createUser(t, db, &batch.BatchID)
		require.NoError(t, db.Model(user).Update("photo_url", ref).Error)

		rec, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
		require.NoError(t, err)
		require.NotNil(t, rec.AttendanceCheckInFaceScore)
		assert.InDelta(t, 88.5, *rec.AttendanceCheckInFaceScore, 0.001)
	})

	t.Run("scorer gagal tidak memblokir check-in", func(t *testing.T) {
		svc := NewAttendanceService(db, photos, &fakeFaceScorer{err: errors.New("face api down")}, time.UTC)
		user := createUser(t, db, &batch.BatchID)
		require.NoError(t, db.Model(user).Update("photo_url", ref).Error)

		rec, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
		require.NoError(t, err)
		assert.Nil(t, rec.AttendanceCheckInFaceScore)
	})

	t.Run("tanpa foto referensi skor dilewati", func(t *testing.T) {
		svc := NewAttendanceService(db, photos, &fakeFaceScorer{score: 95}, time.UTC)
		user := createUser(t, db, &batch.BatchID)

		rec, err := svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
		require.NoError(t, err)
		assert.Nil(t, rec.AttendanceCheckInFaceScore)
	})
}

/* ==========================
   CHECK-OUT
========================== */

// seedCheckedIn menanam record hari ini dengan jam check-in tertentu,
// melewati jalur CheckIn supaya durasi sesi bisa dikontrol.
func seedCheckedIn(t *testing.T, db *gorm.DB, user *userModel.UserModel, batchID uuid.UUID, checkInAgo time.Duration, status Status) *attendanceModel.AttendanceModel {
	t.Helper()
	checkIn := time.Now().UTC().Add(-checkInAgo)
	url := "https://cdn.example.com/attendance/check-in/seed.webp"
	rec := &attendanceModel.AttendanceModel{
		AttendanceUserID:          user.ID,
		AttendanceBatchID:         batchID,
		AttendanceDate:            dbtime.Today(time.UTC),
		AttendanceCheckInTime:     &checkIn,
		AttendanceCheckInPhotoURL: &url,
		AttendanceStatus:          string(status),
	}
	require.NoError(t, db.Create(rec).Error)
	return rec
}

func TestCheckOut_ShortSessionBecomesHalfDay(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning) // 09:00-17:00 → ambang 240 menit
	user := createUser(t, db, &batch.BatchID)
	seedCheckedIn(t, db, user, batch.BatchID, 30*time.Minute, StatusPresent)

	rec, err := svc.CheckOut(context.Background(), user.ID, testPhoto(), nil, "ios")
	require.NoError(t, err)

	assert.Equal(t, string(StatusHalfDay), rec.AttendanceStatus)
	require.NotNil(t, rec.AttendanceCheckOutTime)
	require.NotNil(t, rec.AttendanceCheckOutPhotoURL)

	var fresh userModel.UserModel
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 1, fresh.AttendanceStats.HalfDay)
	assert.Equal(t, 0, fresh.AttendanceStats.Present)
	assert.Equal(t, 50, fresh.AttendanceStats.Percentage)
}

func TestCheckOut_FullSessionKeepsStatus(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)
	seedCheckedIn(t, db, user, batch.BatchID, 300*time.Minute, StatusLate)

	rec, err := svc.CheckOut(context.Background(), user.ID, testPhoto(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, string(StatusLate), rec.AttendanceStatus)
}

func TestCheckOut_RequiresCheckIn(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)

	_, err := svc.CheckOut(context.Background(), user.ID, testPhoto(), nil, "")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

func TestCheckOut_DuplicateRejected(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)
	seedCheckedIn(t, db, user, batch.BatchID, 10*time.Minute, StatusPresent)

	_, err := svc.CheckOut(context.Background(), user.ID, testPhoto(), nil, "")
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), user.ID, testPhoto(), nil, "")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

/* ==========================
   MARK MANUAL
========================== */

func TestMarkAttendance_UpsertVerbatimStatus(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)
	date := dbtime.Today(time.UTC)
	remarks := "izin sakit"

	// create path — status verbatim, tanpa klasifikasi jam
	rec, err := svc.MarkAttendance(context.Background(), user.ID, batch.BatchID, date, "absent", &remarks)
	require.NoError(t, err)
	assert.Equal(t, "absent", rec.AttendanceStatus)
	require.NotNil(t, rec.AttendanceRemarks)
	assert.Nil(t, rec.AttendanceCheckInTime)

	// update path — record yang sama, bukan duplikat
	rec2, err := svc.MarkAttendance(context.Background(), user.ID, batch.BatchID, date, "present", nil)
	require.NoError(t, err)
	assert.Equal(t, rec.AttendanceID, rec2.AttendanceID)
	assert.Equal(t, "present", rec2.AttendanceStatus)

	var count int64
	db.Model(&attendanceModel.AttendanceModel{}).Where("attendance_user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var fresh userModel.UserModel
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 1, fresh.AttendanceStats.Present)
	assert.Equal(t, 0, fresh.AttendanceStats.Absent)
}

func TestMarkAttendance_RejectsUnknownStatus(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)

	_, err := svc.MarkAttendance(context.Background(), user.ID, batch.BatchID, dbtime.Today(time.UTC), "holiday", nil)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

/* ==========================
   UPDATE / DELETE
========================== */

func TestUpdateAttendance_PreservesTimesAndRecomputes(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)
	seed := seedCheckedIn(t, db, user, batch.BatchID, 10*time.Minute, StatusPresent)

	newStatus := "late"
	rec, err := svc.UpdateAttendance(context.Background(), seed.AttendanceID, UpdateAttendanceInput{Status: &newStatus})
	require.NoError(t, err)

	assert.Equal(t, "late", rec.AttendanceStatus)
	require.NotNil(t, rec.AttendanceCheckInTime) // jam asli tidak tersentuh
	assert.Equal(t, seed.AttendanceCheckInTime.Unix(), rec.AttendanceCheckInTime.Unix())

	var fresh userModel.UserModel
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 1, fresh.AttendanceStats.Late)
	assert.Equal(t, 0, fresh.AttendanceStats.Present)
}

func TestUpdateAttendance_RejectsUnknownStatus(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)
	seed := seedCheckedIn(t, db, user, batch.BatchID, 10*time.Minute, StatusPresent)

	bad := "vacation"
	_, err := svc.UpdateAttendance(context.Background(), seed.AttendanceID, UpdateAttendanceInput{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

func TestDeleteAttendance_HardDeleteAndRecompute(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)
	seed := seedCheckedIn(t, db, user, batch.BatchID, 10*time.Minute, StatusPresent)
	_, err := svc.RecomputeStatsForUser(context.Background(), user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAttendance(context.Background(), seed.AttendanceID))

	var count int64
	db.Model(&attendanceModel.AttendanceModel{}).Where("attendance_id = ?", seed.AttendanceID).Count(&count)
	assert.EqualValues(t, 0, count)

	var fresh userModel.UserModel
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 0, fresh.AttendanceStats.Present)
	assert.Equal(t, 0, fresh.AttendanceStats.Percentage)
}

func TestDeleteAttendance_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.DeleteAttendance(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
}

/* ==========================
   STATS & CLEANUP
========================== */

func TestRecomputeStatsForUser_FromScratch(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)

	day := dbtime.Today(time.UTC)
	statuses := []string{"present", "present", "present", "late", "absent", "half-day"}
	for i, s := range statuses {
		rec := &attendanceModel.AttendanceModel{
			AttendanceUserID:  user.ID,
			AttendanceBatchID: batch.BatchID,
			AttendanceDate:    day.AddDate(0, 0, -i),
			AttendanceStatus:  s,
		}
		require.NoError(t, db.Create(rec).Error)
	}

	// kotori cache dulu supaya jelas ini rekonstruksi, bukan increment
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("id = ?", user.ID).
		Updates(map[string]any{"attendance_present": 99, "attendance_percentage": 1}).Error)

	stats, err := svc.RecomputeStatsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Present)
	assert.Equal(t, 1, stats.Late)
	assert.Equal(t, 1, stats.Absent)
	assert.Equal(t, 1, stats.HalfDay)
	assert.Equal(t, 75, stats.Percentage) // (3 + 1 + 0.5) / 6

	// idempoten
	again, err := svc.RecomputeStatsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestRecomputeStatsForUser_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.RecomputeStatsForUser(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestRecomputeAllUsers_SkipsAdmins(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	u1 := createUser(t, db, &batch.BatchID)
	u2 := createUser(t, db, &batch.BatchID)
	admin := createUser(t, db, nil)
	require.NoError(t, db.Model(admin).Update("role", "admin").Error)

	seedCheckedIn(t, db, u1, batch.BatchID, 10*time.Minute, StatusPresent)

	updated, attempted, err := svc.RecomputeAllUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempted)
	assert.Equal(t, 2, updated)

	var fresh1 userModel.UserModel
	require.NoError(t, db.First(&fresh1, "id = ?", u1.ID).Error)
	assert.Equal(t, 1, fresh1.AttendanceStats.Present)

	var fresh2 userModel.UserModel
	require.NoError(t, db.First(&fresh2, "id = ?", u2.ID).Error)
	assert.Equal(t, 0, fresh2.AttendanceStats.Present)
}

func TestCleanupInvalidRecords(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := createBatch(t, db, batchModel.BatchStatusRunning)
	user := createUser(t, db, &batch.BatchID)

	day := dbtime.Today(time.UTC)
	bad := &attendanceModel.AttendanceModel{
		AttendanceUserID:  user.ID,
		AttendanceBatchID: batch.BatchID,
		AttendanceDate:    day,
		AttendanceStatus:  "holiday",
	}
	require.NoError(t, db.Create(bad).Error)
	good := &attendanceModel.AttendanceModel{
		AttendanceUserID:  user.ID,
		AttendanceBatchID: batch.BatchID,
		AttendanceDate:    day.AddDate(0, 0, -1),
		AttendanceStatus:  "present",
	}
	require.NoError(t, db.Create(good).Error)

	result, err := svc.CleanupInvalidRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Found)
	assert.Equal(t, 1, result.Updated)

	var fixed attendanceModel.AttendanceModel
	require.NoError(t, db.First(&fixed, "attendance_id = ?", bad.AttendanceID).Error)
	assert.Equal(t, string(StatusAbsent), fixed.AttendanceStatus)
	acts := fixed.Activities()
	require.NotEmpty(t, acts)
	assert.Contains(t, acts[len(acts)-1].Description, "holiday")

	// record valid tidak tersentuh
	var untouched attendanceModel.AttendanceModel
	require.NoError(t, db.First(&untouched, "attendance_id = ?", good.AttendanceID).Error)
	assert.Equal(t, "present", untouched.AttendanceStatus)

	// stats seluruh user ikut dihitung ulang
	var fresh userModel.UserModel
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 1, fresh.AttendanceStats.Present)
	assert.Equal(t, 1, fresh.AttendanceStats.Absent)
	assert.Equal(t, 50, fresh.AttendanceStats.Percentage)
}

func TestCleanupInvalidRecords_NothingToDo(t *testing.T) {
	svc, _, _ := newTestService(t)
	result, err := svc.CleanupInvalidRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Found)
	assert.Equal(t, 0, result.Updated)
}

/* ==========================
   TODAY
========================== */

func TestTodayRecord(t *testing.T) {
	svc, db, _ := newTestService(t)
	batch := runningBatchForNow(t, db)
	user := createUser(t, db, &batch.BatchID)

	rec, err := svc.TodayRecord(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = svc.CheckIn(context.Background(), user.ID, testPhoto(), nil, "")
	require.NoError(t, err)

	rec, err = svc.TodayRecord(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, user.ID, rec.AttendanceUserID)
}
