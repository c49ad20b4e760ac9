// file: internals/features/attendance/attendance/dto/attendance_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	attendanceModel "lembagaku_backend/internals/features/attendance/attendance/model"
)

/* ==========================
   Requests
========================== */

// MarkAttendanceRequest: admin menandai kehadiran manual (izin, sakit, koreksi).
type MarkAttendanceRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	BatchID uuid.UUID `json:"batch_id" validate:"required"`
	Date    string    `json:"date" validate:"required"` // format 2006-01-02
	Status  string    `json:"status" validate:"required"`
	Remarks *string   `json:"remarks" validate:"omitempty,max=500"`
}

type UpdateAttendanceRequest struct {
	Status  *string `json:"status" validate:"omitempty"`
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

/* ==========================
   Responses
========================== */

type AttendanceSideResponse struct {
	Time      *time.Time `json:"time"`
	PhotoURL  *string    `json:"photo_url"`
	Lat       *float64   `json:"lat"`
	Lng       *float64   `json:"lng"`
	Device    *string    `json:"device"`
	FaceScore *float64   `json:"face_score"`
}

type AttendanceResponse struct {
	AttendanceID uuid.UUID                          `json:"attendance_id"`
	UserID       uuid.UUID                          `json:"user_id"`
	BatchID      uuid.UUID                          `json:"batch_id"`
	Date         string                             `json:"date"`
	Status       string                             `json:"status"`
	CheckIn      AttendanceSideResponse             `json:"check_in"`
	CheckOut     AttendanceSideResponse             `json:"check_out"`
	Activities   []attendanceModel.AttendanceActivity `json:"activities"`
	Remarks      *string                            `json:"remarks"`
	CreatedAt    time.Time                          `json:"created_at"`
	UpdatedAt    time.Time                          `json:"updated_at"`
}

func ToAttendanceResponse(m *attendanceModel.AttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID: m.AttendanceID,
		UserID:       m.AttendanceUserID,
		BatchID:      m.AttendanceBatchID,
		Date:         m.AttendanceDate.Format("2006-01-02"),
		Status:       m.AttendanceStatus,
		CheckIn: AttendanceSideResponse{
			Time:      m.AttendanceCheckInTime,
			PhotoURL:  m.AttendanceCheckInPhotoURL,
			Lat:       m.AttendanceCheckInLat,
			Lng:       m.AttendanceCheckInLng,
			Device:    m.AttendanceCheckInDevice,
			FaceScore: m.AttendanceCheckInFaceScore,
		},
		CheckOut: AttendanceSideResponse{
			Time:      m.AttendanceCheckOutTime,
			PhotoURL:  m.AttendanceCheckOutPhotoURL,
			Lat:       m.AttendanceCheckOutLat,
			Lng:       m.AttendanceCheckOutLng,
			Device:    m.AttendanceCheckOutDevice,
			FaceScore: m.AttendanceCheckOutFaceScore,
		},
		Activities: m.Activities(),
		Remarks:    m.AttendanceRemarks,
		CreatedAt:  m.AttendanceCreatedAt,
		UpdatedAt:  m.AttendanceUpdatedAt,
	}
}

func ToAttendanceResponses(ms []attendanceModel.AttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToAttendanceResponse(&ms[i]))
	}
	return out
}

/* ==========================
   Stats & reports
========================== */

type UserStatsResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Present      int       `json:"present"`
	Absent       int       `json:"absent"`
	Late         int       `json:"late"`
	HalfDay      int       `json:"half_day"`
	Percentage   int       `json:"percentage"`
	Recalculated bool      `json:"recalculated"`
}

type RecalculateAllResponse struct {
	Updated   int `json:"updated"`
	Attempted int `json:"attempted"`
}

type BatchReportRow struct {
	UserID     uuid.UUID `json:"user_id"`
	FullName   string    `json:"full_name"`
	Present    int       `json:"present"`
	Absent     int       `json:"absent"`
	Late       int       `json:"late"`
	HalfDay    int       `json:"half_day"`
	Percentage int       `json:"percentage"`
}

type BatchReportResponse struct {
	BatchID   uuid.UUID        `json:"batch_id"`
	BatchName string           `json:"batch_name"`
	Members   []BatchReportRow `json:"members"`
}
