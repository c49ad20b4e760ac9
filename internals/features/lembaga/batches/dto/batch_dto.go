// file: internals/features/lembaga/batches/dto/batch_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	batchModel "lembagaku_backend/internals/features/lembaga/batches/model"
)

/* ==========================
   Requests
========================== */

type CreateBatchRequest struct {
	BatchName             string  `json:"batch_name" validate:"required,min=3,max=100"`
	BatchCode             string  `json:"batch_code" validate:"required,min=2,max=30"`
	BatchDescription      *string `json:"batch_description" validate:"omitempty,max=1000"`
	ClassStartTime        string  `json:"class_start_time" validate:"required"` // HH:mm
	ClassEndTime          string  `json:"class_end_time" validate:"required"`   // HH:mm
	LateThresholdMinutes  *int    `json:"late_threshold_minutes" validate:"omitempty,min=0,max=720"`
}

type UpdateBatchRequest struct {
	BatchName            *string `json:"batch_name" validate:"omitempty,min=3,max=100"`
	BatchDescription     *string `json:"batch_description" validate:"omitempty,max=1000"`
	ClassStartTime       *string `json:"class_start_time" validate:"omitempty"`
	ClassEndTime         *string `json:"class_end_time" validate:"omitempty"`
	LateThresholdMinutes *int    `json:"late_threshold_minutes" validate:"omitempty,min=0,max=720"`
	Status               *string `json:"status" validate:"omitempty,oneof=upcoming running completed"`
}

/* ==========================
   Responses
========================== */

type BatchResponse struct {
	BatchID              uuid.UUID `json:"batch_id"`
	BatchName            string    `json:"batch_name"`
	BatchCode            string    `json:"batch_code"`
	BatchDescription     *string   `json:"batch_description"`
	ClassStartTime       string    `json:"class_start_time"`
	ClassEndTime         string    `json:"class_end_time"`
	LateThresholdMinutes int       `json:"late_threshold_minutes"`
	Status               string    `json:"status"`
	MemberCount          int64     `json:"member_count,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func ToBatchResponse(m *batchModel.BatchModel) BatchResponse {
	return BatchResponse{
		BatchID:              m.BatchID,
		BatchName:            m.BatchName,
		BatchCode:            m.BatchCode,
		BatchDescription:     m.BatchDescription,
		ClassStartTime:       m.BatchClassStartTime,
		ClassEndTime:         m.BatchClassEndTime,
		LateThresholdMinutes: m.BatchLateThresholdMinutes,
		Status:               m.BatchStatus,
		CreatedAt:            m.BatchCreatedAt,
		UpdatedAt:            m.BatchUpdatedAt,
	}
}

func ToBatchResponses(ms []batchModel.BatchModel) []BatchResponse {
	out := make([]BatchResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToBatchResponse(&ms[i]))
	}
	return out
}

type BatchMemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	IsActive bool      `json:"is_active"`
}
