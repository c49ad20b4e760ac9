package dto

import (
	"time"

	"github.com/google/uuid"

	userModel "lembagaku_backend/internals/features/users/user/model"
)

/* ==========================
   Requests
========================== */

type UpdateProfileRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

type AssignBatchRequest struct {
	BatchID *uuid.UUID `json:"batch_id"` // nil = lepaskan dari batch
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

/* ==========================
   Responses
========================== */

type UserResponse struct {
	ID              uuid.UUID                 `json:"id"`
	UserName        string                    `json:"user_name"`
	FullName        string                    `json:"full_name"`
	Email           string                    `json:"email"`
	Role            string                    `json:"role"`
	BatchID         *uuid.UUID                `json:"batch_id,omitempty"`
	PhotoURL        *string                   `json:"photo_url,omitempty"`
	AttendanceStats userModel.AttendanceStats `json:"attendance_stats"`
	IsActive        bool                      `json:"is_active"`
	CreatedAt       time.Time                 `json:"created_at"`
}

func ToUserResponse(u *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:              u.ID,
		UserName:        u.UserName,
		FullName:        u.FullName,
		Email:           u.Email,
		Role:            u.Role,
		BatchID:         u.BatchID,
		PhotoURL:        u.PhotoURL,
		AttendanceStats: u.AttendanceStats,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
	}
}

func ToUserResponses(us []userModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for i := range us {
		out = append(out, ToUserResponse(&us[i]))
	}
	return out
}

type PhotoUploadResponse struct {
	PhotoURL     string `json:"photo_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}
