package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/models"
	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FullName  string  `json:"fullName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserList(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
