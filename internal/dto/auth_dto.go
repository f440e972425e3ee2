package dto

import (
	"time"

	"github.com/google/uuid"
)

type SignupRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type SignupResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// AuthResponse is returned by login and Google sign-in.
type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	Role      string    `json:"role"`
	FullName  string    `json:"fullName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Cache     string `json:"cache"`
}
