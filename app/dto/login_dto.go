package dto

import (
	"time"
)

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Handle   string `json:"handle" validate:"required,min=3,max=60" example:"jordan42"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// ActivationLoginRequest represents the login variant that also activates the account
type ActivationLoginRequest struct {
	Handle         string `json:"handle" validate:"required,min=3,max=60" example:"jordan42"`
	Password       string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	ActivationCode string `json:"activation_code" validate:"required,len=8,alphanum" example:"K7PQ2M9X"`
}

// NewPasswordLoginRequest completes password recovery with the emailed token
type NewPasswordLoginRequest struct {
	Handle         string `json:"handle" validate:"required,min=3,max=60" example:"jordan42"`
	ValidationCode string `json:"validation_code" validate:"required,len=36" example:"550E8400-E29B-41D4-A716-446655440000"`
	NewPassword    string `json:"new_password" validate:"required,min=8,max=100,password_strength" example:"NewSecurePass123!"`
}

// PasswordResetRequest asks for a recovery token to be emailed
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=255" example:"jordan@example.com"`
}

// ReactivationRequest asks for a new activation code to be emailed
type ReactivationRequest struct {
	Email string `json:"email" validate:"required,email,max=255" example:"jordan@example.com"`
}

// SessionInfo represents the issued token pair
type SessionInfo struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	User    UserInfo    `json:"user"`
	Session SessionInfo `json:"session"`
}
