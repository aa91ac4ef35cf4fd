package dto

import (
	"time"
)

// UserInfo represents user information returned by the API
type UserInfo struct {
	ID        uint      `json:"id" example:"123"`
	UUID      string    `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Jordan Doe"`
	Handle    string    `json:"handle" example:"jordan42"`
	Email     string    `json:"email" example:"jordan@example.com"`
	Role      string    `json:"role" example:"standard"`
	IsActive  *bool     `json:"is_active" example:"true"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
}
