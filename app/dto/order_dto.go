package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderAddRequest represents the payload to submit an order
type OrderAddRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	GameID uint   `json:"game_id" validate:"required"`
	Coupon string `json:"coupon" validate:"omitempty,max=20" example:"LAUNCH10"`
}

// OrderAlterRequest represents the payload to alter an existing order.
// The value is always recomputed from the game price and coupon, never patched.
type OrderAlterRequest struct {
	ID     uint   `json:"id" validate:"required"`
	UserID uint   `json:"user_id" validate:"required"`
	GameID uint   `json:"game_id" validate:"required"`
	Coupon string `json:"coupon" validate:"omitempty,max=20"`
}

// OrderResponse represents an order returned by the API
type OrderResponse struct {
	ID        uint            `json:"id"`
	UUID      string          `json:"uuid"`
	UserID    uint            `json:"user_id"`
	GameID    uint            `json:"game_id"`
	Value     decimal.Decimal `json:"value"`
	IsActive  *bool           `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}
