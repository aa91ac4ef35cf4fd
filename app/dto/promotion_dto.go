package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromotionAddRequest represents the payload to create a promotion.
// ExpiresAt is interpreted as wall-clock time in the platform reference timezone.
type PromotionAddRequest struct {
	CouponCode    string    `json:"coupon_code" validate:"required,min=3,max=20,alphanum" example:"LAUNCH10"`
	Description   string    `json:"description" validate:"max=255"`
	DiscountType  string    `json:"discount_type" validate:"required,oneof=fixed percentage" example:"percentage"`
	DiscountValue string    `json:"discount_value" validate:"required" example:"10"`
	ExpiresAt     time.Time `json:"expires_at" validate:"required"`
}

// PromotionAlterRequest represents the payload to alter an existing promotion
type PromotionAlterRequest struct {
	ID            uint      `json:"id" validate:"required"`
	CouponCode    string    `json:"coupon_code" validate:"required,min=3,max=20,alphanum"`
	Description   string    `json:"description" validate:"max=255"`
	DiscountType  string    `json:"discount_type" validate:"required,oneof=fixed percentage"`
	DiscountValue string    `json:"discount_value" validate:"required"`
	ExpiresAt     time.Time `json:"expires_at" validate:"required"`
}

// PromotionResponse represents a promotion returned by the API
type PromotionResponse struct {
	ID            uint            `json:"id"`
	UUID          string          `json:"uuid"`
	CouponCode    string          `json:"coupon_code"`
	Description   string          `json:"description"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	ExpiresAt     time.Time       `json:"expires_at"`
	IsActive      *bool           `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}
