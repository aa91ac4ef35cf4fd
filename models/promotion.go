package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/playvault/game-store/utils"
	"github.com/shopspring/decimal"
)

type Promotion struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_promotions_uuid" json:"uuid"`

	CouponCode  string `gorm:"size:20;not null;uniqueIndex:uk_promotions_coupon_code" json:"coupon_code"`
	Description string `gorm:"size:255" json:"description"`

	DiscountType  DiscountType    `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_value"`

	// ExpiresAt is stored in UTC; expiry is checked lazily at use time
	ExpiresAt time.Time `gorm:"not null;index:idx_promotions_expires_at" json:"expires_at"`

	IsActive *bool `gorm:"default:true;index:idx_promotions_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Promotion) TableName() string {
	return "promotions"
}

// PromotionFilter represents filter criteria for promotion queries
type PromotionFilter struct {
	ID           *uint
	UUID         *uuid.UUID
	CouponCode   *string
	DiscountType *DiscountType
	IsActive     *bool
	ExpiresAfter *time.Time
}

// IsUsable reports whether the promotion may still discount an order: it must be
// active and its expiry must be at or after the current instant.
func (p *Promotion) IsUsable() bool {
	return utils.IsTrue(p.IsActive) && !utils.IsExpired(p.ExpiresAt)
}
