package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType is a closed set: pricing dispatches exhaustively over it and an
// unknown value is a data defect, not user input.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Pricing error constants
var (
	ErrNegativeBasePrice  = errors.New("base price must not be negative")
	ErrDiscountOutOfRange = errors.New("percentage discount must be between 0 and 100")
)

var oneHundred = decimal.NewFromInt(100)

type Order struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_orders_uuid" json:"uuid"`

	UserID uint  `gorm:"not null;index:idx_orders_user_id;uniqueIndex:uk_orders_user_game" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;references:ID" json:"-"`

	GameID uint  `gorm:"not null;index:idx_orders_game_id;uniqueIndex:uk_orders_user_game" json:"game_id"`
	Game   *Game `gorm:"foreignKey:GameID;references:ID" json:"-"`

	// Value is always computed via CalculateValue, never patched directly
	Value decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`

	IsActive *bool `gorm:"default:true;index:idx_orders_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderFilter represents filter criteria for order queries
type OrderFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	UserID   *uint
	GameID   *uint
	IsActive *bool
}

// CalculateValue derives the order value from the base price and a discount.
// Pure over its inputs apart from assigning Value; the result is clamped at zero
// regardless of discount magnitude.
func (o *Order) CalculateValue(basePrice decimal.Decimal, kind DiscountType, magnitude decimal.Decimal) error {
	if basePrice.IsNegative() {
		return ErrNegativeBasePrice
	}

	var value decimal.Decimal

	switch kind {
	case DiscountFixed:
		value = basePrice.Sub(magnitude)
	case DiscountPercentage:
		if magnitude.IsNegative() || magnitude.GreaterThan(oneHundred) {
			return ErrDiscountOutOfRange
		}
		value = basePrice.Mul(oneHundred.Sub(magnitude)).Div(oneHundred)
	default:
		return fmt.Errorf("unknown discount type %q", kind)
	}

	if value.IsNegative() {
		value = decimal.Zero
	}

	o.Value = value
	return nil
}
