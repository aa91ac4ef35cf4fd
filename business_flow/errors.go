package businessflow

import (
	"errors"
	"fmt"

	"github.com/playvault/game-store/models"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound = errors.New("user not found")

	// InvalidCredentials deliberately covers both unknown handle and wrong
	// password so responses cannot be used to enumerate handles
	ErrInvalidCredentials   = errors.New("invalid handle or password")
	ErrAccountLocked        = errors.New("account is locked")
	ErrAccountLockedNow     = errors.New("account locked after too many failed attempts")
	ErrAccountAlreadyActive = errors.New("account is already active")
	ErrHandleAlreadyExists  = errors.New("handle already exists")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidEmailFormat   = errors.New("invalid email address")
	ErrWeakPassword         = errors.New("password must contain at least one letter, one digit and one special character")

	// Code-related errors
	ErrInvalidActivationCode = errors.New("invalid activation code")
	ErrInvalidValidationCode = errors.New("invalid user or validation code")
	ErrNoActivationCode      = errors.New("no activation code pending for this account")
	ErrNoValidationCode      = errors.New("no validation code pending for this account")

	// Catalog and order errors
	ErrGameNotFound       = errors.New("game not found")
	ErrGameNotPurchasable = errors.New("game is not available for purchase")
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateOrder     = errors.New("an order with the same user and game already exists")

	// Promotion errors
	ErrPromotionNotFound      = errors.New("promotion not found")
	ErrCouponAlreadyExists    = errors.New("coupon code already exists")
	ErrPromotionExpiryTooSoon = errors.New("promotion expiry must be at least 10 minutes ahead")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAccountLocked(err error) bool {
	return errors.Is(err, ErrAccountLocked)
}

func IsAccountLockedNow(err error) bool {
	return errors.Is(err, ErrAccountLockedNow)
}

func IsAccountAlreadyActive(err error) bool {
	return errors.Is(err, ErrAccountAlreadyActive)
}

func IsHandleAlreadyExists(err error) bool {
	return errors.Is(err, ErrHandleAlreadyExists)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsInvalidEmailFormat(err error) bool {
	return errors.Is(err, ErrInvalidEmailFormat)
}

func IsWeakPassword(err error) bool {
	return errors.Is(err, ErrWeakPassword)
}

func IsInvalidActivationCode(err error) bool {
	return errors.Is(err, ErrInvalidActivationCode)
}

func IsInvalidValidationCode(err error) bool {
	return errors.Is(err, ErrInvalidValidationCode)
}

func IsNoActivationCode(err error) bool {
	return errors.Is(err, ErrNoActivationCode)
}

func IsNoValidationCode(err error) bool {
	return errors.Is(err, ErrNoValidationCode)
}

func IsGameNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound)
}

func IsGameNotPurchasable(err error) bool {
	return errors.Is(err, ErrGameNotPurchasable)
}

func IsOrderNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

func IsDuplicateOrder(err error) bool {
	return errors.Is(err, ErrDuplicateOrder)
}

func IsPromotionNotFound(err error) bool {
	return errors.Is(err, ErrPromotionNotFound)
}

func IsCouponAlreadyExists(err error) bool {
	return errors.Is(err, ErrCouponAlreadyExists)
}

func IsPromotionExpiryTooSoon(err error) bool {
	return errors.Is(err, ErrPromotionExpiryTooSoon)
}

// IsPricingError reports whether the error came from order value computation
func IsPricingError(err error) bool {
	return errors.Is(err, models.ErrNegativeBasePrice) || errors.Is(err, models.ErrDiscountOutOfRange)
}
