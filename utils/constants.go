package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Account security constants
const (
	// MaxLoginAttempts is the number of consecutive failed logins that locks an account
	MaxLoginAttempts = 3

	// ActivationCodeLength is the length of the signup activation code
	ActivationCodeLength = 8

	// ActivationCodeAlphabet is the character set activation codes are drawn from
	ActivationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Promotion constants
const (
	// PromotionMinExpiryLead is the minimum distance between now and a promotion expiry at authoring time
	PromotionMinExpiryLead = 10 * time.Minute

	// DefaultReferenceTimezone is the wall-clock timezone promotion expiries are authored in
	DefaultReferenceTimezone = "America/Sao_Paulo"
)

// Cache constants
const (
	// CouponCacheTTL is how long a resolved coupon is cached
	CouponCacheTTL = 1 * time.Minute

	// CouponCacheKeyPrefix namespaces coupon entries in the cache
	CouponCacheKeyPrefix = "coupon:"
)
