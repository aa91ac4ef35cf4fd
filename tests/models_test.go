// Package tests contains test cases for models and business flows to avoid circular imports
package tests

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationCode(t *testing.T) {
	t.Run("LengthAndAlphabet", func(t *testing.T) {
		code, err := models.NewActivationCode()
		require.NoError(t, err)
		assert.Len(t, code, utils.ActivationCodeLength)

		for _, ch := range code {
			assert.Contains(t, utils.ActivationCodeAlphabet, string(ch))
		}
	})

	t.Run("CodesDiffer", func(t *testing.T) {
		first, err := models.NewActivationCode()
		require.NoError(t, err)
		second, err := models.NewActivationCode()
		require.NoError(t, err)

		// 36^8 codes; a collision here means the generator is broken
		assert.NotEqual(t, first, second)
	})
}

func TestValidationCode(t *testing.T) {
	code := models.NewValidationCode()

	assert.Len(t, code, 36)
	assert.Equal(t, strings.ToUpper(code), code)

	_, err := uuid.Parse(code)
	assert.NoError(t, err)
}

func TestUserFailedAttempts(t *testing.T) {
	t.Run("LockoutAtThreshold", func(t *testing.T) {
		user := &models.User{IsActive: utils.ToPtr(true)}

		assert.False(t, user.RecordFailedAttempt())
		assert.True(t, utils.IsTrue(user.IsActive))

		assert.False(t, user.RecordFailedAttempt())
		assert.True(t, utils.IsTrue(user.IsActive))

		// Third failure trips the lockout
		assert.True(t, user.RecordFailedAttempt())
		assert.False(t, utils.IsTrue(user.IsActive))
		assert.True(t, user.IsLocked())

		// The counter stays at the triggering value so the cause is visible
		assert.Equal(t, utils.MaxLoginAttempts, user.FailedLoginAttempts)
	})

	t.Run("ResetClearsCounter", func(t *testing.T) {
		user := &models.User{IsActive: utils.ToPtr(true)}
		user.RecordFailedAttempt()
		user.RecordFailedAttempt()

		user.ResetFailedAttempts()
		assert.Equal(t, 0, user.FailedLoginAttempts)
		assert.False(t, user.IsLocked())
	})
}

func TestUserValidateActivationCode(t *testing.T) {
	newPendingUser := func(code string) *models.User {
		return &models.User{
			ActivationCode:      &code,
			FailedLoginAttempts: 2,
			IsActive:            utils.ToPtr(false),
		}
	}

	t.Run("MatchActivatesAndClearsCode", func(t *testing.T) {
		user := newPendingUser("K7PQ2M9X")

		assert.True(t, user.ValidateActivationCode("K7PQ2M9X"))
		assert.True(t, utils.IsTrue(user.IsActive))
		assert.Nil(t, user.ActivationCode)
		assert.Equal(t, 0, user.FailedLoginAttempts)
	})

	t.Run("MismatchDeactivates", func(t *testing.T) {
		// Usability note: any wrong code deactivates the account, so a single
		// typo by the legitimate owner locks them out and forces a reactivation
		// request. The platform treats every mismatch as hostile on purpose;
		// softening this would change the account lifecycle contract.
		user := newPendingUser("K7PQ2M9X")
		user.Activate()

		assert.False(t, user.ValidateActivationCode("K7PQ2M9Z"))
		assert.False(t, utils.IsTrue(user.IsActive))
		assert.NotNil(t, user.ActivationCode)
	})

	t.Run("EmptyCandidateDeactivates", func(t *testing.T) {
		user := newPendingUser("K7PQ2M9X")
		user.Activate()

		assert.False(t, user.ValidateActivationCode(""))
		assert.False(t, utils.IsTrue(user.IsActive))

		assert.False(t, user.ValidateActivationCode("   "))
		assert.False(t, utils.IsTrue(user.IsActive))
	})
}

func TestUserValidateValidationCode(t *testing.T) {
	code := models.NewValidationCode()

	newRecoveringUser := func() *models.User {
		stored := code
		return &models.User{
			ValidationCode:      &stored,
			FailedLoginAttempts: 3,
			IsActive:            utils.ToPtr(false),
		}
	}

	t.Run("MatchReactivates", func(t *testing.T) {
		user := newRecoveringUser()

		assert.True(t, user.ValidateValidationCode(code))
		assert.True(t, utils.IsTrue(user.IsActive))
		assert.Nil(t, user.ValidationCode)
		assert.Equal(t, 0, user.FailedLoginAttempts)
	})

	t.Run("MalformedCandidateDeactivates", func(t *testing.T) {
		user := newRecoveringUser()
		user.Activate()

		assert.False(t, user.ValidateValidationCode("not-a-canonical-token"))
		assert.False(t, utils.IsTrue(user.IsActive))
	})

	t.Run("WrongTokenDeactivates", func(t *testing.T) {
		user := newRecoveringUser()
		user.Activate()

		assert.False(t, user.ValidateValidationCode(models.NewValidationCode()))
		assert.False(t, utils.IsTrue(user.IsActive))
	})
}

func TestEmailValid(t *testing.T) {
	assert.True(t, models.EmailValid("jordan@example.com"))
	assert.True(t, models.EmailValid("jordan.doe+tag@sub.example.co"))

	assert.False(t, models.EmailValid(""))
	assert.False(t, models.EmailValid("   "))
	assert.False(t, models.EmailValid("jordan"))
	assert.False(t, models.EmailValid("jordan@example"))
	assert.False(t, models.EmailValid("@example.com"))
	assert.False(t, models.EmailValid("jordan @example.com"))
}

func TestPasswordStrong(t *testing.T) {
	assert.True(t, models.PasswordStrong("SecurePass123!"))
	assert.True(t, models.PasswordStrong("a1!"))

	assert.False(t, models.PasswordStrong(""))
	assert.False(t, models.PasswordStrong("onlyletters"))
	assert.False(t, models.PasswordStrong("letters123"))
	assert.False(t, models.PasswordStrong("letters!!"))
	assert.False(t, models.PasswordStrong("123456!!"))
}

func TestOrderCalculateValue(t *testing.T) {
	price := func(s string) decimal.Decimal {
		value, err := decimal.NewFromString(s)
		require.NoError(t, err)
		return value
	}

	t.Run("FixedDiscount", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("100"), models.DiscountFixed, price("30"))
		require.NoError(t, err)
		assert.True(t, order.Value.Equal(price("70")), "got %s", order.Value)
	})

	t.Run("FixedDiscountClampsAtZero", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("20"), models.DiscountFixed, price("30"))
		require.NoError(t, err)
		assert.True(t, order.Value.IsZero(), "got %s", order.Value)
	})

	t.Run("PercentageDiscount", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("100"), models.DiscountPercentage, price("25"))
		require.NoError(t, err)
		assert.True(t, order.Value.Equal(price("75")), "got %s", order.Value)
	})

	t.Run("FullPercentageDiscount", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("199.90"), models.DiscountPercentage, price("100"))
		require.NoError(t, err)
		assert.True(t, order.Value.IsZero(), "got %s", order.Value)
	})

	t.Run("PercentageKeepsCents", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("199.90"), models.DiscountPercentage, price("10"))
		require.NoError(t, err)
		assert.True(t, order.Value.Equal(price("179.91")), "got %s", order.Value)
	})

	t.Run("PercentageAboveHundredRejected", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("100"), models.DiscountPercentage, price("150"))
		assert.ErrorIs(t, err, models.ErrDiscountOutOfRange)
	})

	t.Run("NegativePercentageRejected", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("100"), models.DiscountPercentage, price("-5"))
		assert.ErrorIs(t, err, models.ErrDiscountOutOfRange)
	})

	t.Run("NegativeBasePriceRejected", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("-1"), models.DiscountFixed, price("0"))
		assert.ErrorIs(t, err, models.ErrNegativeBasePrice)
	})

	t.Run("UnknownDiscountTypeRejected", func(t *testing.T) {
		order := &models.Order{}
		err := order.CalculateValue(price("100"), models.DiscountType("loyalty"), price("10"))
		assert.Error(t, err)
	})
}

func TestPromotionIsUsable(t *testing.T) {
	t.Run("ActiveAndFuture", func(t *testing.T) {
		promotion := &models.Promotion{
			IsActive:  utils.ToPtr(true),
			ExpiresAt: utils.UTCNowAdd(time.Minute),
		}
		assert.True(t, promotion.IsUsable())
	})

	t.Run("Expired", func(t *testing.T) {
		promotion := &models.Promotion{
			IsActive:  utils.ToPtr(true),
			ExpiresAt: utils.UTCNowAdd(-time.Second),
		}
		assert.False(t, promotion.IsUsable())
	})

	t.Run("Inactive", func(t *testing.T) {
		promotion := &models.Promotion{
			IsActive:  utils.ToPtr(false),
			ExpiresAt: utils.UTCNowAdd(time.Minute),
		}
		assert.False(t, promotion.IsUsable())
	})
}
