// Package tests contains integration tests for promotion management and coupon resolution
package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playvault/game-store/app/dto"
	businessflow "github.com/playvault/game-store/business_flow"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	testingutil "github.com/playvault/game-store/testing"
	"github.com/playvault/game-store/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		promotionRepo := repository.NewPromotionRepository(testDB.DB)

		referenceZone, err := time.LoadLocation(utils.DefaultReferenceTimezone)
		require.NoError(t, err)

		promotionFlow := businessflow.NewPromotionFlow(promotionRepo, nil, referenceZone)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		freshCode := func() string {
			return fmt.Sprintf("TEST%d", time.Now().UnixNano()%100000000)
		}

		t.Run("AddNormalizesExpiryToReferenceZone", func(t *testing.T) {
			// The authored value is a wall-clock instant; whatever zone the
			// client attached is discarded and the platform zone applies
			authored := time.Now().In(referenceZone).Add(2 * time.Hour).Truncate(time.Second)
			expected := utils.InReferenceZone(authored, referenceZone)

			result, err := promotionFlow.Add(context.Background(), &dto.PromotionAddRequest{
				CouponCode:    freshCode(),
				Description:   "Launch discount",
				DiscountType:  string(models.DiscountPercentage),
				DiscountValue: "10",
				ExpiresAt:     authored,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.True(t, expected.Equal(result.ExpiresAt), "want %s, got %s", expected, result.ExpiresAt)
			assert.Equal(t, time.UTC, result.ExpiresAt.Location())
		})

		t.Run("ExpiryTooSoonRejected", func(t *testing.T) {
			// Five minutes ahead on the reference-zone wall clock is inside the
			// minimum authoring lead
			authored := time.Now().In(referenceZone).Add(5 * time.Minute)

			_, err := promotionFlow.Add(context.Background(), &dto.PromotionAddRequest{
				CouponCode:    freshCode(),
				DiscountType:  string(models.DiscountFixed),
				DiscountValue: "10",
				ExpiresAt:     authored,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPromotionExpiryTooSoon(err))
		})

		t.Run("ExpiryJustPastMinimumLeadAccepted", func(t *testing.T) {
			// One second beyond the minimum lead is the earliest acceptable expiry
			authored := time.Now().In(referenceZone).Add(utils.PromotionMinExpiryLead + time.Second)

			result, err := promotionFlow.Add(context.Background(), &dto.PromotionAddRequest{
				CouponCode:    freshCode(),
				DiscountType:  string(models.DiscountFixed),
				DiscountValue: "10",
				ExpiresAt:     authored,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
		})

		t.Run("PastExpiryRejected", func(t *testing.T) {
			authored := time.Now().In(referenceZone).Add(-time.Hour)

			_, err := promotionFlow.Add(context.Background(), &dto.PromotionAddRequest{
				CouponCode:    freshCode(),
				DiscountType:  string(models.DiscountFixed),
				DiscountValue: "10",
				ExpiresAt:     authored,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPromotionExpiryTooSoon(err))
		})

		t.Run("DuplicateCouponRejected", func(t *testing.T) {
			code := freshCode()
			authored := time.Now().In(referenceZone).Add(2 * time.Hour)

			req := &dto.PromotionAddRequest{
				CouponCode:    code,
				DiscountType:  string(models.DiscountFixed),
				DiscountValue: "10",
				ExpiresAt:     authored,
			}

			_, err := promotionFlow.Add(context.Background(), req, metadata)
			require.NoError(t, err)

			_, err = promotionFlow.Add(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCouponAlreadyExists(err))
		})

		t.Run("PercentageAboveHundredRejected", func(t *testing.T) {
			_, err := promotionFlow.Add(context.Background(), &dto.PromotionAddRequest{
				CouponCode:    freshCode(),
				DiscountType:  string(models.DiscountPercentage),
				DiscountValue: "150",
				ExpiresAt:     time.Now().In(referenceZone).Add(2 * time.Hour),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPricingError(err))
		})

		t.Run("NegativeDiscountRejected", func(t *testing.T) {
			_, err := promotionFlow.Add(context.Background(), &dto.PromotionAddRequest{
				CouponCode:    freshCode(),
				DiscountType:  string(models.DiscountFixed),
				DiscountValue: "-5",
				ExpiresAt:     time.Now().In(referenceZone).Add(2 * time.Hour),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPricingError(err))
		})

		t.Run("ResolveUsableCoupon", func(t *testing.T) {
			promotion, err := fixtures.CreateTestPromotion(models.DiscountPercentage, "25", utils.UTCNowAdd(time.Hour))
			require.NoError(t, err)

			resolved, err := promotionFlow.Resolve(context.Background(), promotion.CouponCode)
			require.NoError(t, err)
			require.NotNil(t, resolved)
			assert.Equal(t, promotion.CouponCode, resolved.CouponCode)
			assert.Equal(t, models.DiscountPercentage, resolved.DiscountType)
		})

		t.Run("ResolveUnknownCoupon", func(t *testing.T) {
			resolved, err := promotionFlow.Resolve(context.Background(), "NOSUCHCODE")
			require.NoError(t, err)
			assert.Nil(t, resolved)
		})

		t.Run("ResolveEmptyCoupon", func(t *testing.T) {
			resolved, err := promotionFlow.Resolve(context.Background(), "")
			require.NoError(t, err)
			assert.Nil(t, resolved)
		})

		t.Run("ResolveExpiredCoupon", func(t *testing.T) {
			promotion, err := fixtures.CreateTestPromotion(models.DiscountFixed, "10", utils.UTCNowAdd(-time.Minute))
			require.NoError(t, err)

			resolved, err := promotionFlow.Resolve(context.Background(), promotion.CouponCode)
			require.NoError(t, err)
			assert.Nil(t, resolved)
		})

		t.Run("ResolveInactiveCoupon", func(t *testing.T) {
			promotion, err := fixtures.CreateTestPromotion(models.DiscountFixed, "10", utils.UTCNowAdd(time.Hour))
			require.NoError(t, err)
			require.NoError(t, promotionRepo.Deactivate(context.Background(), promotion.ID))

			resolved, err := promotionFlow.Resolve(context.Background(), promotion.CouponCode)
			require.NoError(t, err)
			assert.Nil(t, resolved)
		})

		t.Run("AlterChangesDiscount", func(t *testing.T) {
			code := freshCode()
			authored := time.Now().In(referenceZone).Add(2 * time.Hour)

			created, err := promotionFlow.Add(context.Background(), &dto.PromotionAddRequest{
				CouponCode:    code,
				DiscountType:  string(models.DiscountFixed),
				DiscountValue: "10",
				ExpiresAt:     authored,
			}, metadata)
			require.NoError(t, err)

			altered, err := promotionFlow.Alter(context.Background(), &dto.PromotionAlterRequest{
				ID:            created.ID,
				CouponCode:    code,
				DiscountType:  string(models.DiscountPercentage),
				DiscountValue: "20",
				ExpiresAt:     authored,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, string(models.DiscountPercentage), altered.DiscountType)
			assert.Equal(t, "20", altered.DiscountValue.String())
		})

		return nil
	})
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping: %v", err)
	}
	require.NoError(t, err)
}
