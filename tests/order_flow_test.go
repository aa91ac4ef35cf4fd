// Package tests contains integration tests for order submission and pricing
package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playvault/game-store/app/dto"
	businessflow "github.com/playvault/game-store/business_flow"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	testingutil "github.com/playvault/game-store/testing"
	"github.com/playvault/game-store/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		userRepo := repository.NewUserRepository(testDB.DB)
		gameRepo := repository.NewGameRepository(testDB.DB)
		orderRepo := repository.NewOrderRepository(testDB.DB)
		promotionRepo := repository.NewPromotionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		referenceZone, err := time.LoadLocation(utils.DefaultReferenceTimezone)
		require.NoError(t, err)

		promotionFlow := businessflow.NewPromotionFlow(promotionRepo, nil, referenceZone)
		orderFlow := businessflow.NewOrderFlow(orderRepo, userRepo, gameRepo, auditRepo, promotionFlow, testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		mustDecimal := func(s string) decimal.Decimal {
			value, err := decimal.NewFromString(s)
			require.NoError(t, err)
			return value
		}

		t.Run("FullPriceWithoutCoupon", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("199.90")
			require.NoError(t, err)

			result, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Value.Equal(mustDecimal("199.90")), "got %s", result.Value)
		})

		t.Run("FixedCoupon", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("199.90")
			require.NoError(t, err)
			promotion, err := fixtures.CreateTestPromotion(models.DiscountFixed, "50", utils.UTCNowAdd(time.Hour))
			require.NoError(t, err)

			result, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
				Coupon: promotion.CouponCode,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Value.Equal(mustDecimal("149.90")), "got %s", result.Value)
		})

		t.Run("PercentageCoupon", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("100")
			require.NoError(t, err)
			promotion, err := fixtures.CreateTestPromotion(models.DiscountPercentage, "25", utils.UTCNowAdd(time.Hour))
			require.NoError(t, err)

			result, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
				Coupon: promotion.CouponCode,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Value.Equal(mustDecimal("75")), "got %s", result.Value)
		})

		t.Run("FixedCouponClampsAtZero", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("20")
			require.NoError(t, err)
			promotion, err := fixtures.CreateTestPromotion(models.DiscountFixed, "30", utils.UTCNowAdd(time.Hour))
			require.NoError(t, err)

			result, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
				Coupon: promotion.CouponCode,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Value.IsZero(), "got %s", result.Value)
		})

		t.Run("ExpiredCouponIgnored", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("100")
			require.NoError(t, err)
			promotion, err := fixtures.CreateTestPromotion(models.DiscountPercentage, "25", utils.UTCNowAdd(-time.Minute))
			require.NoError(t, err)

			result, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
				Coupon: promotion.CouponCode,
			}, metadata)
			require.NoError(t, err)

			// An expired coupon prices the order at full value, it does not fail it
			assert.True(t, result.Value.Equal(mustDecimal("100")), "got %s", result.Value)
		})

		t.Run("InactiveCouponIgnored", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("100")
			require.NoError(t, err)
			promotion, err := fixtures.CreateTestPromotion(models.DiscountPercentage, "25", utils.UTCNowAdd(time.Hour))
			require.NoError(t, err)
			require.NoError(t, promotionRepo.Deactivate(context.Background(), promotion.ID))

			result, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
				Coupon: promotion.CouponCode,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Value.Equal(mustDecimal("100")), "got %s", result.Value)
		})

		t.Run("UnknownCouponIgnored", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("100")
			require.NoError(t, err)

			result, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
				Coupon: "NOSUCHCODE",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, result.Value.Equal(mustDecimal("100")), "got %s", result.Value)
		})

		t.Run("DuplicateOrderRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("59.90")
			require.NoError(t, err)

			_, err = orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
			}, metadata)
			require.NoError(t, err)

			_, err = orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsDuplicateOrder(err))
		})

		t.Run("InactiveGameRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("59.90")
			require.NoError(t, err)
			require.NoError(t, gameRepo.Deactivate(context.Background(), game.ID))

			_, err = orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsGameNotPurchasable(err))
		})

		t.Run("UnknownGameRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			_, err = orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: 999999,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsGameNotFound(err))
		})

		t.Run("UnknownUserRejected", func(t *testing.T) {
			game, err := fixtures.CreateTestGame("59.90")
			require.NoError(t, err)

			_, err = orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: 999999,
				GameID: game.ID,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("GetScopedToOwner", func(t *testing.T) {
			owner, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			other, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			admin, err := fixtures.CreateTestAdministrator()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("59.90")
			require.NoError(t, err)
			order, err := fixtures.CreateTestOrder(owner, game)
			require.NoError(t, err)

			result, err := orderFlow.Get(context.Background(), order.ID, owner.ID, owner.Role)
			require.NoError(t, err)
			assert.Equal(t, order.ID, result.ID)

			// Someone else's order looks exactly like a missing one
			_, err = orderFlow.Get(context.Background(), order.ID, other.ID, other.Role)
			require.Error(t, err)
			assert.True(t, businessflow.IsOrderNotFound(err))

			_, err = orderFlow.Get(context.Background(), order.ID, admin.ID, admin.Role)
			require.NoError(t, err)
		})

		t.Run("AlterReprices", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("100")
			require.NoError(t, err)
			promotion, err := fixtures.CreateTestPromotion(models.DiscountPercentage, "50", utils.UTCNowAdd(time.Hour))
			require.NoError(t, err)

			created, err := orderFlow.Add(context.Background(), &dto.OrderAddRequest{
				UserID: user.ID,
				GameID: game.ID,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, created.Value.Equal(mustDecimal("100")))

			altered, err := orderFlow.Alter(context.Background(), &dto.OrderAlterRequest{
				ID:     created.ID,
				UserID: user.ID,
				GameID: game.ID,
				Coupon: promotion.CouponCode,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, altered.Value.Equal(mustDecimal("50")), "got %s", altered.Value)
		})

		return nil
	})
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping: %v", err)
	}
	require.NoError(t, err)
}
