// Package tests contains integration tests for the repository layer
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	testingutil "github.com/playvault/game-store/testing"
	"github.com/playvault/game-store/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		userRepo := repository.NewUserRepository(testDB.DB)
		gameRepo := repository.NewGameRepository(testDB.DB)
		orderRepo := repository.NewOrderRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		t.Run("UserByHandleAndEmail", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			found, err := userRepo.ByHandle(ctx, user.Handle)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)

			found, err = userRepo.ByEmail(ctx, user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)

			missing, err := userRepo.ByHandle(ctx, "nobody-here")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("UserActivateDeactivate", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			require.NoError(t, userRepo.Deactivate(ctx, user.ID))
			reloaded, err := fixtures.ReloadUser(user.ID)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(reloaded.IsActive))

			require.NoError(t, userRepo.Activate(ctx, user.ID))
			reloaded, err = fixtures.ReloadUser(user.ID)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(reloaded.IsActive))
		})

		t.Run("DuplicateHandleViolation", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			clone := &models.User{
				UUID:         uuid.New(),
				Name:         user.Name,
				Handle:       user.Handle,
				Email:        "different." + user.Email,
				PasswordHash: user.PasswordHash,
				PasswordSalt: user.PasswordSalt,
				Role:         models.RoleStandard,
				IsActive:     utils.ToPtr(true),
			}

			err = userRepo.Save(ctx, clone)
			require.Error(t, err)
			assert.True(t, repository.IsUniqueViolation(err) || errors.Is(err, repository.ErrDuplicateKey))
		})

		t.Run("GameByTitle", func(t *testing.T) {
			game, err := fixtures.CreateTestGame("59.90")
			require.NoError(t, err)

			found, err := gameRepo.ByTitle(ctx, game.Title)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, game.ID, found.ID)
			assert.True(t, game.Price.Equal(found.Price))
			assert.Equal(t, []string(game.Tags), []string(found.Tags))
		})

		t.Run("OrderUniquePerUserAndGame", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			game, err := fixtures.CreateTestGame("59.90")
			require.NoError(t, err)

			exists, err := orderRepo.ExistsForUserAndGame(ctx, user.ID, game.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			order, err := fixtures.CreateTestOrder(user, game)
			require.NoError(t, err)

			exists, err = orderRepo.ExistsForUserAndGame(ctx, user.ID, game.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			// The composite unique index is the last line of defense
			duplicate := &models.Order{
				UUID:     uuid.New(),
				UserID:   user.ID,
				GameID:   game.ID,
				Value:    order.Value,
				IsActive: utils.ToPtr(true),
			}
			err = orderRepo.Save(ctx, duplicate)
			require.Error(t, err)
			assert.True(t, repository.IsUniqueViolation(err) || errors.Is(err, repository.ErrDuplicateKey))
		})

		t.Run("OrderListByUser", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			first, err := fixtures.CreateTestGame("10")
			require.NoError(t, err)
			second, err := fixtures.CreateTestGame("20")
			require.NoError(t, err)

			_, err = fixtures.CreateTestOrder(user, first)
			require.NoError(t, err)
			_, err = fixtures.CreateTestOrder(user, second)
			require.NoError(t, err)

			orders, err := orderRepo.ListByUser(ctx, user.ID)
			require.NoError(t, err)
			assert.Len(t, orders, 2)
		})

		t.Run("AuditFailedActions", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			failure := "wrong password"
			failed := &models.AuditLog{
				UserID:       &user.ID,
				Action:       models.AuditActionLoginFailed,
				Success:      utils.ToPtr(false),
				ErrorMessage: &failure,
			}
			require.NoError(t, auditRepo.Save(ctx, failed))

			succeeded := &models.AuditLog{
				UserID:  &user.ID,
				Action:  models.AuditActionLoginSuccess,
				Success: utils.ToPtr(true),
			}
			require.NoError(t, auditRepo.Save(ctx, succeeded))

			failures, err := auditRepo.ListFailedActions(ctx, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, failures)
			for _, entry := range failures {
				assert.True(t, entry.IsFailed())
			}

			byUser, err := auditRepo.ListByUser(ctx, user.ID, 10, 0)
			require.NoError(t, err)
			assert.Len(t, byUser, 2)
		})

		return nil
	})
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping: %v", err)
	}
	require.NoError(t, err)
}
