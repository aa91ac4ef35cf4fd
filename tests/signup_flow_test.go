// Package tests contains integration tests for the signup flow
package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/services"
	businessflow "github.com/playvault/game-store/business_flow"
	"github.com/playvault/game-store/repository"
	testingutil "github.com/playvault/game-store/testing"
	"github.com/playvault/game-store/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		hasher := services.NewArgon2idHasher()
		notificationService := services.NewNotificationService(services.NewMockEmailProvider())

		signupFlow := businessflow.NewSignupFlow(userRepo, auditRepo, hasher, notificationService, testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		t.Run("SuccessfulSignup", func(t *testing.T) {
			suffix := time.Now().UnixNano()
			signupReq := &dto.SignupRequest{
				Name:     "Jordan Doe",
				Handle:   fmt.Sprintf("jordan%d", suffix),
				Email:    fmt.Sprintf("jordan.%d@example.com", suffix),
				Password: "SecurePass123!",
			}

			result, err := signupFlow.Signup(context.Background(), signupReq, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, signupReq.Handle, result.User.Handle)
			assert.Equal(t, signupReq.Email, result.User.Email)

			// The account starts inactive, holding an activation code
			user, err := userRepo.ByHandle(context.Background(), signupReq.Handle)
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.False(t, utils.IsTrue(user.IsActive))
			require.NotNil(t, user.ActivationCode)
			assert.Len(t, *user.ActivationCode, utils.ActivationCodeLength)

			// Salt and hash are stored separately, and the hash is not the password
			assert.NotEmpty(t, user.PasswordSalt)
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEqual(t, signupReq.Password, user.PasswordHash)

			ok, err := hasher.Verify(user.PasswordHash, signupReq.Password, user.PasswordSalt)
			require.NoError(t, err)
			assert.True(t, ok)
		})

		t.Run("DuplicateHandle", func(t *testing.T) {
			fixtures := testingutil.NewTestFixtures(testDB)
			existing, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			signupReq := &dto.SignupRequest{
				Name:     "Jordan Doe",
				Handle:   existing.Handle,
				Email:    fmt.Sprintf("other.%d@example.com", time.Now().UnixNano()),
				Password: "SecurePass123!",
			}

			_, err = signupFlow.Signup(context.Background(), signupReq, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsHandleAlreadyExists(err))
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			fixtures := testingutil.NewTestFixtures(testDB)
			existing, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			signupReq := &dto.SignupRequest{
				Name:     "Jordan Doe",
				Handle:   fmt.Sprintf("other%d", time.Now().UnixNano()),
				Email:    existing.Email,
				Password: "SecurePass123!",
			}

			_, err = signupFlow.Signup(context.Background(), signupReq, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("InvalidEmail", func(t *testing.T) {
			signupReq := &dto.SignupRequest{
				Name:     "Jordan Doe",
				Handle:   fmt.Sprintf("jordan%d", time.Now().UnixNano()),
				Email:    "not-an-email",
				Password: "SecurePass123!",
			}

			_, err := signupFlow.Signup(context.Background(), signupReq, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidEmailFormat(err))
		})

		t.Run("WeakPassword", func(t *testing.T) {
			suffix := time.Now().UnixNano()
			signupReq := &dto.SignupRequest{
				Name:     "Jordan Doe",
				Handle:   fmt.Sprintf("jordan%d", suffix),
				Email:    fmt.Sprintf("jordan.%d@example.com", suffix),
				Password: "onlyletters",
			}

			_, err := signupFlow.Signup(context.Background(), signupReq, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsWeakPassword(err))
		})

		return nil
	})
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping: %v", err)
	}
	require.NoError(t, err)
}
