// Package testing provides test utilities and database setup for testing the game store platform
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/playvault/game-store/app/services"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/utils"
	"github.com/shopspring/decimal"
)

// TestPassword is the plaintext password every fixture user is created with
const TestPassword = "TestPass123!"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB     *TestDB
	hasher services.PasswordHasher
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{
		DB:     db,
		hasher: services.NewArgon2idHasher(),
	}
}

// CreateTestUser creates an active user with a fresh handle and hashed credentials
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	return tf.createUser(models.RoleStandard, true)
}

// CreateTestAdministrator creates an active user carrying the administrator role
func (tf *TestFixtures) CreateTestAdministrator() (*models.User, error) {
	return tf.createUser(models.RoleAdministrator, true)
}

// CreateTestPendingUser creates an inactive user holding an activation code, the
// state a user is in right after registration
func (tf *TestFixtures) CreateTestPendingUser() (*models.User, error) {
	user, err := tf.createUser(models.RoleStandard, false)
	if err != nil {
		return nil, err
	}

	if err := user.GenerateActivationCode(); err != nil {
		return nil, fmt.Errorf("failed to generate activation code: %w", err)
	}
	if err := tf.DB.DB.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to store activation code: %w", err)
	}

	return user, nil
}

func (tf *TestFixtures) createUser(role string, active bool) (*models.User, error) {
	salt := tf.hasher.NewSalt()
	hash, err := tf.hasher.Hash(TestPassword, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%d%04d", time.Now().UnixNano()%1000000, rand.Intn(10000))

	user := &models.User{
		UUID:         uuid.New(),
		Name:         "Jordan Doe",
		Handle:       fmt.Sprintf("jordan%s", suffix),
		Email:        fmt.Sprintf("jordan.%s@example.com", suffix),
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         role,
		IsActive:     utils.ToPtr(active),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestGame creates an active catalog entry with the given price
func (tf *TestFixtures) CreateTestGame(price string) (*models.Game, error) {
	value, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid test game price %q: %w", price, err)
	}

	game := &models.Game{
		UUID:        uuid.New(),
		Title:       fmt.Sprintf("Starfall Odyssey %d", rand.Intn(1000000)),
		Description: "A space exploration adventure",
		Genre:       models.GenreRPG,
		Tags:        []string{"space", "exploration"},
		Price:       value,
		IsActive:    utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(game).Error; err != nil {
		return nil, fmt.Errorf("failed to create test game: %w", err)
	}

	return game, nil
}

// CreateTestPromotion creates an active promotion expiring at the given instant
func (tf *TestFixtures) CreateTestPromotion(kind models.DiscountType, value string, expiresAt time.Time) (*models.Promotion, error) {
	discount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid test discount value %q: %w", value, err)
	}

	promotion := &models.Promotion{
		UUID:          uuid.New(),
		CouponCode:    fmt.Sprintf("SAVE%06d", rand.Intn(1000000)),
		Description:   "Test promotion",
		DiscountType:  kind,
		DiscountValue: discount,
		ExpiresAt:     expiresAt.UTC(),
		IsActive:      utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(promotion).Error; err != nil {
		return nil, fmt.Errorf("failed to create test promotion: %w", err)
	}

	return promotion, nil
}

// CreateTestOrder creates an order for the given user and game priced at full value
func (tf *TestFixtures) CreateTestOrder(user *models.User, game *models.Game) (*models.Order, error) {
	order := &models.Order{
		UUID:     uuid.New(),
		UserID:   user.ID,
		GameID:   game.ID,
		Value:    game.Price,
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create test order: %w", err)
	}

	return order, nil
}

// ReloadUser fetches the current persisted state of a user
func (tf *TestFixtures) ReloadUser(id uint) (*models.User, error) {
	var user models.User
	if err := tf.DB.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
