// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/playvault/game-store/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByHandle(ctx context.Context, handle string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.User, error)
	Activate(ctx context.Context, userID uint) error
	Deactivate(ctx context.Context, userID uint) error
}

// GameRepository defines operations for games
type GameRepository interface {
	Repository[models.Game, models.GameFilter]
	ByTitle(ctx context.Context, title string) (*models.Game, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Game, error)
	Activate(ctx context.Context, gameID uint) error
	Deactivate(ctx context.Context, gameID uint) error
}

// OrderRepository defines operations for orders
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ExistsForUserAndGame(ctx context.Context, userID, gameID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Order, error)
	Activate(ctx context.Context, orderID uint) error
	Deactivate(ctx context.Context, orderID uint) error
}

// PromotionRepository defines operations for promotions
type PromotionRepository interface {
	Repository[models.Promotion, models.PromotionFilter]
	ByCouponCode(ctx context.Context, couponCode string) (*models.Promotion, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Promotion, error)
	Activate(ctx context.Context, promotionID uint) error
	Deactivate(ctx context.Context, promotionID uint) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
