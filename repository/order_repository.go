package repository

import (
	"context"
	"fmt"

	"github.com/playvault/game-store/models"
	"gorm.io/gorm"
)

// OrderRepositoryImpl implements OrderRepository interface
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db),
	}
}

// ExistsForUserAndGame checks whether an active order already links the user and game.
// The composite unique index on (user_id, game_id) remains the authoritative
// guard; this pre-check only exists to produce a friendly conflict error.
func (r *OrderRepositoryImpl) ExistsForUserAndGame(ctx context.Context, userID, gameID uint) (bool, error) {
	filter := models.OrderFilter{
		UserID:   &userID,
		GameID:   &gameID,
		IsActive: boolPtr(true),
	}
	return r.Exists(ctx, filter)
}

// ListByUser retrieves all active orders for a user
func (r *OrderRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.Order, error) {
	filter := models.OrderFilter{
		UserID:   &userID,
		IsActive: boolPtr(true),
	}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// Activate marks an order as active
func (r *OrderRepositoryImpl) Activate(ctx context.Context, orderID uint) error {
	return r.setActive(ctx, models.Order{}.TableName(), orderID, true)
}

// Deactivate marks an order as inactive
func (r *OrderRepositoryImpl) Deactivate(ctx context.Context, orderID uint) error {
	return r.setActive(ctx, models.Order{}.TableName(), orderID, false)
}

// applyFilter applies filter criteria to a GORM query
func (r *OrderRepositoryImpl) applyFilter(query *gorm.DB, filter models.OrderFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.GameID != nil {
		query = query.Where("game_id = ?", *filter.GameID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves orders based on filter criteria
func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []*models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders by filter: %w", err)
	}

	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *OrderRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// Exists checks if any order matching the filter exists
func (r *OrderRepositoryImpl) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
