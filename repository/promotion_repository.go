package repository

import (
	"context"
	"fmt"

	"github.com/playvault/game-store/models"
	"gorm.io/gorm"
)

// PromotionRepositoryImpl implements PromotionRepository interface
type PromotionRepositoryImpl struct {
	*BaseRepository[models.Promotion, models.PromotionFilter]
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &PromotionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Promotion, models.PromotionFilter](db),
	}
}

// ByCouponCode retrieves a promotion by its coupon code
func (r *PromotionRepositoryImpl) ByCouponCode(ctx context.Context, couponCode string) (*models.Promotion, error) {
	filter := models.PromotionFilter{CouponCode: &couponCode}
	promotions, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find promotion by coupon code: %w", err)
	}

	if len(promotions) == 0 {
		return nil, nil
	}

	return promotions[0], nil
}

// ListActive retrieves active promotions with pagination
func (r *PromotionRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Promotion, error) {
	filter := models.PromotionFilter{IsActive: boolPtr(true)}
	return r.ByFilter(ctx, filter, "expires_at ASC", limit, offset)
}

// Activate marks a promotion as active
func (r *PromotionRepositoryImpl) Activate(ctx context.Context, promotionID uint) error {
	return r.setActive(ctx, models.Promotion{}.TableName(), promotionID, true)
}

// Deactivate marks a promotion as inactive
func (r *PromotionRepositoryImpl) Deactivate(ctx context.Context, promotionID uint) error {
	return r.setActive(ctx, models.Promotion{}.TableName(), promotionID, false)
}

// applyFilter applies filter criteria to a GORM query
func (r *PromotionRepositoryImpl) applyFilter(query *gorm.DB, filter models.PromotionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.CouponCode != nil {
		query = query.Where("coupon_code = ?", *filter.CouponCode)
	}
	if filter.DiscountType != nil {
		query = query.Where("discount_type = ?", *filter.DiscountType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.ExpiresAfter != nil {
		query = query.Where("expires_at > ?", *filter.ExpiresAfter)
	}
	return query
}

// ByFilter retrieves promotions based on filter criteria
func (r *PromotionRepositoryImpl) ByFilter(ctx context.Context, filter models.PromotionFilter, orderBy string, limit, offset int) ([]*models.Promotion, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Promotion{}), filter)

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

	var promotions []*models.Promotion
	if err := query.Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to find promotions by filter: %w", err)
	}

	return promotions, nil
}

// Count returns the number of promotions matching the filter
func (r *PromotionRepositoryImpl) Count(ctx context.Context, filter models.PromotionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Promotion{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	return count, nil
}

// Exists checks if any promotion matching the filter exists
func (r *PromotionRepositoryImpl) Exists(ctx context.Context, filter models.PromotionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
