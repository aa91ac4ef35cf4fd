package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	"github.com/playvault/game-store/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PromotionFlow handles promotion management and coupon resolution
type PromotionFlow interface {
	Get(ctx context.Context, promotionID uint) (*dto.PromotionResponse, error)
	List(ctx context.Context, limit, offset int) ([]dto.PromotionResponse, error)
	ListActive(ctx context.Context, limit, offset int) ([]dto.PromotionResponse, error)
	Add(ctx context.Context, request *dto.PromotionAddRequest, metadata *ClientMetadata) (*dto.PromotionResponse, error)
	Alter(ctx context.Context, request *dto.PromotionAlterRequest, metadata *ClientMetadata) (*dto.PromotionResponse, error)
	Activate(ctx context.Context, promotionID uint) error
	Deactivate(ctx context.Context, promotionID uint) error

	// Resolve returns the usable promotion for a coupon code, or nil when the
	// code is unknown, inactive or expired
	Resolve(ctx context.Context, couponCode string) (*models.Promotion, error)
}

// PromotionFlowImpl implements the promotion business flow
type PromotionFlowImpl struct {
	promotionRepo repository.PromotionRepository
	redisClient   *redis.Client
	referenceZone *time.Location
}

// NewPromotionFlow creates a new promotion flow instance. redisClient may be
// nil; coupon resolution then always hits the store.
func NewPromotionFlow(promotionRepo repository.PromotionRepository, redisClient *redis.Client, referenceZone *time.Location) PromotionFlow {
	return &PromotionFlowImpl{
		promotionRepo: promotionRepo,
		redisClient:   redisClient,
		referenceZone: referenceZone,
	}
}

func (pf *PromotionFlowImpl) Get(ctx context.Context, promotionID uint) (*dto.PromotionResponse, error) {
	promotion, err := pf.promotionRepo.ByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}

	response := ToPromotionResponse(*promotion)
	return &response, nil
}

func (pf *PromotionFlowImpl) List(ctx context.Context, limit, offset int) ([]dto.PromotionResponse, error) {
	promotions, err := pf.promotionRepo.ByFilter(ctx, models.PromotionFilter{}, "id DESC", limit, offset)
	if err != nil {
		return nil, err
	}
	return toPromotionResponses(promotions), nil
}

func (pf *PromotionFlowImpl) ListActive(ctx context.Context, limit, offset int) ([]dto.PromotionResponse, error) {
	promotions, err := pf.promotionRepo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toPromotionResponses(promotions), nil
}

func (pf *PromotionFlowImpl) Add(ctx context.Context, request *dto.PromotionAddRequest, metadata *ClientMetadata) (*dto.PromotionResponse, error) {
	discountType, discountValue, err := pf.parseDiscount(request.DiscountType, request.DiscountValue)
	if err != nil {
		return nil, NewBusinessError("PROMOTION_ADD_FAILED", "Promotion creation failed", err)
	}

	expiresAt, err := pf.normalizeExpiry(request.ExpiresAt)
	if err != nil {
		return nil, NewBusinessError("PROMOTION_ADD_FAILED", "Promotion creation failed", err)
	}

	promotion := &models.Promotion{
		UUID:          uuid.New(),
		CouponCode:    request.CouponCode,
		Description:   request.Description,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		ExpiresAt:     expiresAt,
		IsActive:      utils.ToPtr(true),
	}

	if err := pf.promotionRepo.Save(ctx, promotion); err != nil {
		if isDuplicateKey(err) {
			return nil, NewBusinessError("PROMOTION_ADD_FAILED", "Promotion creation failed", ErrCouponAlreadyExists)
		}
		return nil, NewBusinessError("PROMOTION_ADD_FAILED", "Promotion creation failed", err)
	}

	response := ToPromotionResponse(*promotion)
	return &response, nil
}

func (pf *PromotionFlowImpl) Alter(ctx context.Context, request *dto.PromotionAlterRequest, metadata *ClientMetadata) (*dto.PromotionResponse, error) {
	promotion, err := pf.promotionRepo.ByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, NewBusinessError("PROMOTION_ALTER_FAILED", "Promotion update failed", ErrPromotionNotFound)
	}

	discountType, discountValue, err := pf.parseDiscount(request.DiscountType, request.DiscountValue)
	if err != nil {
		return nil, NewBusinessError("PROMOTION_ALTER_FAILED", "Promotion update failed", err)
	}

	expiresAt, err := pf.normalizeExpiry(request.ExpiresAt)
	if err != nil {
		return nil, NewBusinessError("PROMOTION_ALTER_FAILED", "Promotion update failed", err)
	}

	previousCode := promotion.CouponCode

	promotion.CouponCode = request.CouponCode
	promotion.Description = request.Description
	promotion.DiscountType = discountType
	promotion.DiscountValue = discountValue
	promotion.ExpiresAt = expiresAt

	if err := pf.promotionRepo.Update(ctx, promotion); err != nil {
		if isDuplicateKey(err) {
			return nil, NewBusinessError("PROMOTION_ALTER_FAILED", "Promotion update failed", ErrCouponAlreadyExists)
		}
		return nil, NewBusinessError("PROMOTION_ALTER_FAILED", "Promotion update failed", err)
	}

	pf.invalidateCoupon(ctx, previousCode)
	pf.invalidateCoupon(ctx, promotion.CouponCode)

	response := ToPromotionResponse(*promotion)
	return &response, nil
}

func (pf *PromotionFlowImpl) Activate(ctx context.Context, promotionID uint) error {
	if err := pf.promotionRepo.Activate(ctx, promotionID); err != nil {
		return err
	}
	pf.invalidateByID(ctx, promotionID)
	return nil
}

func (pf *PromotionFlowImpl) Deactivate(ctx context.Context, promotionID uint) error {
	if err := pf.promotionRepo.Deactivate(ctx, promotionID); err != nil {
		return err
	}
	pf.invalidateByID(ctx, promotionID)
	return nil
}

// Resolve looks a coupon up in the cache, falling back to the store. Expiry is
// evaluated lazily here, not via a background sweep, so a cached promotion is
// re-checked on every hit.
func (pf *PromotionFlowImpl) Resolve(ctx context.Context, couponCode string) (*models.Promotion, error) {
	if couponCode == "" {
		return nil, nil
	}

	if cached := pf.cachedCoupon(ctx, couponCode); cached != nil {
		if cached.IsUsable() {
			return cached, nil
		}
		return nil, nil
	}

	promotion, err := pf.promotionRepo.ByCouponCode(ctx, couponCode)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, nil
	}

	pf.cacheCoupon(ctx, promotion)

	if !promotion.IsUsable() {
		return nil, nil
	}
	return promotion, nil
}

// normalizeExpiry reinterprets the authored wall-clock expiry in the platform
// reference timezone and enforces the minimum authoring lead
func (pf *PromotionFlowImpl) normalizeExpiry(authored time.Time) (time.Time, error) {
	expiresAt := utils.InReferenceZone(authored, pf.referenceZone)
	if expiresAt.Before(utils.UTCNowAdd(utils.PromotionMinExpiryLead)) {
		return time.Time{}, ErrPromotionExpiryTooSoon
	}
	return expiresAt, nil
}

func (pf *PromotionFlowImpl) parseDiscount(kind, raw string) (models.DiscountType, decimal.Decimal, error) {
	var discountType models.DiscountType
	switch kind {
	case string(models.DiscountFixed):
		discountType = models.DiscountFixed
	case string(models.DiscountPercentage):
		discountType = models.DiscountPercentage
	default:
		return "", decimal.Zero, fmt.Errorf("unknown discount type %q", kind)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("invalid discount value %q: %w", raw, err)
	}
	if value.IsNegative() {
		return "", decimal.Zero, models.ErrDiscountOutOfRange
	}
	if discountType == models.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return "", decimal.Zero, models.ErrDiscountOutOfRange
	}

	return discountType, value, nil
}

func (pf *PromotionFlowImpl) cachedCoupon(ctx context.Context, couponCode string) *models.Promotion {
	if pf.redisClient == nil {
		return nil
	}

	payload, err := pf.redisClient.Get(ctx, utils.CouponCacheKeyPrefix+couponCode).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("coupon cache read failed for %s: %v", couponCode, err)
		}
		return nil
	}

	var promotion models.Promotion
	if err := json.Unmarshal(payload, &promotion); err != nil {
		log.Printf("coupon cache decode failed for %s: %v", couponCode, err)
		return nil
	}
	return &promotion
}

func (pf *PromotionFlowImpl) cacheCoupon(ctx context.Context, promotion *models.Promotion) {
	if pf.redisClient == nil {
		return
	}

	payload, err := json.Marshal(promotion)
	if err != nil {
		return
	}
	if err := pf.redisClient.Set(ctx, utils.CouponCacheKeyPrefix+promotion.CouponCode, payload, utils.CouponCacheTTL).Err(); err != nil {
		log.Printf("coupon cache write failed for %s: %v", promotion.CouponCode, err)
	}
}

func (pf *PromotionFlowImpl) invalidateCoupon(ctx context.Context, couponCode string) {
	if pf.redisClient == nil || couponCode == "" {
		return
	}
	if err := pf.redisClient.Del(ctx, utils.CouponCacheKeyPrefix+couponCode).Err(); err != nil {
		log.Printf("coupon cache invalidation failed for %s: %v", couponCode, err)
	}
}

func (pf *PromotionFlowImpl) invalidateByID(ctx context.Context, promotionID uint) {
	promotion, err := pf.promotionRepo.ByID(ctx, promotionID)
	if err != nil || promotion == nil {
		return
	}
	pf.invalidateCoupon(ctx, promotion.CouponCode)
}

func toPromotionResponses(promotions []*models.Promotion) []dto.PromotionResponse {
	responses := make([]dto.PromotionResponse, 0, len(promotions))
	for _, promotion := range promotions {
		responses = append(responses, ToPromotionResponse(*promotion))
	}
	return responses
}
