package businessflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
	"github.com/playvault/game-store/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderFlow handles order submission and pricing
type OrderFlow interface {
	Get(ctx context.Context, orderID uint, requesterID uint, requesterRole string) (*dto.OrderResponse, error)
	List(ctx context.Context, limit, offset int) ([]dto.OrderResponse, error)
	ListByUser(ctx context.Context, userID uint) ([]dto.OrderResponse, error)
	Add(ctx context.Context, request *dto.OrderAddRequest, metadata *ClientMetadata) (*dto.OrderResponse, error)
	Alter(ctx context.Context, request *dto.OrderAlterRequest, metadata *ClientMetadata) (*dto.OrderResponse, error)
	Activate(ctx context.Context, orderID uint) error
	Deactivate(ctx context.Context, orderID uint) error
}

// OrderFlowImpl implements the order business flow
type OrderFlowImpl struct {
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	gameRepo      repository.GameRepository
	auditRepo     repository.AuditLogRepository
	promotionFlow PromotionFlow
	db            *gorm.DB
}

// NewOrderFlow creates a new order flow instance
func NewOrderFlow(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	gameRepo repository.GameRepository,
	auditRepo repository.AuditLogRepository,
	promotionFlow PromotionFlow,
	db *gorm.DB,
) OrderFlow {
	return &OrderFlowImpl{
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		gameRepo:      gameRepo,
		auditRepo:     auditRepo,
		promotionFlow: promotionFlow,
		db:            db,
	}
}

// Get returns an order. Standard users only see their own orders; the same
// not-found error covers both a missing order and someone else's, so IDs cannot
// be enumerated.
func (of *OrderFlowImpl) Get(ctx context.Context, orderID uint, requesterID uint, requesterRole string) (*dto.OrderResponse, error) {
	order, err := of.orderRepo.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if requesterRole != models.RoleAdministrator && order.UserID != requesterID {
		return nil, ErrOrderNotFound
	}

	response := ToOrderResponse(*order)
	return &response, nil
}

func (of *OrderFlowImpl) List(ctx context.Context, limit, offset int) ([]dto.OrderResponse, error) {
	orders, err := of.orderRepo.ByFilter(ctx, models.OrderFilter{}, "id DESC", limit, offset)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func (of *OrderFlowImpl) ListByUser(ctx context.Context, userID uint) ([]dto.OrderResponse, error) {
	orders, err := of.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// Add validates the user, the game and the optional coupon, prices the order
// and persists it. One order per (user, game) pair; the composite unique index
// backs the pre-check against races.
func (of *OrderFlowImpl) Add(ctx context.Context, request *dto.OrderAddRequest, metadata *ClientMetadata) (*dto.OrderResponse, error) {
	var order *models.Order

	err := repository.WithTransaction(ctx, of.db, func(ctx context.Context) error {
		game, user, err := of.resolveParties(ctx, request.UserID, request.GameID)
		if err != nil {
			return err
		}

		exists, err := of.orderRepo.ExistsForUserAndGame(ctx, user.ID, game.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateOrder
		}

		order = &models.Order{
			UUID:     uuid.New(),
			UserID:   user.ID,
			GameID:   game.ID,
			IsActive: utils.ToPtr(true),
		}

		if err := of.price(ctx, order, game, request.Coupon); err != nil {
			return err
		}

		if err := of.orderRepo.Save(ctx, order); err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateOrder
			}
			return err
		}

		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ORDER_ADD_FAILED", "Order submission failed", err)
	}

	msg := fmt.Sprintf("Order created: %d (user %d, game %d)", order.ID, order.UserID, order.GameID)
	_ = of.logOrderEvent(ctx, order, models.AuditActionOrderCreated, msg, metadata)

	response := ToOrderResponse(*order)
	return &response, nil
}

// Alter re-resolves the parties and reprices the order from scratch. The stored
// value is never patched directly.
func (of *OrderFlowImpl) Alter(ctx context.Context, request *dto.OrderAlterRequest, metadata *ClientMetadata) (*dto.OrderResponse, error) {
	var order *models.Order

	err := repository.WithTransaction(ctx, of.db, func(ctx context.Context) error {
		var err error
		order, err = of.orderRepo.ByID(ctx, request.ID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		game, user, err := of.resolveParties(ctx, request.UserID, request.GameID)
		if err != nil {
			return err
		}

		if user.ID != order.UserID || game.ID != order.GameID {
			exists, err := of.orderRepo.ExistsForUserAndGame(ctx, user.ID, game.ID)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicateOrder
			}
		}

		order.UserID = user.ID
		order.GameID = game.ID

		if err := of.price(ctx, order, game, request.Coupon); err != nil {
			return err
		}

		if err := of.orderRepo.Update(ctx, order); err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateOrder
			}
			return err
		}

		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ORDER_ALTER_FAILED", "Order update failed", err)
	}

	msg := fmt.Sprintf("Order updated: %d", order.ID)
	_ = of.logOrderEvent(ctx, order, models.AuditActionOrderUpdated, msg, metadata)

	response := ToOrderResponse(*order)
	return &response, nil
}

func (of *OrderFlowImpl) Activate(ctx context.Context, orderID uint) error {
	return of.orderRepo.Activate(ctx, orderID)
}

func (of *OrderFlowImpl) Deactivate(ctx context.Context, orderID uint) error {
	return of.orderRepo.Deactivate(ctx, orderID)
}

func (of *OrderFlowImpl) resolveParties(ctx context.Context, userID, gameID uint) (*models.Game, *models.User, error) {
	game, err := of.gameRepo.ByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game == nil {
		return nil, nil, ErrGameNotFound
	}
	if !utils.IsTrue(game.IsActive) {
		return nil, nil, ErrGameNotPurchasable
	}

	user, err := of.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	return game, user, nil
}

// price resolves the coupon and computes the order value. A missing or unusable
// coupon prices the order at full value rather than failing it.
func (of *OrderFlowImpl) price(ctx context.Context, order *models.Order, game *models.Game, couponCode string) error {
	discountType := models.DiscountFixed
	discountValue := decimal.Zero

	promotion, err := of.promotionFlow.Resolve(ctx, couponCode)
	if err != nil {
		return err
	}
	if promotion != nil {
		discountType = promotion.DiscountType
		discountValue = promotion.DiscountValue
	}

	return order.CalculateValue(game.Price, discountType, discountValue)
}

func (of *OrderFlowImpl) logOrderEvent(ctx context.Context, order *models.Order, action string, description string, metadata *ClientMetadata) error {
	success := true
	audit := &models.AuditLog{
		UserID:      &order.UserID,
		Action:      action,
		Description: &description,
		Success:     &success,
	}
	applyMetadata(audit, ctx, metadata)

	return of.auditRepo.Save(ctx, audit)
}

func toOrderResponses(orders []*models.Order) []dto.OrderResponse {
	responses := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToOrderResponse(*order))
	}
	return responses
}
