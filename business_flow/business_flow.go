// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserInfo converts a user model to its API representation
func ToUserInfo(user models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Name:      user.Name,
		Handle:    user.Handle,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToGameResponse converts a game model to its API representation
func ToGameResponse(game models.Game) dto.GameResponse {
	return dto.GameResponse{
		ID:          game.ID,
		UUID:        game.UUID.String(),
		Title:       game.Title,
		Description: game.Description,
		Genre:       game.Genre,
		Tags:        game.Tags,
		Price:       game.Price,
		IsActive:    game.IsActive,
		CreatedAt:   game.CreatedAt,
	}
}

// ToOrderResponse converts an order model to its API representation
func ToOrderResponse(order models.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:        order.ID,
		UUID:      order.UUID.String(),
		UserID:    order.UserID,
		GameID:    order.GameID,
		Value:     order.Value,
		IsActive:  order.IsActive,
		CreatedAt: order.CreatedAt,
	}
}

// ToPromotionResponse converts a promotion model to its API representation
func ToPromotionResponse(promotion models.Promotion) dto.PromotionResponse {
	return dto.PromotionResponse{
		ID:            promotion.ID,
		UUID:          promotion.UUID.String(),
		CouponCode:    promotion.CouponCode,
		Description:   promotion.Description,
		DiscountType:  string(promotion.DiscountType),
		DiscountValue: promotion.DiscountValue,
		ExpiresAt:     promotion.ExpiresAt,
		IsActive:      promotion.IsActive,
		CreatedAt:     promotion.CreatedAt,
	}
}
