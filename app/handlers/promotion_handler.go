package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/playvault/game-store/app/dto"
	businessflow "github.com/playvault/game-store/business_flow"
)

// PromotionHandler handles promotion-related HTTP requests
type PromotionHandler struct {
	BaseHandler
	promotionFlow businessflow.PromotionFlow
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionFlow businessflow.PromotionFlow) *PromotionHandler {
	return &PromotionHandler{
		BaseHandler:   NewBaseHandler(),
		promotionFlow: promotionFlow,
	}
}

// Get returns a single promotion
func (h *PromotionHandler) Get(c fiber.Ctx) error {
	promotionID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid promotion id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.promotionFlow.Get(ctx, promotionID)
	if err != nil {
		if businessflow.IsPromotionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Promotion not found", "PROMOTION_NOT_FOUND", nil)
		}

		log.Println("Get promotion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch promotion", "PROMOTION_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Promotion fetched", result)
}

// List returns promotions
func (h *PromotionHandler) List(c fiber.Ctx) error {
	limit, offset := parsePagination(c)

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.promotionFlow.List(ctx, limit, offset)
	if err != nil {
		log.Println("List promotions failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list promotions", "PROMOTION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Promotions fetched", result)
}

// Add creates a new promotion
func (h *PromotionHandler) Add(c fiber.Ctx) error {
	var req dto.PromotionAddRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.promotionFlow.Add(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.promotionError(c, "PROMOTION_ADD_FAILED", "Promotion creation failed", err)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Promotion created", result)
}

// Alter updates an existing promotion
func (h *PromotionHandler) Alter(c fiber.Ctx) error {
	var req dto.PromotionAlterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.promotionFlow.Alter(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.promotionError(c, "PROMOTION_ALTER_FAILED", "Promotion update failed", err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Promotion updated", result)
}

// Activate re-enables a promotion
func (h *PromotionHandler) Activate(c fiber.Ctx) error {
	promotionID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid promotion id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.promotionFlow.Activate(ctx, promotionID); err != nil {
		log.Println("Activate promotion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Promotion activation failed", "PROMOTION_ACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Promotion activated", nil)
}

// Deactivate disables a promotion
func (h *PromotionHandler) Deactivate(c fiber.Ctx) error {
	promotionID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid promotion id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.promotionFlow.Deactivate(ctx, promotionID); err != nil {
		log.Println("Deactivate promotion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Promotion deactivation failed", "PROMOTION_DEACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Promotion deactivated", nil)
}

func (h *PromotionHandler) promotionError(c fiber.Ctx, code, message string, err error) error {
	if businessflow.IsPromotionNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Promotion not found", "PROMOTION_NOT_FOUND", nil)
	}
	if businessflow.IsCouponAlreadyExists(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "Coupon code already exists", "COUPON_EXISTS", nil)
	}
	if businessflow.IsPromotionExpiryTooSoon(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Promotion expiry must be at least 10 minutes ahead", "EXPIRY_TOO_SOON", nil)
	}
	if businessflow.IsPricingError(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid discount value", "INVALID_DISCOUNT", nil)
	}

	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}
