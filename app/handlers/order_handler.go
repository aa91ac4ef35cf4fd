package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/middleware"
	businessflow "github.com/playvault/game-store/business_flow"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	BaseHandler
	orderFlow  businessflow.OrderFlow
	reportFlow businessflow.ReportFlow
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderFlow businessflow.OrderFlow, reportFlow businessflow.ReportFlow) *OrderHandler {
	return &OrderHandler{
		BaseHandler: NewBaseHandler(),
		orderFlow:   orderFlow,
		reportFlow:  reportFlow,
	}
}

// Get returns a single order scoped to the requester
func (h *OrderHandler) Get(c fiber.Ctx) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid order id", "INVALID_ID", nil)
	}

	requesterID, _ := middleware.GetUserIDFromContext(c)
	requesterRole, _ := middleware.GetUserRoleFromContext(c)

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.orderFlow.Get(ctx, orderID, requesterID, requesterRole)
	if err != nil {
		if businessflow.IsOrderNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", nil)
		}

		log.Println("Get order failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch order", "ORDER_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order fetched", result)
}

// List returns the requester's orders, or every order for administrators
func (h *OrderHandler) List(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	var (
		result []dto.OrderResponse
		err    error
	)
	if isAdminRequest(c) {
		limit, offset := parsePagination(c)
		result, err = h.orderFlow.List(ctx, limit, offset)
	} else {
		requesterID, _ := middleware.GetUserIDFromContext(c)
		result, err = h.orderFlow.ListByUser(ctx, requesterID)
	}
	if err != nil {
		log.Println("List orders failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list orders", "ORDER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Orders fetched", result)
}

// Add submits a new order
func (h *OrderHandler) Add(c fiber.Ctx) error {
	var req dto.OrderAddRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	// Standard users can only order for themselves
	if !isAdminRequest(c) {
		requesterID, _ := middleware.GetUserIDFromContext(c)
		req.UserID = requesterID
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.orderFlow.Add(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.orderError(c, "ORDER_ADD_FAILED", "Order submission failed", err)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Order created", result)
}

// Alter updates an existing order; the value is recomputed from scratch
func (h *OrderHandler) Alter(c fiber.Ctx) error {
	var req dto.OrderAlterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.orderFlow.Alter(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.orderError(c, "ORDER_ALTER_FAILED", "Order update failed", err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order updated", result)
}

// Activate re-enables an order
func (h *OrderHandler) Activate(c fiber.Ctx) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid order id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.orderFlow.Activate(ctx, orderID); err != nil {
		log.Println("Activate order failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order activation failed", "ORDER_ACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order activated", nil)
}

// Deactivate disables an order
func (h *OrderHandler) Deactivate(c fiber.Ctx) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid order id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.orderFlow.Deactivate(ctx, orderID); err != nil {
		log.Println("Deactivate order failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order deactivation failed", "ORDER_DEACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order deactivated", nil)
}

// DownloadCSV exports the order book as CSV
func (h *OrderHandler) DownloadCSV(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	filename, payload, err := h.reportFlow.DownloadOrdersCSV(ctx)
	if err != nil {
		log.Println("Order CSV export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order export failed", "ORDER_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(payload)
}

// DownloadExcel exports the order book as an XLSX workbook
func (h *OrderHandler) DownloadExcel(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	filename, payload, err := h.reportFlow.DownloadOrdersExcel(ctx)
	if err != nil {
		log.Println("Order Excel export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Order export failed", "ORDER_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(payload)
}

func (h *OrderHandler) orderError(c fiber.Ctx, code, message string, err error) error {
	if businessflow.IsOrderNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", nil)
	}
	if businessflow.IsGameNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Game not found", "GAME_NOT_FOUND", nil)
	}
	if businessflow.IsGameNotPurchasable(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Game is not available for purchase", "GAME_NOT_PURCHASABLE", nil)
	}
	if businessflow.IsUserNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
	}
	if businessflow.IsDuplicateOrder(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "An order for this user and game already exists", "DUPLICATE_ORDER", nil)
	}
	if businessflow.IsPricingError(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Order pricing failed", "PRICING_FAILED", nil)
	}

	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}
