package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/playvault/game-store/app/middleware"
	businessflow "github.com/playvault/game-store/business_flow"
)

// UserHandler handles admin user-management HTTP requests
type UserHandler struct {
	BaseHandler
	userFlow businessflow.UserFlow
}

// NewUserHandler creates a new user handler
func NewUserHandler(userFlow businessflow.UserFlow) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(),
		userFlow:    userFlow,
	}
}

// Me returns the authenticated user's own profile
func (h *UserHandler) Me(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.userFlow.Get(ctx, userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Get profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch profile", "PROFILE_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile fetched", result)
}

// Get returns a single user
func (h *UserHandler) Get(c fiber.Ctx) error {
	userID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.userFlow.Get(ctx, userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Get user failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", "USER_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User fetched", result)
}

// List returns users
func (h *UserHandler) List(c fiber.Ctx) error {
	limit, offset := parsePagination(c)

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.userFlow.List(ctx, limit, offset)
	if err != nil {
		log.Println("List users failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list users", "USER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Users fetched", result)
}

// Promote grants the administrator role
func (h *UserHandler) Promote(c fiber.Ctx) error {
	userID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.userFlow.Promote(ctx, userID); err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Promote user failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Role change failed", "ROLE_CHANGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User promoted to administrator", nil)
}

// Demote revokes the administrator role
func (h *UserHandler) Demote(c fiber.Ctx) error {
	userID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.userFlow.Demote(ctx, userID); err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Demote user failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Role change failed", "ROLE_CHANGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User demoted to standard", nil)
}

// Activate re-enables a user account
func (h *UserHandler) Activate(c fiber.Ctx) error {
	userID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.userFlow.Activate(ctx, userID); err != nil {
		log.Println("Activate user failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "User activation failed", "USER_ACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User activated", nil)
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c fiber.Ctx) error {
	userID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.userFlow.Deactivate(ctx, userID); err != nil {
		log.Println("Deactivate user failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "User deactivation failed", "USER_DEACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User deactivated", nil)
}
