// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/middleware"
	businessflow "github.com/playvault/game-store/business_flow"
	"github.com/playvault/game-store/models"
)

// BaseHandler carries the pieces every handler needs
type BaseHandler struct {
	validator *validator.Validate
}

// NewBaseHandler creates a base handler with custom validations registered
func NewBaseHandler() BaseHandler {
	v := validator.New()

	v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return models.PasswordStrong(fl.Field().String())
	})

	return BaseHandler{validator: v}
}

func (h *BaseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *BaseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validateRequest runs struct validation and writes the error response on failure.
// Returns false when the request was rejected.
func (h *BaseHandler) validateRequest(c fiber.Ctx, req any) (bool, error) {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return true, nil
}

// clientMetadata extracts client information for audit logging
func (h *BaseHandler) clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		metadata.SetRequestID(requestID)
	}
	return metadata
}

// createRequestContext creates a context with request-scoped values and a
// timeout. The caller must defer the cancel func to release the timer.
func (h *BaseHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		ctx = context.WithValue(ctx, businessflow.RequestIDKey, requestID)
	}
	return ctx, cancel
}

// isAdminRequest reports whether the authenticated requester is an administrator
func isAdminRequest(c fiber.Ctx) bool {
	role, ok := middleware.GetUserRoleFromContext(c)
	return ok && role == models.RoleAdministrator
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "alphanum":
		return err.Field() + " must contain only letters and numbers"
	case "password_strength":
		return "Password must contain at least one letter, one digit and one special character"
	default:
		return err.Field() + " is invalid"
	}
}
