package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/middleware"
	businessflow "github.com/playvault/game-store/business_flow"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	ActivationLogin(c fiber.Ctx) error
	NewPasswordLogin(c fiber.Ctx) error
	ForgotPassword(c fiber.Ctx) error
	RequestReactivation(c fiber.Ctx) error
	ResendActivationCode(c fiber.Ctx) error
	ResendValidationCode(c fiber.Ctx) error
	Health(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	signupFlow businessflow.SignupFlow
	loginFlow  businessflow.LoginFlow
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(signupFlow businessflow.SignupFlow, loginFlow businessflow.LoginFlow) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(),
		signupFlow:  signupFlow,
		loginFlow:   loginFlow,
	}
}

// Signup handles user registration
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.signupFlow.Signup(ctx, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsHandleAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Handle already exists", "HANDLE_EXISTS", nil)
		}
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already exists", "EMAIL_EXISTS", nil)
		}
		if businessflow.IsInvalidEmailFormat(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", "INVALID_EMAIL", nil)
		}
		if businessflow.IsWeakPassword(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Password does not meet the strength requirements", "WEAK_PASSWORD", nil)
		}

		log.Println("Signup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Account created; check your email for the activation code", result)
}

// Login handles user authentication
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.loginFlow.Login(ctx, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidCredentials(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid handle or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountLockedNow(err) {
			middleware.AccountLockoutsTotal.Inc()
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account locked after too many failed attempts", "ACCOUNT_LOCKED", nil)
		}
		if businessflow.IsAccountLocked(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is locked or not activated", "ACCOUNT_LOCKED", nil)
		}

		log.Println("Login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// ActivationLogin handles the login variant that activates the account
func (h *AuthHandler) ActivationLogin(c fiber.Ctx) error {
	var req dto.ActivationLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.loginFlow.ActivationLogin(ctx, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidCredentials(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid handle or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsInvalidActivationCode(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid activation code", "INVALID_ACTIVATION_CODE", nil)
		}
		if businessflow.IsAccountLockedNow(err) {
			middleware.AccountLockoutsTotal.Inc()
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account locked after too many failed attempts", "ACCOUNT_LOCKED", nil)
		}

		log.Println("Activation login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Activation login failed", "ACTIVATION_LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Account activated", result)
}

// NewPasswordLogin completes password recovery with the emailed validation code
func (h *AuthHandler) NewPasswordLogin(c fiber.Ctx) error {
	var req dto.NewPasswordLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.loginFlow.NewPasswordLogin(ctx, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidValidationCode(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid user or validation code", "INVALID_VALIDATION_CODE", nil)
		}
		if businessflow.IsWeakPassword(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Password does not meet the strength requirements", "WEAK_PASSWORD", nil)
		}

		log.Println("Password reset failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Password reset failed", "PASSWORD_RESET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Password reset successful", result)
}

// ForgotPassword initiates password recovery by emailing a validation code
func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.loginFlow.RequestPasswordReset(ctx, &req, h.clientMetadata(c)); err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Forgot password failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Password reset request failed", "PASSWORD_RESET_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Validation code sent to your email", nil)
}

// RequestReactivation emails a fresh activation code to an inactive account
func (h *AuthHandler) RequestReactivation(c fiber.Ctx) error {
	var req dto.ReactivationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.loginFlow.RequestReactivation(ctx, &req, h.clientMetadata(c)); err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsAccountAlreadyActive(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Account is already active", "ACCOUNT_ALREADY_ACTIVE", nil)
		}

		log.Println("Reactivation request failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Reactivation request failed", "REACTIVATION_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Activation code sent to your email", nil)
}

// ResendActivationCode re-sends the pending activation code
func (h *AuthHandler) ResendActivationCode(c fiber.Ctx) error {
	var req dto.ReactivationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.loginFlow.ResendActivationCode(ctx, req.Email); err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsNoActivationCode(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No activation code pending for this account", "NO_ACTIVATION_CODE", nil)
		}

		log.Println("Resend activation code failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resend activation code", "RESEND_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Activation code sent to your email", nil)
}

// ResendValidationCode re-sends the pending validation code
func (h *AuthHandler) ResendValidationCode(c fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.loginFlow.ResendValidationCode(ctx, req.Email); err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsNoValidationCode(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No validation code pending for this account", "NO_VALIDATION_CODE", nil)
		}

		log.Println("Resend validation code failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resend validation code", "RESEND_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Validation code sent to your email", nil)
}

// Health handles health check requests
func (h *AuthHandler) Health(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Service is healthy", fiber.Map{
		"status":  "healthy",
		"service": "game-store",
	})
}
