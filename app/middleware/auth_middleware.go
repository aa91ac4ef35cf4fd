// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/services"
	"github.com/playvault/game-store/models"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the bearer token and stores the user identity in the
// request context
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := extractBearerToken(c)
		if errResp != nil {
			return errResp
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			return unauthorized(c, tokenErrorCode(err), tokenErrorMessage(err))
		}
		if claims.TokenType != "access" {
			return unauthorized(c, "TOKEN_INVALID", "Invalid access token")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// RequireAdmin rejects any authenticated request whose role is not administrator.
// Must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		role, ok := GetUserRoleFromContext(c)
		if !ok {
			return unauthorized(c, "AUTHENTICATION_REQUIRED", "Authentication required")
		}
		if role != models.RoleAdministrator {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Administrator role required",
				Error:   dto.ErrorDetail{Code: "ADMIN_ROLE_REQUIRED"},
			})
		}
		return c.Next()
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok
}

// GetUserRoleFromContext extracts the authenticated user role from the request context
func GetUserRoleFromContext(c fiber.Ctx) (string, bool) {
	role, ok := c.Locals("user_role").(string)
	return role, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}

func extractBearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", unauthorized(c, "MISSING_AUTHORIZATION_HEADER", "Authorization header is required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", unauthorized(c, "INVALID_AUTHORIZATION_FORMAT", "Invalid authorization header format. Expected 'Bearer <token>'")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", unauthorized(c, "MISSING_ACCESS_TOKEN", "Access token is required")
	}
	return token, nil
}

func unauthorized(c fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}

func tokenErrorCode(err error) string {
	if errors.Is(err, services.ErrTokenExpired) {
		return "TOKEN_EXPIRED"
	}
	if errors.Is(err, services.ErrTokenInvalid) {
		return "TOKEN_INVALID"
	}
	return "TOKEN_VALIDATION_FAILED"
}

func tokenErrorMessage(err error) string {
	if errors.Is(err, services.ErrTokenExpired) {
		return "Access token has expired"
	}
	if errors.Is(err, services.ErrTokenInvalid) {
		return "Invalid access token"
	}
	return "Token validation failed"
}
