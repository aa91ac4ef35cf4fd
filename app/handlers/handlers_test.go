package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	businessflow "github.com/playvault/game-store/business_flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestContext(t *testing.T) {
	h := NewBaseHandler()
	app := fiber.New()

	var captured context.Context
	app.Get("/ping", func(c fiber.Ctx) error {
		ctx, cancel := h.createRequestContext(c)
		defer cancel()

		captured = ctx
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, captured)

	assert.Equal(t, "req-123", captured.Value(businessflow.RequestIDKey))

	// The deferred cancel released the context when the handler returned;
	// before, the timer lived on until the 30s deadline fired
	assert.ErrorIs(t, captured.Err(), context.Canceled)
}
