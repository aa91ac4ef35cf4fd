package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/playvault/game-store/app/dto"
	businessflow "github.com/playvault/game-store/business_flow"
)

// GameHandler handles catalog-related HTTP requests
type GameHandler struct {
	BaseHandler
	gameFlow businessflow.GameFlow
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameFlow businessflow.GameFlow) *GameHandler {
	return &GameHandler{
		BaseHandler: NewBaseHandler(),
		gameFlow:    gameFlow,
	}
}

// Get returns a single catalog entry
func (h *GameHandler) Get(c fiber.Ctx) error {
	gameID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid game id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.gameFlow.Get(ctx, gameID)
	if err != nil {
		if businessflow.IsGameNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Game not found", "GAME_NOT_FOUND", nil)
		}

		log.Println("Get game failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch game", "GAME_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Game fetched", result)
}

// List returns catalog entries visible to the requester. Standard users only
// see active games; administrators see everything.
func (h *GameHandler) List(c fiber.Ctx) error {
	limit, offset := parsePagination(c)

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	var (
		result []dto.GameResponse
		err    error
	)
	if isAdminRequest(c) {
		result, err = h.gameFlow.List(ctx, limit, offset)
	} else {
		result, err = h.gameFlow.ListActive(ctx, limit, offset)
	}
	if err != nil {
		log.Println("List games failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list games", "GAME_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Games fetched", result)
}

// Add registers a new game in the catalog
func (h *GameHandler) Add(c fiber.Ctx) error {
	var req dto.GameAddRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.gameFlow.Add(ctx, &req, h.clientMetadata(c))
	if err != nil {
		log.Println("Add game failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Game creation failed", "GAME_ADD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Game created", result)
}

// Alter updates an existing game
func (h *GameHandler) Alter(c fiber.Ctx) error {
	var req dto.GameAlterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := h.validateRequest(c, &req); !ok {
		return resp
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	result, err := h.gameFlow.Alter(ctx, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsGameNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Game not found", "GAME_NOT_FOUND", nil)
		}

		log.Println("Alter game failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Game update failed", "GAME_ALTER_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Game updated", result)
}

// Activate puts a game back on sale
func (h *GameHandler) Activate(c fiber.Ctx) error {
	gameID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid game id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.gameFlow.Activate(ctx, gameID); err != nil {
		log.Println("Activate game failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Game activation failed", "GAME_ACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Game activated", nil)
}

// Deactivate takes a game off sale
func (h *GameHandler) Deactivate(c fiber.Ctx) error {
	gameID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid game id", "INVALID_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.gameFlow.Deactivate(ctx, gameID); err != nil {
		log.Println("Deactivate game failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Game deactivation failed", "GAME_DEACTIVATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Game deactivated", nil)
}

func parseIDParam(c fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parsePagination(c fiber.Ctx) (limit, offset int) {
	limit = 50
	offset = 0

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
