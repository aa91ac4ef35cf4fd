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
)

// GameFlow handles catalog management
type GameFlow interface {
	Get(ctx context.Context, gameID uint) (*dto.GameResponse, error)
	List(ctx context.Context, limit, offset int) ([]dto.GameResponse, error)
	ListActive(ctx context.Context, limit, offset int) ([]dto.GameResponse, error)
	Add(ctx context.Context, request *dto.GameAddRequest, metadata *ClientMetadata) (*dto.GameResponse, error)
	Alter(ctx context.Context, request *dto.GameAlterRequest, metadata *ClientMetadata) (*dto.GameResponse, error)
	Activate(ctx context.Context, gameID uint) error
	Deactivate(ctx context.Context, gameID uint) error
}

// GameFlowImpl implements the catalog business flow
type GameFlowImpl struct {
	gameRepo repository.GameRepository
}

// NewGameFlow creates a new game flow instance
func NewGameFlow(gameRepo repository.GameRepository) GameFlow {
	return &GameFlowImpl{gameRepo: gameRepo}
}

func (gf *GameFlowImpl) Get(ctx context.Context, gameID uint) (*dto.GameResponse, error) {
	game, err := gf.gameRepo.ByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	response := ToGameResponse(*game)
	return &response, nil
}

func (gf *GameFlowImpl) List(ctx context.Context, limit, offset int) ([]dto.GameResponse, error) {
	games, err := gf.gameRepo.ByFilter(ctx, models.GameFilter{}, "id DESC", limit, offset)
	if err != nil {
		return nil, err
	}
	return toGameResponses(games), nil
}

func (gf *GameFlowImpl) ListActive(ctx context.Context, limit, offset int) ([]dto.GameResponse, error) {
	games, err := gf.gameRepo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toGameResponses(games), nil
}

func (gf *GameFlowImpl) Add(ctx context.Context, request *dto.GameAddRequest, metadata *ClientMetadata) (*dto.GameResponse, error) {
	price, err := parsePrice(request.Price)
	if err != nil {
		return nil, NewBusinessError("GAME_ADD_FAILED", "Game creation failed", err)
	}

	game := &models.Game{
		UUID:        uuid.New(),
		Title:       request.Title,
		Description: request.Description,
		Genre:       request.Genre,
		Tags:        request.Tags,
		Price:       price,
		IsActive:    utils.ToPtr(true),
	}

	if err := gf.gameRepo.Save(ctx, game); err != nil {
		return nil, NewBusinessError("GAME_ADD_FAILED", "Game creation failed", err)
	}

	response := ToGameResponse(*game)
	return &response, nil
}

func (gf *GameFlowImpl) Alter(ctx context.Context, request *dto.GameAlterRequest, metadata *ClientMetadata) (*dto.GameResponse, error) {
	game, err := gf.gameRepo.ByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, NewBusinessError("GAME_ALTER_FAILED", "Game update failed", ErrGameNotFound)
	}

	price, err := parsePrice(request.Price)
	if err != nil {
		return nil, NewBusinessError("GAME_ALTER_FAILED", "Game update failed", err)
	}

	game.Title = request.Title
	game.Description = request.Description
	game.Genre = request.Genre
	game.Tags = request.Tags
	game.Price = price

	if err := gf.gameRepo.Update(ctx, game); err != nil {
		return nil, NewBusinessError("GAME_ALTER_FAILED", "Game update failed", err)
	}

	response := ToGameResponse(*game)
	return &response, nil
}

func (gf *GameFlowImpl) Activate(ctx context.Context, gameID uint) error {
	return gf.gameRepo.Activate(ctx, gameID)
}

func (gf *GameFlowImpl) Deactivate(ctx context.Context, gameID uint) error {
	return gf.gameRepo.Deactivate(ctx, gameID)
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if price.IsNegative() {
		return decimal.Zero, models.ErrNegativeBasePrice
	}
	return price, nil
}

func toGameResponses(games []*models.Game) []dto.GameResponse {
	responses := make([]dto.GameResponse, 0, len(games))
	for _, game := range games {
		responses = append(responses, ToGameResponse(*game))
	}
	return responses
}
