package repository

import (
	"context"
	"fmt"

	"github.com/playvault/game-store/models"
	"gorm.io/gorm"
)

// GameRepositoryImpl implements GameRepository interface
type GameRepositoryImpl struct {
	*BaseRepository[models.Game, models.GameFilter]
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *gorm.DB) GameRepository {
	return &GameRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Game, models.GameFilter](db),
	}
}

// ByTitle retrieves a game by its exact title
func (r *GameRepositoryImpl) ByTitle(ctx context.Context, title string) (*models.Game, error) {
	filter := models.GameFilter{Title: &title}
	games, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find game by title: %w", err)
	}

	if len(games) == 0 {
		return nil, nil
	}

	return games[0], nil
}

// ListActive retrieves purchasable games with pagination
func (r *GameRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Game, error) {
	filter := models.GameFilter{IsActive: boolPtr(true)}
	return r.ByFilter(ctx, filter, "title ASC", limit, offset)
}

// Activate marks a game as purchasable
func (r *GameRepositoryImpl) Activate(ctx context.Context, gameID uint) error {
	return r.setActive(ctx, models.Game{}.TableName(), gameID, true)
}

// Deactivate removes a game from sale
func (r *GameRepositoryImpl) Deactivate(ctx context.Context, gameID uint) error {
	return r.setActive(ctx, models.Game{}.TableName(), gameID, false)
}

// applyFilter applies filter criteria to a GORM query
func (r *GameRepositoryImpl) applyFilter(query *gorm.DB, filter models.GameFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Title != nil {
		query = query.Where("title = ?", *filter.Title)
	}
	if filter.Genre != nil {
		query = query.Where("genre = ?", *filter.Genre)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves games based on filter criteria
func (r *GameRepositoryImpl) ByFilter(ctx context.Context, filter models.GameFilter, orderBy string, limit, offset int) ([]*models.Game, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Game{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var games []*models.Game
	if err := query.Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to find games by filter: %w", err)
	}

	return games, nil
}

// Count returns the number of games matching the filter
func (r *GameRepositoryImpl) Count(ctx context.Context, filter models.GameFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Game{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}

// Exists checks if any game matching the filter exists
func (r *GameRepositoryImpl) Exists(ctx context.Context, filter models.GameFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
