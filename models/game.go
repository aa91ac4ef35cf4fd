package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Game genres
const (
	GenreAction     = "action"
	GenreAdventure  = "adventure"
	GenreRPG        = "rpg"
	GenreStrategy   = "strategy"
	GenreSports     = "sports"
	GenreSimulation = "simulation"
	GenrePuzzle     = "puzzle"
)

type Game struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_games_uuid" json:"uuid"`

	Title       string         `gorm:"size:120;not null;index:idx_games_title" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Genre       string         `gorm:"size:30;not null;index:idx_games_genre" json:"genre"`
	Tags        pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`

	Price decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	IsActive *bool `gorm:"default:true;index:idx_games_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Orders []Order `gorm:"foreignKey:GameID" json:"-"`
}

func (Game) TableName() string {
	return "games"
}

// GameFilter represents filter criteria for game queries
type GameFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	Title    *string
	Genre    *string
	IsActive *bool
}
