package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameAddRequest represents the payload to register a game in the catalog
type GameAddRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=120" example:"Starfall Odyssey"`
	Description string   `json:"description" validate:"max=2000"`
	Genre       string   `json:"genre" validate:"required,oneof=action adventure rpg strategy sports simulation puzzle" example:"rpg"`
	Tags        []string `json:"tags" validate:"max=10,dive,min=1,max=30"`
	Price       string   `json:"price" validate:"required" example:"199.90"`
}

// GameAlterRequest represents the payload to alter an existing game
type GameAlterRequest struct {
	ID          uint     `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Genre       string   `json:"genre" validate:"required,oneof=action adventure rpg strategy sports simulation puzzle"`
	Tags        []string `json:"tags" validate:"max=10,dive,min=1,max=30"`
	Price       string   `json:"price" validate:"required"`
}

// GameResponse represents a catalog entry returned by the API
type GameResponse struct {
	ID          uint            `json:"id"`
	UUID        string          `json:"uuid"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Genre       string          `json:"genre"`
	Tags        []string        `json:"tags"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}
