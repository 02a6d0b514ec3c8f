// Package repository defines the persistence interface and its
// implementations: an in-memory store for tests and local runs, and a
// Postgres store for real deployments.
package repository

import (
	"context"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// BotUpdate carries the mutable bot fields; nil means "leave unchanged".
type BotUpdate struct {
	Name           *string
	StrategyPrompt *string
}

// Store provides access to users, bots, the player catalog, finished games
// and the leaderboard. All writes are synchronous; the auction engine never
// touches the store while a game is running.
type Store interface {
	// Users
	CreateUser(ctx context.Context, username string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)

	// Bots
	CreateBot(ctx context.Context, userID, name, strategyPrompt string) (model.Bot, error)
	GetBot(ctx context.Context, id string) (model.Bot, error)
	ListBotsByUser(ctx context.Context, userID string) ([]model.Bot, error)
	UpdateBot(ctx context.Context, id string, update BotUpdate) (model.Bot, error)
	DeleteBot(ctx context.Context, id string) error

	// Player catalog
	UpsertPlayers(ctx context.Context, players []model.Player) error
	ListPlayers(ctx context.Context, search string, limit, offset int) ([]model.Player, error)
	// DraftCatalog returns viable players ordered by fantasy points
	// descending, ready for pool selection.
	DraftCatalog(ctx context.Context, minFantasyPoints float64) ([]model.Player, error)

	// Games
	SaveGame(ctx context.Context, game model.GameRecord) (model.GameRecord, error)
	ListGamesByUser(ctx context.Context, userID string, limit int) ([]model.GameRecord, error)

	// Leaderboard returns the best winning scores across completed games.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}
