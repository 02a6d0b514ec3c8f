// Package model contains domain models passed between layers.
package model

import "time"

// Player is a catalog asset with per-game statistical rates and a derived
// fantasy-point value. Immutable for the duration of a game.
type Player struct {
	ID            int     `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	GamesPlayed   int     `json:"games_played"`
	PPG           float64 `json:"ppg"`
	RPG           float64 `json:"rpg"`
	APG           float64 `json:"apg"`
	SPG           float64 `json:"spg"`
	BPG           float64 `json:"bpg"`
	TOPG          float64 `json:"topg"`
	FantasyPoints float64 `json:"fantasy_points"`
}

// FullName returns the player's display name.
func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// User owns bots and games.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Bot is one competing side: an identity plus a free-text strategy that is
// opaque to the engine and passed through to the decision provider.
type Bot struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	StrategyPrompt string    `json:"strategy_prompt"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DraftPick is a player awarded to a bot at a settled price. Created once at
// auction resolution and immutable thereafter. DraftOrder is 1-based and
// global across the whole game, not per bot.
type DraftPick struct {
	PlayerID      int     `json:"player_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	FantasyPoints float64 `json:"fantasy_points"`
	BidAmount     int     `json:"bid_amount"`
	DraftOrder    int     `json:"draft_order"`
}

// FullName returns the drafted player's display name.
func (p DraftPick) FullName() string {
	return p.FirstName + " " + p.LastName
}

// GameRecord is the persisted shape of a finished game.
type GameRecord struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Bot1ID      string      `json:"bot1_id"`
	Bot2ID      string      `json:"bot2_id"`
	Bot1Name    string      `json:"bot1_name"`
	Bot2Name    string      `json:"bot2_name"`
	Bot1Score   float64     `json:"bot1_score"`
	Bot2Score   float64     `json:"bot2_score"`
	WinnerBotID string      `json:"winner_bot_id,omitempty"` // empty on a tie
	Status      string      `json:"status"`
	GameLog     []string    `json:"game_log"`
	Bot1Team    []DraftPick `json:"bot1_team"`
	Bot2Team    []DraftPick `json:"bot2_team"`
	CreatedAt   time.Time   `json:"created_at"`
}

// LeaderboardEntry is one row of the global leaderboard: the winning score
// of a completed game with its owner and bot names.
type LeaderboardEntry struct {
	GameID    string    `json:"game_id"`
	Username  string    `json:"username"`
	BotName   string    `json:"bot_name"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
