package arenacheck

import (
	"context"
	"fmt"
	"time"

	"github.com/hooplab/draftarena/pkg/logger"
)

// Strategies for the two smoke-test bots. Divergent styles exercise both
// ends of the bidding behavior.
const (
	aggressiveStrategy   = "Bid aggressively on star players. Target the best available player every turn and outbid the opponent for elite talent."
	conservativeStrategy = "Be conservative and patient. Save credits, avoid bidding wars, and build a balanced team of good value players."
)

// Config controls one verification run.
type Config struct {
	BaseURL  string
	NumGames int
}

// Run plays NumGames games against a live instance and verifies the
// results. It returns the first inconsistency found.
func Run(ctx context.Context, cfg Config) error {
	log := logger.Get().Named("arenacheck")
	client := NewClient(cfg.BaseURL)

	username := fmt.Sprintf("arenacheck-%d", time.Now().Unix())
	user, err := client.CreateUser(ctx, username)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	log.Info(ctx, "created user", logger.String("id", user.ID))

	bot1, err := client.CreateBot(ctx, user.ID, "Star Chaser", aggressiveStrategy)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	bot2, err := client.CreateBot(ctx, user.ID, "Value Hunter", conservativeStrategy)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	games, err := client.RunGames(ctx, user.ID, bot1.ID, bot2.ID, cfg.NumGames)
	if err != nil {
		return fmt.Errorf("run games: %w", err)
	}
	if len(games) != cfg.NumGames {
		return fmt.Errorf("expected %d games, got %d", cfg.NumGames, len(games))
	}

	for _, game := range games {
		if err := verifyGame(game); err != nil {
			return fmt.Errorf("game %s: %w", game.ID, err)
		}
		log.Info(ctx, "game verified",
			logger.String("id", game.ID),
			logger.Float64("bot1_score", game.Bot1Score),
			logger.Float64("bot2_score", game.Bot2Score),
		)
	}

	stored, err := client.UserGames(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list user games: %w", err)
	}
	if len(stored) < cfg.NumGames {
		return fmt.Errorf("user has %d stored games, expected at least %d", len(stored), cfg.NumGames)
	}

	entries, err := client.Leaderboard(ctx, cfg.NumGames)
	if err != nil {
		return fmt.Errorf("fetch leaderboard: %w", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Score > entries[i-1].Score {
			return fmt.Errorf("leaderboard out of order at position %d", i)
		}
	}

	log.Info(ctx, "all checks passed",
		logger.Int("games", len(games)),
		logger.Int("leaderboard_entries", len(entries)),
	)
	return nil
}
