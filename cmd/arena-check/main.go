// Command arena-check smoke-tests a running arena instance over its HTTP
// API: it creates a user and two bots, plays games and verifies the
// stored results and leaderboard.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/hooplab/draftarena/internal/arenacheck"
	"github.com/hooplab/draftarena/pkg/logger"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:8000", "arena instance to check")
	numGames := flag.Int("games", 3, "number of games to play")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	if err := arenacheck.Run(ctx, arenacheck.Config{
		BaseURL:  *baseURL,
		NumGames: *numGames,
	}); err != nil {
		logger.Get().Error(ctx, "check failed", logger.Error(err))
		os.Exit(1)
	}
}
