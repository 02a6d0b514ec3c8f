// Command seed-players loads the player catalog from a season-stats CSV
// export into the configured store, computing per-game averages and fantasy
// points along the way.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/hooplab/draftarena/internal/adapters/repository"
	"github.com/hooplab/draftarena/internal/config"
	"github.com/hooplab/draftarena/internal/domain/model"
	"github.com/hooplab/draftarena/internal/domain/scoring"
	"github.com/hooplab/draftarena/pkg/logger"
)

// minGamesPlayed filters out players without a meaningful sample.
const minGamesPlayed = 10

func main() {
	csvPath := flag.String("csv", "player_stats.csv", "path to the season stats CSV")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get().Named("seed")

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		os.Exit(1)
	}

	players, err := readPlayers(*csvPath)
	if err != nil {
		log.Error(ctx, "failed to read players", logger.String("csv", *csvPath), logger.Error(err))
		os.Exit(1)
	}

	if err := store.UpsertPlayers(ctx, players); err != nil {
		log.Error(ctx, "failed to upsert players", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "seeded player catalog",
		logger.String("csv", *csvPath),
		logger.Int("players", len(players)),
	)
}

func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.Store != "postgres" {
		return repository.NewMemoryStore(), nil
	}
	return repository.NewPostgresStore(ctx, repository.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		MinConns: cfg.DBMinConns,
		MaxConns: cfg.DBMaxConns,
	})
}

// readPlayers parses the CSV and returns viable catalog entries. Columns are
// located by header name so the export's column order does not matter.
func readPlayers(path string) ([]model.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{
		"personId", "firstName", "lastName", "gamesPlayed",
		"points", "reboundsTotal", "assists", "steals", "blocks", "turnovers",
	} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var players []model.Player
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		games, err := strconv.Atoi(row[cols["gamesPlayed"]])
		if err != nil || games < minGamesPlayed {
			continue
		}
		id, err := strconv.Atoi(row[cols["personId"]])
		if err != nil {
			continue
		}

		p := model.Player{
			ID:          id,
			FirstName:   row[cols["firstName"]],
			LastName:    row[cols["lastName"]],
			GamesPlayed: games,
			PPG:         perGame(row[cols["points"]], games),
			RPG:         perGame(row[cols["reboundsTotal"]], games),
			APG:         perGame(row[cols["assists"]], games),
			SPG:         perGame(row[cols["steals"]], games),
			BPG:         perGame(row[cols["blocks"]], games),
			TOPG:        perGame(row[cols["turnovers"]], games),
		}
		p.FantasyPoints = scoring.FantasyPoints(p.PPG, p.RPG, p.APG, p.SPG, p.BPG, p.TOPG)
		players = append(players, p)
	}
	return players, nil
}

// perGame converts a season total to a per-game average, rounded to two
// decimal places. Malformed totals count as zero.
func perGame(total string, games int) float64 {
	v, err := strconv.ParseFloat(total, 64)
	if err != nil || games == 0 {
		return 0
	}
	return decimal.NewFromFloat(v).
		Div(decimal.NewFromInt(int64(games))).
		Round(2).
		InexactFloat64()
}
