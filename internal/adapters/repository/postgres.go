package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hooplab/draftarena/internal/domain/model"
)

const upsertBatchSize = 100

// PostgresConfig holds the connection settings for the Postgres store.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MinConns int
	MaxConns int
}

// ConnString builds a PostgreSQL connection string. The password is
// URL-escaped to survive special characters.
func (c PostgresConfig) ConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslMode,
	)
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool and pings it.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

var _ Store = (*PostgresStore)(nil)

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) CreateUser(ctx context.Context, username string) (model.User, error) {
	u := model.User{ID: uuid.NewString(), Username: username, CreatedAt: time.Now().UTC()}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, created_at) VALUES ($1, $2, $3)`,
		u.ID, u.Username, u.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) CreateBot(ctx context.Context, userID, name, strategyPrompt string) (model.Bot, error) {
	now := time.Now().UTC()
	b := model.Bot{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           name,
		StrategyPrompt: strategyPrompt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bots (id, user_id, name, strategy_prompt, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.UserID, b.Name, b.StrategyPrompt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return model.Bot{}, fmt.Errorf("insert bot: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) GetBot(ctx context.Context, id string) (model.Bot, error) {
	var b model.Bot
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, strategy_prompt, created_at, updated_at
		 FROM bots WHERE id = $1`, id,
	).Scan(&b.ID, &b.UserID, &b.Name, &b.StrategyPrompt, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bot{}, ErrNotFound
	}
	if err != nil {
		return model.Bot{}, fmt.Errorf("select bot: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) ListBotsByUser(ctx context.Context, userID string) ([]model.Bot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, strategy_prompt, created_at, updated_at
		 FROM bots WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select bots: %w", err)
	}
	defer rows.Close()

	var out []model.Bot
	for rows.Next() {
		var b model.Bot
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.StrategyPrompt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bot: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateBot(ctx context.Context, id string, update BotUpdate) (model.Bot, error) {
	if update.Name == nil && update.StrategyPrompt == nil {
		return model.Bot{}, ErrNoFields
	}
	var b model.Bot
	err := s.pool.QueryRow(ctx,
		`UPDATE bots SET
			name = COALESCE($2, name),
			strategy_prompt = COALESCE($3, strategy_prompt),
			updated_at = $4
		 WHERE id = $1
		 RETURNING id, user_id, name, strategy_prompt, created_at, updated_at`,
		id, update.Name, update.StrategyPrompt, time.Now().UTC(),
	).Scan(&b.ID, &b.UserID, &b.Name, &b.StrategyPrompt, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bot{}, ErrNotFound
	}
	if err != nil {
		return model.Bot{}, fmt.Errorf("update bot: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) DeleteBot(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM bots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bot: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertPlayers(ctx context.Context, players []model.Player) error {
	for start := 0; start < len(players); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(players) {
			end = len(players)
		}
		batch := &pgx.Batch{}
		for _, p := range players[start:end] {
			batch.Queue(
				`INSERT INTO players
					(id, first_name, last_name, games_played, ppg, rpg, apg, spg, bpg, topg, fantasy_points)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				 ON CONFLICT (id) DO UPDATE SET
					first_name = EXCLUDED.first_name,
					last_name = EXCLUDED.last_name,
					games_played = EXCLUDED.games_played,
					ppg = EXCLUDED.ppg, rpg = EXCLUDED.rpg, apg = EXCLUDED.apg,
					spg = EXCLUDED.spg, bpg = EXCLUDED.bpg, topg = EXCLUDED.topg,
					fantasy_points = EXCLUDED.fantasy_points`,
				p.ID, p.FirstName, p.LastName, p.GamesPlayed,
				p.PPG, p.RPG, p.APG, p.SPG, p.BPG, p.TOPG, p.FantasyPoints,
			)
		}
		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert players: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListPlayers(ctx context.Context, search string, limit, offset int) ([]model.Player, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, first_name, last_name, games_played, ppg, rpg, apg, spg, bpg, topg, fantasy_points
		 FROM players
		 WHERE $1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
		 ORDER BY fantasy_points DESC
		 LIMIT $2 OFFSET $3`,
		search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func (s *PostgresStore) DraftCatalog(ctx context.Context, minFantasyPoints float64) ([]model.Player, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, first_name, last_name, games_played, ppg, rpg, apg, spg, bpg, topg, fantasy_points
		 FROM players
		 WHERE fantasy_points >= $1
		 ORDER BY fantasy_points DESC`,
		minFantasyPoints)
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func scanPlayers(rows pgx.Rows) ([]model.Player, error) {
	var out []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.GamesPlayed,
			&p.PPG, &p.RPG, &p.APG, &p.SPG, &p.BPG, &p.TOPG, &p.FantasyPoints); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveGame writes the game row and its picks in one transaction.
func (s *PostgresStore) SaveGame(ctx context.Context, game model.GameRecord) (model.GameRecord, error) {
	game.ID = uuid.NewString()
	game.CreatedAt = time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.GameRecord{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var winner *string
	if game.WinnerBotID != "" {
		winner = &game.WinnerBotID
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO games
			(id, user_id, bot1_id, bot2_id, bot1_score, bot2_score, winner_bot_id, status, game_log, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		game.ID, game.UserID, game.Bot1ID, game.Bot2ID,
		game.Bot1Score, game.Bot2Score, winner, game.Status, game.GameLog, game.CreatedAt,
	)
	if err != nil {
		return model.GameRecord{}, fmt.Errorf("insert game: %w", err)
	}

	for _, team := range []struct {
		botID string
		picks []model.DraftPick
	}{
		{game.Bot1ID, game.Bot1Team},
		{game.Bot2ID, game.Bot2Team},
	} {
		for _, pick := range team.picks {
			_, err = tx.Exec(ctx,
				`INSERT INTO game_players
					(game_id, bot_id, player_id, bid_amount, fantasy_points, draft_order)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				game.ID, team.botID, pick.PlayerID, pick.BidAmount, pick.FantasyPoints, pick.DraftOrder,
			)
			if err != nil {
				return model.GameRecord{}, fmt.Errorf("insert pick: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.GameRecord{}, fmt.Errorf("commit: %w", err)
	}
	return game, nil
}

func (s *PostgresStore) ListGamesByUser(ctx context.Context, userID string, limit int) ([]model.GameRecord, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT g.id, g.user_id, g.bot1_id, g.bot2_id,
			COALESCE(b1.name, 'Bot 1'), COALESCE(b2.name, 'Bot 2'),
			g.bot1_score, g.bot2_score, COALESCE(g.winner_bot_id::text, ''), g.status, g.game_log, g.created_at
		 FROM games g
		 LEFT JOIN bots b1 ON b1.id = g.bot1_id
		 LEFT JOIN bots b2 ON b2.id = g.bot2_id
		 WHERE g.user_id = $1
		 ORDER BY g.created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}
	defer rows.Close()

	var out []model.GameRecord
	for rows.Next() {
		var g model.GameRecord
		if err := rows.Scan(&g.ID, &g.UserID, &g.Bot1ID, &g.Bot2ID, &g.Bot1Name, &g.Bot2Name,
			&g.Bot1Score, &g.Bot2Score, &g.WinnerBotID, &g.Status, &g.GameLog, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.loadTeams(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) loadTeams(ctx context.Context, g *model.GameRecord) error {
	rows, err := s.pool.Query(ctx,
		`SELECT gp.bot_id, gp.player_id, p.first_name, p.last_name,
			gp.fantasy_points, gp.bid_amount, gp.draft_order
		 FROM game_players gp
		 JOIN players p ON p.id = gp.player_id
		 WHERE gp.game_id = $1
		 ORDER BY gp.draft_order ASC`,
		g.ID)
	if err != nil {
		return fmt.Errorf("select picks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var botID string
		var pick model.DraftPick
		if err := rows.Scan(&botID, &pick.PlayerID, &pick.FirstName, &pick.LastName,
			&pick.FantasyPoints, &pick.BidAmount, &pick.DraftOrder); err != nil {
			return fmt.Errorf("scan pick: %w", err)
		}
		if botID == g.Bot1ID {
			g.Bot1Team = append(g.Bot1Team, pick)
		} else {
			g.Bot2Team = append(g.Bot2Team, pick)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT g.id,
			COALESCE(u.username, 'Unknown'),
			CASE WHEN g.bot1_score >= g.bot2_score
				THEN COALESCE(b1.name, 'Bot 1')
				ELSE COALESCE(b2.name, 'Bot 2') END,
			GREATEST(g.bot1_score, g.bot2_score),
			g.created_at
		 FROM games g
		 LEFT JOIN users u ON u.id = g.user_id
		 LEFT JOIN bots b1 ON b1.id = g.bot1_id
		 LEFT JOIN bots b2 ON b2.id = g.bot2_id
		 WHERE g.status = 'complete'
		 ORDER BY GREATEST(g.bot1_score, g.bot2_score) DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	defer rows.Close()

	var out []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.GameID, &e.Username, &e.BotName, &e.Score, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
