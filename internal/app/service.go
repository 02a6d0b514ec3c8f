// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	repository "github.com/hooplab/draftarena/internal/adapters/repository"
	"github.com/hooplab/draftarena/internal/domain/auction"
	"github.com/hooplab/draftarena/internal/domain/decision"
	"github.com/hooplab/draftarena/internal/domain/model"
	"github.com/hooplab/draftarena/internal/domain/pool"
	"github.com/hooplab/draftarena/pkg/logger"
)

const (
	defaultLeaderboardLimit = 10
	defaultGamesLimit       = 20
)

// GameSession is one running game: the bots playing it and the live event
// stream. Pass it back to FinishGame together with the terminal result.
type GameSession struct {
	UserID string
	Bot1   model.Bot
	Bot2   model.Bot
	Events <-chan auction.Event
}

// Service implements the API dependencies for the draft arena.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	provider decision.Provider

	// Game configuration
	turnCap         int
	bidRoundCap     int
	poolSize        int
	startingBalance int

	maxLeaderboardLimit int

	// newRand builds a fresh source per game so concurrent games never
	// share one.
	newRand func() *rand.Rand

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithProvider sets the decision provider driving both bots.
func WithProvider(provider decision.Provider) Option {
	return func(s *Service) {
		if provider != nil {
			s.provider = provider
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTurnCap bounds the number of draft turns per game.
func WithTurnCap(cap int) Option {
	return func(s *Service) {
		if cap > 0 {
			s.turnCap = cap
		}
	}
}

// WithBidRoundCap bounds counter rounds within one auction.
func WithBidRoundCap(cap int) Option {
	return func(s *Service) {
		if cap > 0 {
			s.bidRoundCap = cap
		}
	}
}

// WithPoolSize sets the number of players drawn per game.
func WithPoolSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.poolSize = size
		}
	}
}

// WithStartingBalance sets each bot's opening credits.
func WithStartingBalance(balance int) Option {
	return func(s *Service) {
		if balance > 0 {
			s.startingBalance = balance
		}
	}
}

// WithMaxLeaderboardLimit caps leaderboard queries.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLeaderboardLimit = limit
		}
	}
}

// WithSeed makes pool selection and turn order deterministic, for tests.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		var mu sync.Mutex
		src := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible games
		s.newRand = func() *rand.Rand {
			mu.Lock()
			defer mu.Unlock()
			return rand.New(rand.NewSource(src.Int63())) //nolint:gosec // reproducible games
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		turnCap:             auction.DefaultTurnCap,
		bidRoundCap:         auction.DefaultBidRoundCap,
		poolSize:            pool.Size,
		startingBalance:     auction.DefaultStartingBalance,
		maxLeaderboardLimit: 100,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // game variety, not crypto
		},
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.provider == nil {
		s.provider = decision.NewSimulatedProvider()
	}
	return s
}

// Start initializes the service.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.started = true
	s.logger.Info(ctx, "draft arena service started",
		logger.Int("poolSize", s.poolSize),
		logger.Int("startingBalance", s.startingBalance),
		logger.Int("turnCap", s.turnCap),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() }); ok {
		closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "draft arena service stopped")
}

// StartGame loads both bots, draws a pool and launches the auction. The
// returned session's Events channel is live immediately.
func (s *Service) StartGame(ctx context.Context, userID, bot1ID, bot2ID string) (*GameSession, error) {
	bot1, err := s.store.GetBot(ctx, bot1ID)
	if err != nil {
		return nil, fmt.Errorf("load bot %s: %w", bot1ID, err)
	}
	bot2, err := s.store.GetBot(ctx, bot2ID)
	if err != nil {
		return nil, fmt.Errorf("load bot %s: %w", bot2ID, err)
	}

	catalog, err := s.store.DraftCatalog(ctx, pool.MinViableFantasyPoints)
	if err != nil {
		return nil, fmt.Errorf("load draft catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, decision.ErrEmptyPool
	}

	rng := s.newRand()
	players := pool.NewSelector(
		pool.WithRand(rng),
		pool.WithSize(s.poolSize),
	).Select(catalog)

	engine := auction.New(bot1, bot2, players, s.provider,
		auction.WithTurnCap(s.turnCap),
		auction.WithBidRoundCap(s.bidRoundCap),
		auction.WithStartingBalance(s.startingBalance),
		auction.WithRand(rng),
	)

	return &GameSession{
		UserID: userID,
		Bot1:   bot1,
		Bot2:   bot2,
		Events: engine.Run(ctx),
	}, nil
}

// FinishGame persists a completed game and returns the stored record.
func (s *Service) FinishGame(ctx context.Context, session *GameSession, result *auction.Result) (model.GameRecord, error) {
	record := model.GameRecord{
		UserID:    session.UserID,
		Bot1ID:    session.Bot1.ID,
		Bot2ID:    session.Bot2.ID,
		Bot1Name:  session.Bot1.Name,
		Bot2Name:  session.Bot2.Name,
		Bot1Score: result.Bot1Score,
		Bot2Score: result.Bot2Score,
		Status:    "complete",
		GameLog:   result.GameLog,
		Bot1Team:  result.Bot1Team,
		Bot2Team:  result.Bot2Team,
	}
	switch result.WinnerKey {
	case "bot1":
		record.WinnerBotID = session.Bot1.ID
	case "bot2":
		record.WinnerBotID = session.Bot2.ID
	}

	saved, err := s.store.SaveGame(ctx, record)
	if err != nil {
		return model.GameRecord{}, fmt.Errorf("save game: %w", err)
	}
	return saved, nil
}

// PlayGame runs one game to completion and persists it.
func (s *Service) PlayGame(ctx context.Context, userID, bot1ID, bot2ID string) (model.GameRecord, error) {
	session, err := s.StartGame(ctx, userID, bot1ID, bot2ID)
	if err != nil {
		return model.GameRecord{}, err
	}

	var result *auction.Result
	for ev := range session.Events {
		if ev.Type == auction.TypeGameComplete {
			result = ev.Result
		}
	}
	if result == nil {
		if err := ctx.Err(); err != nil {
			return model.GameRecord{}, fmt.Errorf("game abandoned: %w", err)
		}
		return model.GameRecord{}, auction.ErrNoResult
	}
	return s.FinishGame(ctx, session, result)
}

// CreateUser registers a new user.
func (s *Service) CreateUser(ctx context.Context, username string) (model.User, error) {
	return s.store.CreateUser(ctx, username)
}

// GetUser returns one user by id.
func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.store.GetUser(ctx, id)
}

// CreateBot registers a bot under a user.
func (s *Service) CreateBot(ctx context.Context, userID, name, strategyPrompt string) (model.Bot, error) {
	return s.store.CreateBot(ctx, userID, name, strategyPrompt)
}

// GetBot returns one bot by id.
func (s *Service) GetBot(ctx context.Context, id string) (model.Bot, error) {
	return s.store.GetBot(ctx, id)
}

// ListBotsByUser returns a user's bots, oldest first.
func (s *Service) ListBotsByUser(ctx context.Context, userID string) ([]model.Bot, error) {
	return s.store.ListBotsByUser(ctx, userID)
}

// UpdateBot applies a partial bot update.
func (s *Service) UpdateBot(ctx context.Context, id string, update repository.BotUpdate) (model.Bot, error) {
	return s.store.UpdateBot(ctx, id, update)
}

// DeleteBot removes a bot.
func (s *Service) DeleteBot(ctx context.Context, id string) error {
	return s.store.DeleteBot(ctx, id)
}

// ListPlayers searches the player catalog.
func (s *Service) ListPlayers(ctx context.Context, search string, limit, offset int) ([]model.Player, error) {
	return s.store.ListPlayers(ctx, search, limit, offset)
}

// UserGames returns a user's games, newest first.
func (s *Service) UserGames(ctx context.Context, userID string, limit int) ([]model.GameRecord, error) {
	if limit < 1 {
		limit = defaultGamesLimit
	}
	return s.store.ListGamesByUser(ctx, userID, limit)
}

// Leaderboard returns the best winning scores. The limit is clamped to the
// configured maximum; zero and negatives fall back to the default.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 {
		limit = defaultLeaderboardLimit
	}
	if limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}
	return s.store.Leaderboard(ctx, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":         s.started,
		"poolSize":        s.poolSize,
		"startingBalance": s.startingBalance,
		"turnCap":         s.turnCap,
		"bidRoundCap":     s.bidRoundCap,
	}
}
