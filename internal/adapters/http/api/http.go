// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hooplab/draftarena/internal/adapters/repository"
	service "github.com/hooplab/draftarena/internal/app"
	"github.com/hooplab/draftarena/internal/domain/auction"
	"github.com/hooplab/draftarena/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Users
	CreateUser(ctx context.Context, username string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)

	// Bots
	CreateBot(ctx context.Context, userID, name, strategyPrompt string) (model.Bot, error)
	ListBotsByUser(ctx context.Context, userID string) ([]model.Bot, error)
	UpdateBot(ctx context.Context, id string, update repository.BotUpdate) (model.Bot, error)
	DeleteBot(ctx context.Context, id string) error

	// Player catalog
	ListPlayers(ctx context.Context, search string, limit, offset int) ([]model.Player, error)

	// Games
	StartGame(ctx context.Context, userID, bot1ID, bot2ID string) (*service.GameSession, error)
	FinishGame(ctx context.Context, session *service.GameSession, result *auction.Result) (model.GameRecord, error)
	PlayGames(ctx context.Context, userID, bot1ID, bot2ID string, n int) ([]model.GameRecord, error)
	UserGames(ctx context.Context, userID string, limit int) ([]model.GameRecord, error)

	// Leaderboard
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	usersHandler       *UsersHandler
	botsHandler        *BotsHandler
	playersHandler     *PlayersHandler
	gamesHandler       *GamesHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		usersHandler:       NewUsersHandler(deps),
		botsHandler:        NewBotsHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		gamesHandler:       NewGamesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /api/users", MetricsMiddleware(s.usersHandler.HandleCreateUser, "users"))
	mux.HandleFunc("GET /api/users/{id}", MetricsMiddleware(s.usersHandler.HandleGetUser, "users"))

	mux.HandleFunc("POST /api/bots", MetricsMiddleware(s.botsHandler.HandleCreateBot, "bots"))
	mux.HandleFunc("GET /api/bots/user/{id}", MetricsMiddleware(s.botsHandler.HandleListBots, "bots"))
	mux.HandleFunc("PUT /api/bots/{id}", MetricsMiddleware(s.botsHandler.HandleUpdateBot, "bots"))
	mux.HandleFunc("DELETE /api/bots/{id}", MetricsMiddleware(s.botsHandler.HandleDeleteBot, "bots"))

	mux.HandleFunc("GET /api/players", MetricsMiddleware(s.playersHandler.HandleListPlayers, "players"))

	mux.HandleFunc("POST /api/games", MetricsMiddleware(s.gamesHandler.HandleRunGames, "games"))
	mux.HandleFunc("POST /api/games/stream", s.gamesHandler.HandleStreamGame)
	mux.HandleFunc("GET /api/games/ws", s.gamesHandler.HandleGameSocket)
	mux.HandleFunc("GET /api/games/user/{id}", MetricsMiddleware(s.gamesHandler.HandleUserGames, "games"))

	mux.HandleFunc("GET /api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError translates repository sentinels to HTTP statuses.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrNoFields), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
