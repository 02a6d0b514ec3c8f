// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	service "github.com/hooplab/draftarena/internal/app"
	"github.com/hooplab/draftarena/internal/domain/auction"
	"github.com/hooplab/draftarena/internal/domain/model"
)

// Batch limits for POST /api/games.
const (
	defaultNumGames = 1
	maxNumGames     = 10
)

// GameDependencies defines the interface for running and querying games.
type GameDependencies interface {
	StartGame(ctx context.Context, userID, bot1ID, bot2ID string) (*service.GameSession, error)
	FinishGame(ctx context.Context, session *service.GameSession, result *auction.Result) (model.GameRecord, error)
	PlayGames(ctx context.Context, userID, bot1ID, bot2ID string, n int) ([]model.GameRecord, error)
	UserGames(ctx context.Context, userID string, limit int) ([]model.GameRecord, error)
}

// GamesHandler handles game requests.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

type runGamesRequest struct {
	UserID   string `json:"user_id"`
	Bot1ID   string `json:"bot1_id"`
	Bot2ID   string `json:"bot2_id"`
	NumGames int    `json:"num_games"`
}

func (g runGamesRequest) validate() error {
	switch {
	case strings.TrimSpace(g.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(g.Bot1ID) == "":
		return errors.New("missing bot1_id")
	case strings.TrimSpace(g.Bot2ID) == "":
		return errors.New("missing bot2_id")
	case g.NumGames < 0 || g.NumGames > maxNumGames:
		return fmt.Errorf("num_games must be between 1 and %d", maxNumGames)
	}
	return nil
}

// savedEvent closes every stream: the persisted game's id.
type savedEvent struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
}

// HandleRunGames handles POST /api/games requests: it runs the requested
// number of games on the batch worker pool and returns the stored records.
func (h *GamesHandler) HandleRunGames(w http.ResponseWriter, r *http.Request) {
	const op = "api.run_games"
	req, ok := decodeRunGames(w, r, op)
	if !ok {
		return
	}

	games, err := h.deps.PlayGames(r.Context(), req.UserID, req.Bot1ID, req.Bot2ID, req.NumGames)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// HandleStreamGame handles POST /api/games/stream requests. It plays one
// game and relays its events over SSE, closing with a "saved" event.
func (h *GamesHandler) HandleStreamGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream_game"
	req, ok := decodeRunGames(w, r, op)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error",
			WrapKind(op, ErrServe, errors.New("streaming unsupported")))
		return
	}

	session, err := h.deps.StartGame(r.Context(), req.UserID, req.Bot1ID, req.Bot2ID)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var result *auction.Result
	for ev := range session.Events {
		if ev.Type == auction.TypeGameComplete {
			result = ev.Result
		}
		writeSSE(w, flusher, string(ev.Type), ev)
	}
	if result == nil {
		// Client went away or the game was cancelled; nothing to persist.
		return
	}

	record, err := h.deps.FinishGame(r.Context(), session, result)
	if err != nil {
		writeSSE(w, flusher, "error", errorResponse{Code: "save_failed", Message: err.Error()})
		return
	}
	writeSSE(w, flusher, "saved", savedEvent{Type: "saved", GameID: record.ID})
}

// HandleUserGames handles GET /api/games/user/{id} requests.
func (h *GamesHandler) HandleUserGames(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_games"
	games, err := h.deps.UserGames(r.Context(), r.PathValue("id"), 0)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	if games == nil {
		games = []model.GameRecord{}
	}
	writeJSON(w, http.StatusOK, games)
}

func decodeRunGames(w http.ResponseWriter, r *http.Request, op string) (runGamesRequest, bool) {
	var req runGamesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	if req.NumGames == 0 {
		req.NumGames = defaultNumGames
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	return req, true
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
