// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// Default paging for the player catalog.
const (
	defaultPlayersLimit = 50
	maxPlayersLimit     = 200
)

// PlayerDependencies defines the interface for catalog queries.
type PlayerDependencies interface {
	ListPlayers(ctx context.Context, search string, limit, offset int) ([]model.Player, error)
}

// PlayersHandler handles player catalog requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleListPlayers handles GET /api/players?search=&limit=&offset= requests.
func (h *PlayersHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_players"
	q := r.URL.Query()

	limit := defaultPlayersLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	if limit > maxPlayersLimit {
		limit = maxPlayersLimit
	}

	offset := 0
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		offset = n
	}

	players, err := h.deps.ListPlayers(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	if players == nil {
		players = []model.Player{}
	}
	writeJSON(w, http.StatusOK, players)
}
