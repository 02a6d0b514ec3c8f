// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hooplab/draftarena/internal/adapters/repository"
	"github.com/hooplab/draftarena/internal/domain/model"
)

// BotDependencies defines the interface for bot operations.
type BotDependencies interface {
	CreateBot(ctx context.Context, userID, name, strategyPrompt string) (model.Bot, error)
	ListBotsByUser(ctx context.Context, userID string) ([]model.Bot, error)
	UpdateBot(ctx context.Context, id string, update repository.BotUpdate) (model.Bot, error)
	DeleteBot(ctx context.Context, id string) error
}

// BotsHandler handles bot requests.
type BotsHandler struct {
	deps BotDependencies
}

// NewBotsHandler creates a new bots handler.
func NewBotsHandler(deps BotDependencies) *BotsHandler {
	return &BotsHandler{deps: deps}
}

type createBotRequest struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	StrategyPrompt string `json:"strategy_prompt"`
}

func (b createBotRequest) validate() error {
	switch {
	case strings.TrimSpace(b.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(b.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(b.StrategyPrompt) == "":
		return errors.New("missing strategy_prompt")
	}
	return nil
}

type updateBotRequest struct {
	Name           *string `json:"name"`
	StrategyPrompt *string `json:"strategy_prompt"`
}

// HandleCreateBot handles POST /api/bots requests.
func (h *BotsHandler) HandleCreateBot(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_bot"
	var req createBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	bot, err := h.deps.CreateBot(r.Context(), req.UserID, req.Name, req.StrategyPrompt)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, bot)
}

// HandleListBots handles GET /api/bots/user/{id} requests.
func (h *BotsHandler) HandleListBots(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_bots"
	bots, err := h.deps.ListBotsByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	if bots == nil {
		bots = []model.Bot{}
	}
	writeJSON(w, http.StatusOK, bots)
}

// HandleUpdateBot handles PUT /api/bots/{id} requests.
func (h *BotsHandler) HandleUpdateBot(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_bot"
	var req updateBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	bot, err := h.deps.UpdateBot(r.Context(), r.PathValue("id"), repository.BotUpdate{
		Name:           req.Name,
		StrategyPrompt: req.StrategyPrompt,
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, bot)
}

// HandleDeleteBot handles DELETE /api/bots/{id} requests.
func (h *BotsHandler) HandleDeleteBot(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_bot"
	if err := h.deps.DeleteBot(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
