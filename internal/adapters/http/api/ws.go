// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/hooplab/draftarena/internal/domain/auction"
	"github.com/hooplab/draftarena/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is served from a different origin in local setups.
	CheckOrigin: func(*http.Request) bool { return true },
}

// HandleGameSocket handles GET /api/games/ws requests. It plays one game
// identified by query parameters and relays events as JSON messages.
func (h *GamesHandler) HandleGameSocket(w http.ResponseWriter, r *http.Request) {
	const op = "api.game_socket"
	q := r.URL.Query()
	userID, bot1ID, bot2ID := q.Get("user_id"), q.Get("bot1_id"), q.Get("bot2_id")
	if userID == "" || bot1ID == "" || bot2ID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer func() { _ = conn.Close() }()

	log := logger.Get().Named("ws")
	session, err := h.deps.StartGame(r.Context(), userID, bot1ID, bot2ID)
	if err != nil {
		_ = conn.WriteJSON(errorResponse{Code: "start_failed", Message: err.Error()})
		return
	}

	var result *auction.Result
	for ev := range session.Events {
		if ev.Type == auction.TypeGameComplete {
			result = ev.Result
		}
		if err := conn.WriteJSON(ev); err != nil {
			log.Warn(r.Context(), "websocket write failed", logger.Error(err))
			return
		}
	}
	if result == nil {
		return
	}

	record, err := h.deps.FinishGame(r.Context(), session, result)
	if err != nil {
		_ = conn.WriteJSON(errorResponse{Code: "save_failed", Message: err.Error()})
		return
	}
	_ = conn.WriteJSON(savedEvent{Type: "saved", GameID: record.ID})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
