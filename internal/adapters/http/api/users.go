// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// UserDependencies defines the interface for user operations.
type UserDependencies interface {
	CreateUser(ctx context.Context, username string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
}

// UsersHandler handles user requests.
type UsersHandler struct {
	deps UserDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

type createUserRequest struct {
	Username string `json:"username"`
}

// HandleCreateUser handles POST /api/users requests.
func (h *UsersHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_user"
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing username")))
		return
	}
	user, err := h.deps.CreateUser(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleGetUser handles GET /api/users/{id} requests.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user"
	user, err := h.deps.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
