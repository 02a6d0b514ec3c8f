// Package arenacheck drives a running arena instance end to end: it
// creates a user and two bots over the HTTP API, plays games and verifies
// the stored records and leaderboard agree with the game rules.
package arenacheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hooplab/draftarena/internal/domain/model"
)

const requestTimeout = 5 * time.Minute

// Client is a thin HTTP client for the arena API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client against baseURL, e.g. "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// CreateUser registers a user.
func (c *Client) CreateUser(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := c.post(ctx, "/api/users", map[string]string{"username": username}, &user)
	return user, err
}

// CreateBot registers a bot under a user.
func (c *Client) CreateBot(ctx context.Context, userID, name, strategy string) (model.Bot, error) {
	var bot model.Bot
	err := c.post(ctx, "/api/bots", map[string]string{
		"user_id":         userID,
		"name":            name,
		"strategy_prompt": strategy,
	}, &bot)
	return bot, err
}

// RunGames plays n games between two bots and returns the stored records.
func (c *Client) RunGames(ctx context.Context, userID, bot1ID, bot2ID string, n int) ([]model.GameRecord, error) {
	var games []model.GameRecord
	err := c.post(ctx, "/api/games", map[string]any{
		"user_id":   userID,
		"bot1_id":   bot1ID,
		"bot2_id":   bot2ID,
		"num_games": n,
	}, &games)
	return games, err
}

// Leaderboard fetches the top winning scores.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := c.get(ctx, fmt.Sprintf("/api/leaderboard?limit=%d", limit), &entries)
	return entries, err
}

// UserGames fetches a user's games, newest first.
func (c *Client) UserGames(ctx context.Context, userID string) ([]model.GameRecord, error) {
	var games []model.GameRecord
	err := c.get(ctx, "/api/games/user/"+userID, &games)
	return games, err
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: status %d (%s: %s)",
			req.Method, req.URL.Path, resp.StatusCode, apiErr.Code, apiErr.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
