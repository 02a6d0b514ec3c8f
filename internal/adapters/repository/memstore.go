package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// MemoryStore is a mutex-guarded in-memory Store, used by tests and local
// runs without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]model.User
	bots    map[string]model.Bot
	players map[int]model.Player
	games   map[string]model.GameRecord

	now func() time.Time
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the time source, fixing timestamps under test.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		users:   make(map[string]model.User),
		bots:    make(map[string]model.Bot),
		players: make(map[int]model.Player),
		games:   make(map[string]model.GameRecord),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) CreateUser(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: s.now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) CreateBot(_ context.Context, userID, name, strategyPrompt string) (model.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return model.Bot{}, ErrNotFound
	}
	now := s.now().UTC()
	b := model.Bot{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           name,
		StrategyPrompt: strategyPrompt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.bots[b.ID] = b
	return b, nil
}

func (s *MemoryStore) GetBot(_ context.Context, id string) (model.Bot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bots[id]
	if !ok {
		return model.Bot{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) ListBotsByUser(_ context.Context, userID string) ([]model.Bot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Bot
	for _, b := range s.bots {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateBot(_ context.Context, id string, update BotUpdate) (model.Bot, error) {
	if update.Name == nil && update.StrategyPrompt == nil {
		return model.Bot{}, ErrNoFields
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bots[id]
	if !ok {
		return model.Bot{}, ErrNotFound
	}
	if update.Name != nil {
		b.Name = *update.Name
	}
	if update.StrategyPrompt != nil {
		b.StrategyPrompt = *update.StrategyPrompt
	}
	b.UpdatedAt = s.now().UTC()
	s.bots[id] = b
	return b, nil
}

func (s *MemoryStore) DeleteBot(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bots, id)
	return nil
}

func (s *MemoryStore) UpsertPlayers(_ context.Context, players []model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range players {
		s.players[p.ID] = p
	}
	return nil
}

func (s *MemoryStore) ListPlayers(_ context.Context, search string, limit, offset int) ([]model.Player, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(search)
	var out []model.Player
	for _, p := range s.players {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.FirstName), needle) &&
			!strings.Contains(strings.ToLower(p.LastName), needle) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FantasyPoints > out[j].FantasyPoints })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) DraftCatalog(_ context.Context, minFantasyPoints float64) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Player
	for _, p := range s.players {
		if p.FantasyPoints >= minFantasyPoints {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FantasyPoints > out[j].FantasyPoints })
	return out, nil
}

func (s *MemoryStore) SaveGame(_ context.Context, game model.GameRecord) (model.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game.ID = uuid.NewString()
	game.CreatedAt = s.now().UTC()
	s.games[game.ID] = game
	return game, nil
}

func (s *MemoryStore) ListGamesByUser(_ context.Context, userID string, limit int) ([]model.GameRecord, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.GameRecord
	for _, g := range s.games {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Leaderboard(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.LeaderboardEntry
	for _, g := range s.games {
		if g.Status != "complete" {
			continue
		}
		score, botName := g.Bot1Score, g.Bot1Name
		if g.Bot2Score > g.Bot1Score {
			score, botName = g.Bot2Score, g.Bot2Name
		}
		username := "Unknown"
		if u, ok := s.users[g.UserID]; ok {
			username = u.Username
		}
		out = append(out, model.LeaderboardEntry{
			GameID:    g.ID,
			Username:  username,
			BotName:   botName,
			Score:     score,
			CreatedAt: g.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
