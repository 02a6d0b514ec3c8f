package auction

import "github.com/hooplab/draftarena/internal/domain/model"

// Type tags an engine event.
type Type string

// Event types, in the order a game produces them: any number of log and
// draft events, then exactly one game_complete.
const (
	TypeLog          Type = "log"
	TypeDraft        Type = "draft"
	TypeGameComplete Type = "game_complete"
)

// Event is one externally observable state transition. Exactly one of
// Message, Draft or Result is set, matching Type.
type Event struct {
	Type    Type    `json:"type"`
	Message string  `json:"message,omitempty"`
	Draft   *Draft  `json:"draft,omitempty"`
	Result  *Result `json:"result,omitempty"`
}

// Draft reports a resolved auction: the pick and both balances after the
// winner paid.
type Draft struct {
	BotKey      string          `json:"bot_key"`
	Pick        model.DraftPick `json:"pick"`
	Bot1Balance int             `json:"bot1_balance"`
	Bot2Balance int             `json:"bot2_balance"`
}

// Result is the terminal summary of a game.
type Result struct {
	Bot1Score float64           `json:"bot1_score"`
	Bot2Score float64           `json:"bot2_score"`
	Bot1Team  []model.DraftPick `json:"bot1_team"`
	Bot2Team  []model.DraftPick `json:"bot2_team"`
	GameLog   []string          `json:"game_log"`
	WinnerKey string            `json:"winner_key,omitempty"` // empty on a tie
	Tie       bool              `json:"tie"`
}

func logEvent(msg string) Event {
	return Event{Type: TypeLog, Message: msg}
}
