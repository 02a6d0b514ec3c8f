package arenacheck

import (
	"fmt"

	"github.com/hooplab/draftarena/internal/domain/model"
)

const startingBalance = 100

// verifyGame checks a stored record against the game rules: budgets are
// conserved, draft order is contiguous, and the recorded winner matches
// the scores.
func verifyGame(game model.GameRecord) error {
	if game.Status != "complete" {
		return fmt.Errorf("status %q, expected complete", game.Status)
	}

	for key, team := range map[string][]model.DraftPick{
		"bot1": game.Bot1Team,
		"bot2": game.Bot2Team,
	} {
		spent := 0
		for _, pick := range team {
			if pick.BidAmount < 1 {
				return fmt.Errorf("%s: pick %d has bid %d", key, pick.PlayerID, pick.BidAmount)
			}
			spent += pick.BidAmount
		}
		if spent > startingBalance {
			return fmt.Errorf("%s spent %d credits, budget is %d", key, spent, startingBalance)
		}
	}

	if err := verifyDraftOrder(game); err != nil {
		return err
	}

	switch {
	case game.Bot1Score > game.Bot2Score && game.WinnerBotID != game.Bot1ID:
		return fmt.Errorf("bot1 scored higher but winner is %q", game.WinnerBotID)
	case game.Bot2Score > game.Bot1Score && game.WinnerBotID != game.Bot2ID:
		return fmt.Errorf("bot2 scored higher but winner is %q", game.WinnerBotID)
	case game.Bot1Score == game.Bot2Score && game.WinnerBotID != "":
		return fmt.Errorf("tie game has winner %q", game.WinnerBotID)
	}
	return nil
}

// verifyDraftOrder checks the combined draft order numbers are exactly
// 1..k with no player drafted twice.
func verifyDraftOrder(game model.GameRecord) error {
	seenOrder := make(map[int]bool)
	seenPlayer := make(map[int]bool)
	total := 0
	for _, team := range [][]model.DraftPick{game.Bot1Team, game.Bot2Team} {
		for _, pick := range team {
			if seenOrder[pick.DraftOrder] {
				return fmt.Errorf("duplicate draft order %d", pick.DraftOrder)
			}
			if seenPlayer[pick.PlayerID] {
				return fmt.Errorf("player %d drafted twice", pick.PlayerID)
			}
			seenOrder[pick.DraftOrder] = true
			seenPlayer[pick.PlayerID] = true
			total++
		}
	}
	for i := 1; i <= total; i++ {
		if !seenOrder[i] {
			return fmt.Errorf("draft order %d missing", i)
		}
	}
	return nil
}
