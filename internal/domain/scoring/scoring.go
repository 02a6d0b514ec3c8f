// Package scoring computes fantasy-point values and team scores.
package scoring

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hooplab/draftarena/internal/domain/model"
)

// Stat weights for the fantasy-point formula, applied to per-game averages.
const (
	pointsWeight   = 1.0
	reboundsWeight = 1.2
	assistsWeight  = 1.5
	stealsWeight   = 3.0
	blocksWeight   = 3.0
	turnoverWeight = -1.0
)

// TeamSize is the number of picks that contribute to a team's score.
// Extra picks are inert.
const TeamSize = 5

// FantasyPoints derives a player's fantasy-point value from per-game rates:
// points 1x, rebounds 1.2x, assists 1.5x, steals 3x, blocks 3x, turnovers -1x.
// The result is rounded to two decimal places.
func FantasyPoints(ppg, rpg, apg, spg, bpg, topg float64) float64 {
	total := decimal.NewFromFloat(ppg).Mul(decimal.NewFromFloat(pointsWeight)).
		Add(decimal.NewFromFloat(rpg).Mul(decimal.NewFromFloat(reboundsWeight))).
		Add(decimal.NewFromFloat(apg).Mul(decimal.NewFromFloat(assistsWeight))).
		Add(decimal.NewFromFloat(spg).Mul(decimal.NewFromFloat(stealsWeight))).
		Add(decimal.NewFromFloat(bpg).Mul(decimal.NewFromFloat(blocksWeight))).
		Add(decimal.NewFromFloat(topg).Mul(decimal.NewFromFloat(turnoverWeight)))
	return total.Round(2).InexactFloat64()
}

// TeamScore sums the top-five fantasy-point values in a team, rounded to one
// decimal place. Teams with fewer than five picks score the sum of all picks.
func TeamScore(team []model.DraftPick) float64 {
	sorted := make([]model.DraftPick, len(team))
	copy(sorted, team)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FantasyPoints > sorted[j].FantasyPoints
	})
	if len(sorted) > TeamSize {
		sorted = sorted[:TeamSize]
	}

	total := decimal.Zero
	for _, p := range sorted {
		total = total.Add(decimal.NewFromFloat(p.FantasyPoints))
	}
	return total.Round(1).InexactFloat64()
}
