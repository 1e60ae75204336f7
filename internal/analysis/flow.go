package analysis

import (
	"fmt"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

const (
	backAndForthLeadChanges = 2
	closeHalftimeMargin     = 3
	lateSurgeMargin         = 10
)

// determineGameFlow classifies the half-by-half scoring shape. Patterns are tried in
// order: comeback, wire-to-wire, back-and-forth, early lead, late surge, competitive.
func determineGameFlow(game models.GameSummary, outcome models.Outcome, scores quarterScores) models.GameFlow {
	leadChanges, leaders := leadHistory(scores)
	flow := models.GameFlow{LeadChanges: leadChanges}

	if outcome.IsTie {
		flow.Pattern = models.FlowCompetitive
		flow.Description = fmt.Sprintf("The game remained competitive throughout and ended tied at %d", game.HomePoints)
		return flow
	}

	homeWon := models.SameTeam(outcome.Winner, game.HomeTeam)
	winnerFirst, loserFirst := half(scores.home, 0), half(scores.away, 0)
	winnerSecond, loserSecond := half(scores.home, 1), half(scores.away, 1)
	winnerSide := sideHome
	if !homeWon {
		winnerFirst, loserFirst = loserFirst, winnerFirst
		winnerSecond, loserSecond = loserSecond, winnerSecond
		winnerSide = sideAway
	}
	halftimeMargin := winnerFirst - loserFirst

	switch {
	case halftimeMargin < 0:
		flow.Pattern = models.FlowComeback
		flow.Description = fmt.Sprintf("%s rallied from a %d-point halftime deficit to win %d-%d",
			outcome.Winner, -halftimeMargin, outcome.WinnerPoints, outcome.LoserPoints)
	case ledEveryQuarter(leaders, winnerSide):
		flow.Pattern = models.FlowWireToWire
		flow.Description = fmt.Sprintf("%s led after every quarter in a wire-to-wire %d-%d win",
			outcome.Winner, outcome.WinnerPoints, outcome.LoserPoints)
	case leadChanges >= backAndForthLeadChanges:
		flow.Pattern = models.FlowBackAndForth
		flow.Description = fmt.Sprintf("The lead changed hands %d times before %s pulled it out", leadChanges, outcome.Winner)
	case halftimeMargin > closeHalftimeMargin:
		flow.Pattern = models.FlowEarlyLead
		flow.Description = fmt.Sprintf("%s built a %d-point halftime lead and held on", outcome.Winner, halftimeMargin)
	case winnerSecond-loserSecond >= lateSurgeMargin:
		flow.Pattern = models.FlowLateSurge
		flow.Description = fmt.Sprintf("%s broke open a close game by outscoring %s %d-%d after halftime",
			outcome.Winner, outcome.Loser, winnerSecond, loserSecond)
	default:
		flow.Pattern = models.FlowCompetitive
		flow.Description = fmt.Sprintf("The game remained competitive throughout before %s won %d-%d",
			outcome.Winner, outcome.WinnerPoints, outcome.LoserPoints)
	}

	return flow
}

type side int

const (
	sideNone side = iota
	sideHome
	sideAway
)

// leadHistory returns the leader after each quarter and how often the lead changed.
// A tied score keeps no leader; the next lead is compared to the last one held.
func leadHistory(scores quarterScores) (int, [quarters]side) {
	var leaders [quarters]side
	changes := 0
	last := sideNone
	home, away := 0, 0

	for q := 0; q < quarters; q++ {
		home += scores.home[q]
		away += scores.away[q]

		current := sideNone
		switch {
		case home > away:
			current = sideHome
		case away > home:
			current = sideAway
		}
		leaders[q] = current

		if current != sideNone {
			if last != sideNone && current != last {
				changes++
			}
			last = current
		}
	}
	return changes, leaders
}

func ledEveryQuarter(leaders [quarters]side, s side) bool {
	for _, l := range leaders {
		if l != s {
			return false
		}
	}
	return true
}

// half sums quarters 1-2 (h=0) or 3-4 (h=1)
func half(scores [quarters]int, h int) int {
	return scores[2*h] + scores[2*h+1]
}
