package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

// Keys to victory
const (
	KeyPassing       = "Passing Efficiency"
	KeyRushing       = "Running Game Control"
	KeyFieldPosition = "Field Position"
	KeyRedZone       = "Red Zone Efficiency"
	KeyExplosive     = "Explosive Play Generation"
	KeyExecution     = "Overall Execution"
)

const (
	minKeys = 2

	keyPassingFloor     = 0.2
	keyRushingFloor     = 0.1
	keyFieldPositionGap = 3.0
	keyRedZoneGap       = 0.5
	keyExplosivenessGap = 0.1
	turningPointMinEPA  = 2.0
	turningPointPeriod  = 3
	storyInsightLimit   = 2
)

// keysToVictory lists where the winner beat the loser
func keysToVictory(outcome models.Outcome, teams matchup) []string {
	winner, loser := teams.winnerAndLoser(outcome)
	keys := []string{}

	wPass, lPass := winner.ppa.Passing.Total.Float(), loser.ppa.Passing.Total.Float()
	if wPass > lPass && wPass > keyPassingFloor {
		keys = append(keys, KeyPassing)
	}

	wRush, lRush := winner.ppa.Rushing.Total.Float(), loser.ppa.Rushing.Total.Float()
	if wRush > lRush && wRush > keyRushingFloor {
		keys = append(keys, KeyRushing)
	}

	wStart, lStart := winner.fieldPosition.AverageStart.Float(), loser.fieldPosition.AverageStart.Float()
	if wStart != 0 && lStart != 0 && lStart-wStart > keyFieldPositionGap {
		keys = append(keys, KeyFieldPosition)
	}

	if winner.opportunities.PointsPerOpportunity.Float() > loser.opportunities.PointsPerOpportunity.Float()+keyRedZoneGap {
		keys = append(keys, KeyRedZone)
	}

	if winner.explosiveness.Overall.Total.Float() > loser.explosiveness.Overall.Total.Float()+keyExplosivenessGap {
		keys = append(keys, KeyExplosive)
	}

	if len(keys) < minKeys {
		keys = append(keys, KeyExecution)
	}
	return keys
}

func overview(game models.GameSummary, outcome models.Outcome, stars []models.StarPlayer, flow models.GameFlow) string {
	var b strings.Builder

	switch {
	case outcome.IsTie:
		fmt.Fprintf(&b, "%s and %s played to a %d-%d tie.", game.HomeTeam, game.AwayTeam, game.HomePoints, game.AwayPoints)
	case outcome.IsBlowout:
		fmt.Fprintf(&b, "%s routed %s %d-%d, a %d-point statement win.",
			outcome.Winner, outcome.Loser, outcome.WinnerPoints, outcome.LoserPoints, outcome.Margin)
	case outcome.IsCloseGame:
		fmt.Fprintf(&b, "%s edged %s %d-%d in a game decided by %d.",
			outcome.Winner, outcome.Loser, outcome.WinnerPoints, outcome.LoserPoints, outcome.Margin)
	default:
		fmt.Fprintf(&b, "%s defeated %s %d-%d.", outcome.Winner, outcome.Loser, outcome.WinnerPoints, outcome.LoserPoints)
	}

	if len(stars) > 0 {
		top := stars[0]
		fmt.Fprintf(&b, " %s (%s) led all players with %.1f total PPA.", top.Name, top.Team, top.TotalPPA)
	}

	if flow.Description != "" {
		fmt.Fprintf(&b, " %s.", flow.Description)
	}
	return b.String()
}

// gameStory joins the keys to victory with the two leading comparison insights
func gameStory(outcome models.Outcome, keys []string, insights []string) string {
	var sentences []string
	if outcome.IsTie {
		sentences = append(sentences, "Neither team could find the decisive edge.")
	} else {
		sentences = append(sentences, fmt.Sprintf("%s won on %s.", outcome.Winner, joinList(keys)))
	}

	for i, insight := range insights {
		if i == storyInsightLimit {
			break
		}
		sentences = append(sentences, insight+".")
	}
	return strings.Join(sentences, " ")
}

func quarterSummaries(game models.GameSummary, quarterly []models.QuarterAnalysis) []string {
	summaries := make([]string, 0, len(quarterly))
	for _, q := range quarterly {
		line := fmt.Sprintf("Q%d: %s %d, %s %d.", q.Quarter, game.HomeTeam, q.HomeScoring, game.AwayTeam, q.AwayScoring)

		if q.HomePPA != q.AwayPPA {
			edge, hi, lo := game.HomeTeam, q.HomePPA, q.AwayPPA
			if !q.HomeAdvantage {
				edge, hi, lo = game.AwayTeam, q.AwayPPA, q.HomePPA
			}
			if q.Significance == models.SignificanceSignificant {
				line += fmt.Sprintf(" %s dominated on a per-play basis (%.2f vs %.2f PPA).", edge, hi, lo)
			} else {
				line += fmt.Sprintf(" %s held a slight efficiency edge (%.2f vs %.2f PPA).", edge, hi, lo)
			}
		}
		summaries = append(summaries, line)
	}
	return summaries
}

// findTurningPoint picks the first high-impact key play of the second half,
// falling back to the biggest single play of the game
func findTurningPoint(keyPlays []models.KeyPlay, plays []models.Play) models.TurningPoint {
	for i := range keyPlays {
		kp := keyPlays[i]
		if kp.Period >= turningPointPeriod && math.Abs(kp.EPA) > turningPointMinEPA {
			return turningPoint(kp)
		}
	}

	var biggest *models.Play
	for i := range plays {
		play := &plays[i]
		if play.IsNonPlay() || play.AbsImpact() == 0 {
			continue
		}
		if biggest == nil || play.AbsImpact() > biggest.AbsImpact() {
			biggest = play
		}
	}
	if biggest == nil {
		return models.TurningPoint{Exists: false}
	}

	importance, reasons := classifyPlay(*biggest)
	if importance == "" {
		importance = models.ImportanceStandard
	}
	return turningPoint(models.KeyPlay{
		Period:      biggest.Period.Int(),
		Clock:       biggest.Clock.String(),
		Team:        biggest.OffenseTeam(),
		PlayType:    biggest.TypeLabel(),
		PlayText:    biggest.PlayText,
		YardsGained: biggest.YardsGained.Int(),
		Down:        biggest.Down.Int(),
		Distance:    biggest.Distance.Int(),
		EPA:         round(biggest.Impact(), 3),
		Scoring:     biggest.Scoring,
		Importance:  importance,
		Reasons:     reasons,
	})
}

func turningPoint(kp models.KeyPlay) models.TurningPoint {
	team := kp.Team
	if team == "" {
		team = "Unknown"
	}
	return models.TurningPoint{
		Exists:      true,
		Play:        &kp,
		Description: fmt.Sprintf("Q%d %s, %s: %s (%+.2f EPA)", kp.Period, kp.Clock, team, kp.PlayText, kp.EPA),
		Period:      kp.Period,
		Team:        kp.Team,
	}
}

// joinList renders "a", "a and b", "a, b and c"
func joinList(items []string) string {
	lowered := make([]string, len(items))
	for i, item := range items {
		lowered[i] = strings.ToLower(item)
	}
	switch len(lowered) {
	case 0:
		return ""
	case 1:
		return lowered[0]
	default:
		return strings.Join(lowered[:len(lowered)-1], ", ") + " and " + lowered[len(lowered)-1]
	}
}
