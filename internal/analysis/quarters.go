package analysis

import (
	"math"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

// Scoring sources, in priority order
const (
	SourceScoreboard = "scoreboard"
	SourceBoxScore   = "box_score"
	SourcePlays      = "plays"
	SourceNone       = "none"
)

const (
	quarters = 4

	significantPPAGap = 0.3
)

// quarterScores is points per regulation quarter; overtime folds into the 4th
type quarterScores struct {
	home [quarters]int
	away [quarters]int
}

// scoringSource yields quarter scores when its document is present
type scoringSource struct {
	name   string
	scores func() (quarterScores, bool)
}

// resolveQuarterScores walks the sources in order and uses the first one present
func resolveQuarterScores(input models.AnalysisInput, byQuarter [quarters][]models.Play, game models.GameSummary) (quarterScores, string) {
	sources := []scoringSource{
		{SourceScoreboard, func() (quarterScores, bool) { return fromLineScores(input.Scoreboard) }},
		{SourceBoxScore, func() (quarterScores, bool) { return fromBoxQuarters(input.BoxScore.Teams.Quarters) }},
		{SourcePlays, func() (quarterScores, bool) { return fromPlays(byQuarter, game) }},
	}

	for _, source := range sources {
		if scores, ok := source.scores(); ok {
			return scores, source.name
		}
	}
	return quarterScores{}, SourceNone
}

func fromLineScores(board *models.Scoreboard) (quarterScores, bool) {
	var scores quarterScores
	if !board.HasLineScores() {
		return scores, false
	}

	for i, pts := range board.HomeLineScores {
		scores.home[quarterIndex(i+1)] += pts.Int()
	}
	for i, pts := range board.AwayLineScores {
		scores.away[quarterIndex(i+1)] += pts.Int()
	}
	return scores, true
}

func fromBoxQuarters(records []models.QuarterScore) (quarterScores, bool) {
	var scores quarterScores
	if len(records) == 0 {
		return scores, false
	}

	for i, r := range records {
		q := r.Quarter.Int()
		if q <= 0 {
			q = i + 1
		}
		scores.home[quarterIndex(q)] += r.Home.Int()
		scores.away[quarterIndex(q)] += r.Away.Int()
	}
	return scores, true
}

func fromPlays(byQuarter [quarters][]models.Play, game models.GameSummary) (quarterScores, bool) {
	var scores quarterScores
	found := false

	for i, plays := range byQuarter {
		for _, play := range plays {
			found = true
			if !play.Scoring {
				continue
			}

			pts := playPoints(play)
			if pts == 0 {
				continue
			}

			team := play.OffenseTeam()
			if defenseScored(play) {
				team = play.DefenseTeam()
			}
			switch {
			case models.SameTeam(team, game.HomeTeam):
				scores.home[i] += pts
			case models.SameTeam(team, game.AwayTeam):
				scores.away[i] += pts
			}
		}
	}
	return scores, found
}

// playPoints infers the points of a scoring play from its type
func playPoints(play models.Play) int {
	playType := strings.ToLower(play.PlayType)
	switch {
	case strings.Contains(playType, "touchdown"):
		if strings.Contains(play.PlayText, "KICK") {
			return 7
		}
		return 6
	case strings.Contains(playType, "field goal") &&
		!strings.Contains(playType, "missed") && !strings.Contains(playType, "blocked"):
		return 3
	case strings.Contains(playType, "safety"):
		return 2
	}
	return 0
}

// Play types whose points belong to the team on defense
var defensiveScoreTypes = []string{
	"safety",
	"interception return",
	"fumble return",
	"punt return",
	"blocked",
	"missed field goal return",
}

func defenseScored(play models.Play) bool {
	playType := strings.ToLower(play.PlayType)
	for _, t := range defensiveScoreTypes {
		if strings.Contains(playType, t) {
			return true
		}
	}
	return false
}

// quarterIndex maps a period number to an array slot, folding overtime into the 4th
func quarterIndex(period int) int {
	switch {
	case period < 1:
		return 0
	case period > quarters:
		return quarters - 1
	default:
		return period - 1
	}
}

// reconcile forces each side's quarters to sum to the official final.
// The difference lands on the 4th quarter; whatever flooring at zero
// leaves over walks back through earlier quarters.
func (s *quarterScores) reconcile(game models.GameSummary) (homeAdjust, awayAdjust int) {
	homeAdjust = reconcileSide(&s.home, game.HomePoints)
	awayAdjust = reconcileSide(&s.away, game.AwayPoints)
	return homeAdjust, awayAdjust
}

func reconcileSide(scores *[quarters]int, final int) int {
	sum := 0
	for _, pts := range scores {
		sum += pts
	}
	diff := final - sum
	adjust := diff

	for q := quarters - 1; q >= 0 && diff != 0; q-- {
		adjusted := scores[q] + diff
		if adjusted < 0 {
			scores[q] = 0
			diff = adjusted
			continue
		}
		scores[q] = adjusted
		diff = 0
	}
	return adjust
}

// partitionPlays groups plays by regulation quarter; overtime plays join the 4th
func partitionPlays(plays []models.Play) [quarters][]models.Play {
	var byQuarter [quarters][]models.Play
	for _, play := range plays {
		period := play.Period.Int()
		if period < 1 {
			continue
		}
		i := quarterIndex(period)
		byQuarter[i] = append(byQuarter[i], play)
	}
	return byQuarter
}

func buildQuarterAnalysis(scores quarterScores, teams matchup) []models.QuarterAnalysis {
	result := make([]models.QuarterAnalysis, 0, quarters)
	for i := 0; i < quarters; i++ {
		q := i + 1
		homePPA := teams.home.ppa.Overall.Quarter(q)
		awayPPA := teams.away.ppa.Overall.Quarter(q)

		significance := models.SignificanceModerate
		if math.Abs(homePPA-awayPPA) > significantPPAGap {
			significance = models.SignificanceSignificant
		}

		result = append(result, models.QuarterAnalysis{
			Quarter:       q,
			HomePPA:       round(homePPA, 3),
			AwayPPA:       round(awayPPA, 3),
			HomeAdvantage: homePPA > awayPPA,
			Significance:  significance,
			HomeScoring:   scores.home[i],
			AwayScoring:   scores.away[i],
			ScoringDiff:   scores.home[i] - scores.away[i],
		})
	}
	return result
}
