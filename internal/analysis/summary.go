package analysis

import (
	"math"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

const (
	defaultHomeTeam = "Home Team"
	defaultAwayTeam = "Away Team"
	defaultWinProb  = 50.0

	closeGameMargin = 7
	blowoutMargin   = 21
)

// summarize resolves the game header once: box score first, then the standalone
// game info, then defaults. Win probabilities are reported as percentages.
func summarize(primary, fallback *models.GameInfo) models.GameSummary {
	if fallback == nil {
		fallback = &models.GameInfo{}
	}

	summary := models.GameSummary{
		GameID:     firstString(string(primary.ID), string(fallback.ID)),
		Season:     firstInt(primary.Season, fallback.Season),
		Week:       firstInt(primary.Week, fallback.Week),
		Venue:      firstString(primary.Venue, fallback.Venue),
		HomeTeam:   firstString(primary.HomeTeam, fallback.HomeTeam, defaultHomeTeam),
		AwayTeam:   firstString(primary.AwayTeam, fallback.AwayTeam, defaultAwayTeam),
		HomePoints: points(firstFloat(primary.HomePoints, fallback.HomePoints, 0)),
		AwayPoints: points(firstFloat(primary.AwayPoints, fallback.AwayPoints, 0)),
		Excitement: firstFloat(primary.Excitement, fallback.Excitement, 0),
	}

	summary.HomeWinProb = percent(firstFloat(primary.HomeWinProb, fallback.HomeWinProb, defaultWinProb))
	summary.AwayWinProb = percent(firstFloat(primary.AwayWinProb, fallback.AwayWinProb, defaultWinProb))

	return summary
}

// classifyOutcome decides winner and margin. The home team wins only on a strictly
// higher score; a tie is flagged and leaves the away team in the winner slot.
func classifyOutcome(game models.GameSummary) models.Outcome {
	outcome := models.Outcome{
		Winner:       game.AwayTeam,
		Loser:        game.HomeTeam,
		WinnerPoints: game.AwayPoints,
		LoserPoints:  game.HomePoints,
		IsTie:        game.HomePoints == game.AwayPoints,
	}
	if game.HomePoints > game.AwayPoints {
		outcome.Winner, outcome.Loser = game.HomeTeam, game.AwayTeam
		outcome.WinnerPoints, outcome.LoserPoints = game.HomePoints, game.AwayPoints
	}

	outcome.Margin = outcome.WinnerPoints - outcome.LoserPoints
	outcome.IsCloseGame = outcome.Margin <= closeGameMargin
	outcome.IsBlowout = outcome.Margin >= blowoutMargin

	return outcome
}

// teamRecords is one team's slice of the box score team arrays.
// Missing arrays leave zero-valued records.
type teamRecords struct {
	name          string
	ppa           models.TeamPPA
	successRate   models.TeamSuccessRate
	explosiveness models.TeamExplosiveness
	opportunities models.TeamScoringOpportunities
	fieldPosition models.TeamFieldPosition
}

// matchup holds both teams' records
type matchup struct {
	home teamRecords
	away teamRecords
}

func lookupMatchup(stats models.TeamStats, game models.GameSummary) matchup {
	return matchup{
		home: lookupTeam(stats, game.HomeTeam),
		away: lookupTeam(stats, game.AwayTeam),
	}
}

func lookupTeam(stats models.TeamStats, team string) teamRecords {
	return teamRecords{
		name:          team,
		ppa:           findRecord(stats.PPA, team, func(r models.TeamPPA) string { return r.Team }),
		successRate:   findRecord(stats.SuccessRates, team, func(r models.TeamSuccessRate) string { return r.Team }),
		explosiveness: findRecord(stats.Explosiveness, team, func(r models.TeamExplosiveness) string { return r.Team }),
		opportunities: findRecord(stats.ScoringOpportunities, team, func(r models.TeamScoringOpportunities) string { return r.Team }),
		fieldPosition: findRecord(stats.FieldPosition, team, func(r models.TeamFieldPosition) string { return r.Team }),
	}
}

func findRecord[T any](records []T, team string, teamOf func(T) string) T {
	for _, r := range records {
		if models.SameTeam(teamOf(r), team) {
			return r
		}
	}
	var zero T
	return zero
}

// winnerAndLoser orders the matchup by outcome
func (m matchup) winnerAndLoser(outcome models.Outcome) (teamRecords, teamRecords) {
	if models.SameTeam(outcome.Winner, m.home.name) {
		return m.home, m.away
	}
	return m.away, m.home
}

func firstString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...models.FlexInt) int {
	for _, v := range values {
		if v != 0 {
			return v.Int()
		}
	}
	return 0
}

func firstFloat(a, b models.OptionalFloat, def float64) float64 {
	if a.Valid {
		return a.Value.Float()
	}
	if b.Valid {
		return b.Value.Float()
	}
	return def
}

func points(v float64) int {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Round(v))
}

// percent accepts either a 0-1 probability or a 0-100 percentage
func percent(v float64) float64 {
	if math.IsNaN(v) {
		return defaultWinProb
	}
	if v <= 1 {
		v *= 100
	}
	return round(v, 1)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
