package analysis

import (
	"errors"
	"fmt"

	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/sirupsen/logrus"
)

// ErrMissingGameInfo is returned when the box score carries no game header.
// Callers should surface it as "analysis unavailable".
var ErrMissingGameInfo = errors.New("box score game info is required")

// Engine turns a game's raw documents into a structured narrative.
// It holds no state between calls.
type Engine struct {
	logger *logrus.Entry
}

// NewEngine creates a game analysis engine
func NewEngine(logger *logrus.Entry) *Engine {
	return &Engine{logger: logging.OrDiscard(logger)}
}

// GenerateGameAnalysis builds the full analysis. The only error is a missing
// BoxScore.GameInfo; every other gap degrades to zero values.
func (e *Engine) GenerateGameAnalysis(input models.AnalysisInput) (*models.GameAnalysis, error) {
	if input.BoxScore == nil || input.BoxScore.GameInfo == nil {
		return nil, fmt.Errorf("generate game analysis: %w", ErrMissingGameInfo)
	}

	game := summarize(input.BoxScore.GameInfo, input.GameInfo)
	outcome := classifyOutcome(game)
	teams := lookupMatchup(input.BoxScore.Teams, game)
	plays := input.Plays()

	byQuarter := partitionPlays(plays)
	scores, source := resolveQuarterScores(input, byQuarter, game)
	homeAdjust, awayAdjust := scores.reconcile(game)
	if homeAdjust != 0 || awayAdjust != 0 {
		e.logger.WithFields(logrus.Fields{
			"game_id":     game.GameID,
			"source":      source,
			"home_adjust": homeAdjust,
			"away_adjust": awayAdjust,
		}).Debug("reconciled quarter scoring to final score")
	}

	quarterly := buildQuarterAnalysis(scores, teams)
	keyPlays := selectKeyPlays(plays)
	stars := selectStarPlayers(input.BoxScore.Players.PPA)
	insights := comparisonInsights(teams)
	keys := keysToVictory(outcome, teams)
	flow := determineGameFlow(game, outcome, scores)

	analysis := &models.GameAnalysis{
		Game:                   game,
		Outcome:                outcome,
		QuarterAnalysis:        quarterly,
		ScoringSource:          source,
		TeamStrengths:          teamStrengths(teams),
		KeyPlays:               keyPlays,
		TeamEfficiency:         compareEfficiency(teams),
		StarPlayers:            stars,
		TeamComparisonInsights: insights,
		Overview:               overview(game, outcome, stars, flow),
		GameStory:              gameStory(outcome, keys, insights),
		QuarterSummaries:       quarterSummaries(game, quarterly),
		KeysToVictory:          keys,
		TurningPoint:           findTurningPoint(keyPlays, plays),
		GameFlow:               flow,
	}

	e.logger.WithFields(logrus.Fields{
		"game_id":      game.GameID,
		"plays":        len(plays),
		"key_plays":    len(keyPlays),
		"star_players": len(stars),
		"flow":         flow.Pattern,
	}).Debug("generated game analysis")

	return analysis, nil
}
