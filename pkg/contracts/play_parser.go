package contracts

import (
	"context"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

// PlayParser maps a play to structured participant tuples.
// The grading engine only talks to this interface, so a structured participant feed can
// replace the free-text parser without touching grade logic.
type PlayParser interface {
	// Identification
	ParserKey() string // "text"

	// ParsePlay returns the participants of one play in match order.
	// Team is already inferred from the role.
	ParsePlay(play models.Play) []models.Participant

	// InferPosition guesses a position from how the name appears across plays.
	// Returns "" when nothing matches.
	InferPosition(name string, plays []models.Play) string
}

// GameDataSource fetches the raw documents for one game
type GameDataSource interface {
	FetchBoxScore(ctx context.Context, gameID string) (*models.BoxScore, error)
	FetchPlayByPlay(ctx context.Context, gameID string) (*models.PlayByPlay, error)
	FetchScoreboard(ctx context.Context, gameID string) (*models.Scoreboard, error)
	FetchGameInfo(ctx context.Context, gameID string) (*models.GameInfo, error)
}
