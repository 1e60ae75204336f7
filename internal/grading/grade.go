package grading

import (
	"math"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

const (
	// BaselineGrade is where every player with enough plays starts
	BaselineGrade = 60.0

	// DefaultGrade is assigned to players with too few plays or a failed computation
	DefaultGrade = 60.0

	// MinGradedPlays is the play count below which a player keeps DefaultGrade
	MinGradedPlays = 2

	ppaWeight          = 15.0
	contributionWeight = 20.0
	scoringBonus       = 3.0
	conversionBonus    = 1.5
	bigPlayBonus       = 1.5

	bigRushYards      = 15
	bigReceptionYards = 25
	latePeriod        = 3
)

// averagePPA prefers the roster's per-play average and falls back to the mean contribution
func averagePPA(metrics models.PerformanceMetrics) float64 {
	if metrics.PPAData != nil {
		return metrics.PPAData.Average.Total.Float()
	}
	if len(metrics.EPAContributions) == 0 {
		return 0
	}
	var sum float64
	for _, c := range metrics.EPAContributions {
		sum += c
	}
	return sum / float64(len(metrics.EPAContributions))
}

// computeGrade scores one player on the 0-100 scale
func computeGrade(position string, metrics models.PerformanceMetrics, details []models.PlayDetail) float64 {
	if metrics.TotalPlays < MinGradedPlays {
		return DefaultGrade
	}

	grade := BaselineGrade
	grade += averagePPA(metrics) * ppaWeight
	grade += float64(metrics.PositiveContributions) / float64(metrics.TotalPlays) * contributionWeight

	for _, d := range details {
		if d.Scoring {
			grade += scoringBonus
		}
		if isLateConversion(d) {
			grade += conversionBonus
		}
		if isBigPlay(d) {
			grade += bigPlayBonus
		}
	}

	grade *= PositionFactor(position)

	if math.IsNaN(grade) || math.IsInf(grade, 0) {
		return DefaultGrade
	}
	grade = math.Max(0, math.Min(100, grade))
	return math.Round(grade*10) / 10
}

// isLateConversion is a successful 3rd/4th down in the second half that helped the player's side
func isLateConversion(d models.PlayDetail) bool {
	return d.Period >= latePeriod &&
		(d.Down == 3 || d.Down == 4) &&
		d.Distance > 0 &&
		d.YardsGained >= d.Distance &&
		d.EPA > 0
}

func isBigPlay(d models.PlayDetail) bool {
	switch d.Role {
	case models.RoleRusher:
		return d.YardsGained >= bigRushYards
	case models.RoleReceiver:
		return d.YardsGained >= bigReceptionYards
	}
	return false
}
