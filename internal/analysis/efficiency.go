package analysis

import (
	"fmt"
	"math"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

// AdvantageEven labels a metric neither team won
const AdvantageEven = "Even"

// Team strength thresholds
const (
	strongPassingPPA    = 0.3
	strongRushingPPA    = 0.3
	strongExplosiveness = 1.5
	strongRedZonePPO    = 5.0
	passingInsightGap   = 0.2
	rushingInsightGap   = 0.2
	fieldPositionGap    = 5.0
	explosivenessGap    = 0.3
	redZoneInsightGap   = 1.0
)

// compareEfficiency builds the head-to-head table
func compareEfficiency(teams matchup) models.TeamEfficiency {
	home, away := teams.home, teams.away

	return models.TeamEfficiency{
		Passing:       compareMetric(home.ppa.Passing.Total.Float(), away.ppa.Passing.Total.Float(), home.name, away.name),
		Rushing:       compareMetric(home.ppa.Rushing.Total.Float(), away.ppa.Rushing.Total.Float(), home.name, away.name),
		SuccessRate:   compareMetric(home.successRate.Overall.Total.Float(), away.successRate.Overall.Total.Float(), home.name, away.name),
		Explosiveness: compareMetric(home.explosiveness.Overall.Total.Float(), away.explosiveness.Overall.Total.Float(), home.name, away.name),
		ScoringOpportunities: models.OpportunityComparison{
			Home:      opportunityStats(home.opportunities),
			Away:      opportunityStats(away.opportunities),
			Advantage: advantage(home.opportunities.PointsPerOpportunity.Float(), away.opportunities.PointsPerOpportunity.Float(), home.name, away.name),
		},
		FieldPosition: compareFieldPosition(home.fieldPosition.AverageStart.Float(), away.fieldPosition.AverageStart.Float(), home.name, away.name),
	}
}

func compareMetric(home, away float64, homeTeam, awayTeam string) models.MetricComparison {
	return models.MetricComparison{
		Home:      round(home, 3),
		Away:      round(away, 3),
		Advantage: advantage(home, away, homeTeam, awayTeam),
	}
}

// compareFieldPosition favors the shorter average field. A side with no
// record has nothing to compare, so the metric is even.
func compareFieldPosition(home, away float64, homeTeam, awayTeam string) models.MetricComparison {
	comparison := models.MetricComparison{
		Home:      round(home, 1),
		Away:      round(away, 1),
		Advantage: AdvantageEven,
	}
	if home == 0 || away == 0 {
		return comparison
	}
	comparison.Advantage = advantage(away, home, homeTeam, awayTeam)
	return comparison
}

func advantage(home, away float64, homeTeam, awayTeam string) string {
	switch {
	case home > away:
		return homeTeam
	case away > home:
		return awayTeam
	default:
		return AdvantageEven
	}
}

func opportunityStats(r models.TeamScoringOpportunities) models.OpportunityStats {
	return models.OpportunityStats{
		Opportunities:        r.Opportunities.Int(),
		Points:               r.Points.Int(),
		PointsPerOpportunity: round(r.PointsPerOpportunity.Float(), 2),
	}
}

// teamStrengths tags each team with what it did well; both teams are always present
func teamStrengths(teams matchup) map[string][]string {
	strengths := make(map[string][]string, 2)
	for _, team := range []teamRecords{teams.home, teams.away} {
		tags := []string{}
		if team.ppa.Passing.Total.Float() > strongPassingPPA {
			tags = append(tags, "Efficient passing attack")
		}
		if team.ppa.Rushing.Total.Float() > strongRushingPPA {
			tags = append(tags, "Strong rushing game")
		}
		if team.explosiveness.Overall.Total.Float() > strongExplosiveness {
			tags = append(tags, "Explosive play capability")
		}
		if team.opportunities.PointsPerOpportunity.Float() > strongRedZonePPO {
			tags = append(tags, "Excellent red zone efficiency")
		}
		strengths[team.name] = tags
	}
	return strengths
}

// comparisonInsights writes one sentence per category where the gap is meaningful
func comparisonInsights(teams matchup) []string {
	home, away := teams.home, teams.away
	insights := []string{}

	homePass, awayPass := home.ppa.Passing.Total.Float(), away.ppa.Passing.Total.Float()
	if math.Abs(homePass-awayPass) > passingInsightGap {
		better, worse, hi, lo := leader(home.name, away.name, homePass, awayPass)
		insights = append(insights, fmt.Sprintf("%s held a clear edge through the air over %s (%.2f vs %.2f PPA per pass)", better, worse, hi, lo))
	}

	homeRush, awayRush := home.ppa.Rushing.Total.Float(), away.ppa.Rushing.Total.Float()
	if math.Abs(homeRush-awayRush) > rushingInsightGap {
		better, worse, hi, lo := leader(home.name, away.name, homeRush, awayRush)
		insights = append(insights, fmt.Sprintf("%s controlled the ground game against %s (%.2f vs %.2f PPA per rush)", better, worse, hi, lo))
	}

	homeStart, awayStart := home.fieldPosition.AverageStart.Float(), away.fieldPosition.AverageStart.Float()
	if homeStart != 0 && awayStart != 0 && math.Abs(homeStart-awayStart) > fieldPositionGap {
		// lower start is better
		better, _, _, _ := leader(home.name, away.name, awayStart, homeStart)
		insights = append(insights, fmt.Sprintf("%s won the field position battle, starting drives %.1f yards closer to the end zone", better, math.Abs(homeStart-awayStart)))
	}

	homeExp, awayExp := home.explosiveness.Overall.Total.Float(), away.explosiveness.Overall.Total.Float()
	if math.Abs(homeExp-awayExp) > explosivenessGap {
		better, _, hi, lo := leader(home.name, away.name, homeExp, awayExp)
		insights = append(insights, fmt.Sprintf("%s generated more explosive plays (%.2f vs %.2f explosiveness)", better, hi, lo))
	}

	homePPO, awayPPO := home.opportunities.PointsPerOpportunity.Float(), away.opportunities.PointsPerOpportunity.Float()
	if math.Abs(homePPO-awayPPO) > redZoneInsightGap {
		better, _, hi, lo := leader(home.name, away.name, homePPO, awayPPO)
		insights = append(insights, fmt.Sprintf("%s finished drives better, scoring %.1f points per opportunity to %.1f", better, hi, lo))
	}

	return insights
}

// leader orders two teams by value, higher first
func leader(homeTeam, awayTeam string, home, away float64) (string, string, float64, float64) {
	if home >= away {
		return homeTeam, awayTeam, home, away
	}
	return awayTeam, homeTeam, away, home
}
