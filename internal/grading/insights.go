package grading

import (
	"fmt"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

const (
	lateGamePeriod        = 4
	lateGameMinPlays      = 3
	completionMinAttempts = 5
	completionRateStrong  = 0.65
	dualThreatMinRushes   = 3
	dualThreatMinYards    = 30
	explosiveRunYards     = 15
	explosiveRunMinCount  = 2
	catchRateMinTargets   = 3
	catchRateStrong       = 0.7
	disruptiveMinPlays    = 2
)

// buildInsights turns a player's play details into short qualitative notes
func buildInsights(position string, details []models.PlayDetail) []string {
	insights := []string{}

	var scoring, latePositive int
	for _, d := range details {
		if d.Scoring {
			scoring++
		}
		if d.Period >= lateGamePeriod && d.EPA > 0 {
			latePositive++
		}
	}

	if scoring == 1 {
		insights = append(insights, "Involved in a scoring play")
	} else if scoring > 1 {
		insights = append(insights, fmt.Sprintf("Involved in %d scoring plays", scoring))
	}
	if latePositive >= lateGameMinPlays {
		insights = append(insights, fmt.Sprintf("Came up big late with %d positive plays in the 4th quarter", latePositive))
	}

	switch PositionGroup(position) {
	case "QB":
		insights = append(insights, quarterbackInsights(details)...)
	case "RB":
		insights = append(insights, runningBackInsights(details)...)
	case "WR", "TE":
		insights = append(insights, receiverInsights(details)...)
	}

	if IsDefensivePosition(position) || hasDefensiveRole(details) {
		insights = append(insights, defensiveInsights(details)...)
	}

	return insights
}

func quarterbackInsights(details []models.PlayDetail) []string {
	var insights []string

	var attempts, completions, rushes, rushYards int
	for _, d := range details {
		switch d.Role {
		case models.RolePasser:
			attempts++
			if strings.Contains(strings.ToLower(d.PlayText), "pass complete") {
				completions++
			}
		case models.RoleRusher:
			rushes++
			rushYards += d.YardsGained
		}
	}

	if attempts >= completionMinAttempts {
		rate := float64(completions) / float64(attempts)
		if rate > completionRateStrong {
			insights = append(insights, fmt.Sprintf("Accurate passer: %d of %d (%.0f%%)", completions, attempts, rate*100))
		}
	}
	if rushes >= dualThreatMinRushes || rushYards >= dualThreatMinYards {
		insights = append(insights, fmt.Sprintf("Dual-threat: %d rushes for %d yards", rushes, rushYards))
	}

	return insights
}

func runningBackInsights(details []models.PlayDetail) []string {
	explosive := 0
	for _, d := range details {
		if d.Role == models.RoleRusher && d.YardsGained >= explosiveRunYards {
			explosive++
		}
	}
	if explosive >= explosiveRunMinCount {
		return []string{fmt.Sprintf("Broke %d explosive runs of %d+ yards", explosive, explosiveRunYards)}
	}
	return nil
}

func receiverInsights(details []models.PlayDetail) []string {
	var catches, targets int
	for _, d := range details {
		switch d.Role {
		case models.RoleReceiver:
			catches++
			targets++
		case models.RoleTarget:
			targets++
		}
	}
	if targets < catchRateMinTargets {
		return nil
	}
	rate := float64(catches) / float64(targets)
	if rate > catchRateStrong {
		return []string{fmt.Sprintf("Reliable hands: %d catches on %d targets", catches, targets)}
	}
	return nil
}

func defensiveInsights(details []models.PlayDetail) []string {
	var insights []string

	var disruptive, turnovers int
	for _, d := range details {
		switch d.Role {
		case models.RoleSacker, models.RoleInterceptor:
			disruptive++
		case models.RoleTackler:
			if d.YardsGained < 0 {
				disruptive++
			}
		}

		if d.Role == models.RoleInterceptor {
			turnovers++
		} else if d.Role.IsDefensive() && strings.Contains(strings.ToLower(d.PlayType), "fumble") {
			turnovers++
		}
	}

	if disruptive >= disruptiveMinPlays {
		insights = append(insights, fmt.Sprintf("Disruptive presence with %d negative plays forced", disruptive))
	}
	if turnovers == 1 {
		insights = append(insights, "Generated a turnover")
	} else if turnovers > 1 {
		insights = append(insights, fmt.Sprintf("Generated %d turnovers", turnovers))
	}

	return insights
}

func hasDefensiveRole(details []models.PlayDetail) bool {
	for _, d := range details {
		if d.Role.IsDefensive() {
			return true
		}
	}
	return false
}
