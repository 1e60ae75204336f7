package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

const (
	maxStarPlayers = 8

	starMinCumulativePPA = 0.6
	starMinPlays         = 3
	eliteAveragePPA      = 1.0
	excellentAveragePPA  = 0.7
)

// Effectiveness labels
const (
	EffectivenessElite     = "elite"
	EffectivenessExcellent = "excellent"
	EffectivenessSolid     = "solid"
)

// selectStarPlayers keeps the top PPA producers with a real workload
func selectStarPlayers(players []models.PlayerPPA) []models.StarPlayer {
	stars := []models.StarPlayer{}

	for _, p := range players {
		cumulative := p.Cumulative.Total.Float()
		plays := p.PlayCount()
		if !(cumulative > starMinCumulativePPA) || plays < starMinPlays {
			continue
		}

		average := p.Average.Total.Float()
		stars = append(stars, models.StarPlayer{
			Name:          strings.TrimSpace(p.Player),
			Team:          p.Team,
			Position:      p.Position,
			TotalPPA:      cumulative,
			AveragePPA:    round(average, 3),
			PassingPPA:    round(p.Cumulative.Passing.Float(), 2),
			RushingPPA:    round(p.Cumulative.Rushing.Float(), 2),
			Plays:         plays,
			Effectiveness: effectiveness(average),
			Strength:      strengthLine(p),
		})
	}

	sort.SliceStable(stars, func(i, j int) bool {
		return stars[i].TotalPPA > stars[j].TotalPPA
	})

	if len(stars) > maxStarPlayers {
		stars = stars[:maxStarPlayers]
	}
	return stars
}

func effectiveness(average float64) string {
	switch {
	case average > eliteAveragePPA:
		return EffectivenessElite
	case average > excellentAveragePPA:
		return EffectivenessExcellent
	default:
		return EffectivenessSolid
	}
}

// strengthLine describes how the player produced, keyed by position
func strengthLine(p models.PlayerPPA) string {
	passing := p.Cumulative.Passing.Float()
	rushing := p.Cumulative.Rushing.Float()
	total := p.Cumulative.Total.Float()

	switch strings.ToUpper(strings.TrimSpace(p.Position)) {
	case "QB":
		if passing >= rushing {
			return fmt.Sprintf("Efficient passer, adding %.1f PPA through the air", passing)
		}
		return fmt.Sprintf("Dual-threat weapon, adding %.1f PPA on the ground", rushing)
	case "RB", "HB", "TB", "FB":
		return fmt.Sprintf("Productive runner, adding %.1f rushing PPA", rushing)
	case "WR", "TE":
		return fmt.Sprintf("Reliable receiving target, adding %.1f PPA", total)
	default:
		return fmt.Sprintf("Impact contributor with %.1f total PPA", total)
	}
}
