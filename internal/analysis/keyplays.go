package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

const (
	maxKeyPlays = 12

	highImpactEPA     = 2.0
	standardImpactEPA = 1.0
	explosiveRush     = 15
	explosivePass     = 20
)

// Reason tags attached to key plays
const (
	ReasonHighImpact = "high_impact"
	ReasonScoring    = "scoring"
	ReasonTurnover   = "turnover"
	ReasonConversion = "conversion"
	ReasonExplosive  = "explosive"
)

var turnoverPattern = regexp.MustCompile(`(?i)\b(intercept\w*|fumble[sd]?|turnover on downs)\b`)

// selectKeyPlays tiers every meaningful play, orders by tier then |epa|, and keeps the top 12
func selectKeyPlays(plays []models.Play) []models.KeyPlay {
	keyPlays := []models.KeyPlay{}

	for _, play := range plays {
		if play.IsNonPlay() {
			continue
		}

		importance, reasons := classifyPlay(play)
		if importance == "" {
			continue
		}

		keyPlays = append(keyPlays, models.KeyPlay{
			Period:      play.Period.Int(),
			Clock:       play.Clock.String(),
			Team:        play.OffenseTeam(),
			PlayType:    play.TypeLabel(),
			PlayText:    play.PlayText,
			YardsGained: play.YardsGained.Int(),
			Down:        play.Down.Int(),
			Distance:    play.Distance.Int(),
			EPA:         round(play.Impact(), 3),
			Scoring:     play.Scoring,
			Importance:  importance,
			Reasons:     reasons,
		})
	}

	sort.SliceStable(keyPlays, func(i, j int) bool {
		ri, rj := keyPlays[i].Importance.Rank(), keyPlays[j].Importance.Rank()
		if ri != rj {
			return ri > rj
		}
		return math.Abs(keyPlays[i].EPA) > math.Abs(keyPlays[j].EPA)
	})

	if len(keyPlays) > maxKeyPlays {
		keyPlays = keyPlays[:maxKeyPlays]
	}
	return keyPlays
}

// classifyPlay returns the highest tier a play reaches and every reason it qualified
func classifyPlay(play models.Play) (models.Importance, []string) {
	reasons := []string{}
	impact := play.AbsImpact()

	high := false
	if impact > highImpactEPA {
		high = true
		reasons = append(reasons, ReasonHighImpact)
	}
	if play.Scoring {
		high = true
		reasons = append(reasons, ReasonScoring)
	}
	if isTurnover(play) {
		high = true
		reasons = append(reasons, ReasonTurnover)
	}

	medium := false
	if isConversion(play) {
		medium = true
		reasons = append(reasons, ReasonConversion)
	}
	if isExplosive(play) {
		medium = true
		reasons = append(reasons, ReasonExplosive)
	}

	switch {
	case high:
		return models.ImportanceHigh, reasons
	case medium:
		return models.ImportanceMedium, reasons
	case impact > standardImpactEPA:
		return models.ImportanceStandard, reasons
	}
	return "", nil
}

func isTurnover(play models.Play) bool {
	return turnoverPattern.MatchString(play.PlayType) || turnoverPattern.MatchString(play.PlayText)
}

// isConversion is a 3rd or 4th down that gained the line to gain
func isConversion(play models.Play) bool {
	down, distance := play.Down.Int(), play.Distance.Int()
	return (down == 3 || down == 4) && distance > 0 && play.YardsGained.Int() >= distance
}

func isExplosive(play models.Play) bool {
	yards := play.YardsGained.Int()
	if strings.Contains(strings.ToLower(play.PlayType), "rush") {
		return yards >= explosiveRush
	}
	return yards >= explosivePass
}
