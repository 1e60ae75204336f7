package testutil

import (
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

const (
	HomeTeam = "Michigan"
	AwayTeam = "Ohio State"
)

// GameInfoFixture creates a game header with sensible defaults (Michigan 28, Ohio State 21)
func GameInfoFixture(overrides ...func(*models.GameInfo)) *models.GameInfo {
	info := &models.GameInfo{
		ID:          "401520281",
		Season:      2024,
		Week:        13,
		Venue:       "Michigan Stadium",
		HomeTeam:    HomeTeam,
		AwayTeam:    AwayTeam,
		HomePoints:  models.Some(28),
		AwayPoints:  models.Some(21),
		Excitement:  models.Some(6.2),
		HomeWinProb: models.Some(0.78),
		AwayWinProb: models.Some(0.22),
	}

	for _, override := range overrides {
		override(info)
	}

	return info
}

// PlayFixture creates a first-quarter Michigan completion
func PlayFixture(overrides ...func(*models.Play)) models.Play {
	play := models.Play{
		Period:      1,
		Clock:       models.Clock{Minutes: 10, Seconds: 0},
		PlayText:    "Smith pass complete to Jones for 15 yards",
		Offense:     HomeTeam,
		Defense:     AwayTeam,
		Home:        HomeTeam,
		Away:        AwayTeam,
		EPA:         models.Some(0.5),
		PlayType:    "Pass Reception",
		YardsGained: 15,
		Down:        1,
		Distance:    10,
	}

	for _, override := range overrides {
		override(&play)
	}

	return play
}

// AwayPlay flips a play so the away team has the ball
func AwayPlay(play models.Play) models.Play {
	play.Offense, play.Defense = AwayTeam, HomeTeam
	return play
}

// PlayerPPAFixture creates a roster PPA record
func PlayerPPAFixture(name, team, position string, plays int, average, cumulative float64) models.PlayerPPA {
	return models.PlayerPPA{
		Player:     name,
		Team:       team,
		Position:   position,
		Plays:      models.FlexInt(plays),
		Average:    models.PPASplit{Total: models.FlexFloat(average)},
		Cumulative: models.PPASplit{Total: models.FlexFloat(cumulative)},
	}
}

func breakdown(total, q1, q2, q3, q4 float64) models.PeriodBreakdown {
	return models.PeriodBreakdown{
		Total:    models.FlexFloat(total),
		Quarter1: models.FlexFloat(q1),
		Quarter2: models.FlexFloat(q2),
		Quarter3: models.FlexFloat(q3),
		Quarter4: models.FlexFloat(q4),
	}
}

// BoxScoreFixture creates a box score where Michigan leads every team metric
func BoxScoreFixture(overrides ...func(*models.BoxScore)) *models.BoxScore {
	box := &models.BoxScore{
		GameInfo: GameInfoFixture(),
		Teams: models.TeamStats{
			PPA: []models.TeamPPA{
				{
					Team:    HomeTeam,
					Plays:   68,
					Overall: breakdown(0.35, 0.5, 0.1, 0.4, 0.3),
					Passing: breakdown(0.45, 0.6, 0.2, 0.5, 0.4),
					Rushing: breakdown(0.32, 0.4, 0.1, 0.3, 0.2),
				},
				{
					Team:    AwayTeam,
					Plays:   61,
					Overall: breakdown(0.12, 0.0, 0.3, 0.1, 0.05),
					Passing: breakdown(0.15, 0.1, 0.3, 0.1, 0.1),
					Rushing: breakdown(0.05, 0.0, 0.1, 0.0, 0.1),
				},
			},
			SuccessRates: []models.TeamSuccessRate{
				{Team: HomeTeam, Overall: breakdown(0.48, 0, 0, 0, 0)},
				{Team: AwayTeam, Overall: breakdown(0.41, 0, 0, 0, 0)},
			},
			Explosiveness: []models.TeamExplosiveness{
				{Team: HomeTeam, Overall: breakdown(1.6, 0, 0, 0, 0)},
				{Team: AwayTeam, Overall: breakdown(1.2, 0, 0, 0, 0)},
			},
			ScoringOpportunities: []models.TeamScoringOpportunities{
				{Team: HomeTeam, Opportunities: 5, Points: 28, PointsPerOpportunity: 5.6},
				{Team: AwayTeam, Opportunities: 5, Points: 21, PointsPerOpportunity: 4.2},
			},
			FieldPosition: []models.TeamFieldPosition{
				{Team: HomeTeam, AverageStart: 68.5},
				{Team: AwayTeam, AverageStart: 75.0},
			},
			Quarters: []models.QuarterScore{
				{Quarter: 1, Home: 7, Away: 0},
				{Quarter: 2, Home: 7, Away: 14},
				{Quarter: 3, Home: 7, Away: 0},
				{Quarter: 4, Home: 7, Away: 7},
			},
		},
		Players: models.PlayerStats{
			PPA: []models.PlayerPPA{
				PlayerPPAFixture("Smith", HomeTeam, "QB", 30, 0.8, 24.0),
				PlayerPPAFixture("Jones", HomeTeam, "WR", 6, 1.2, 7.2),
				PlayerPPAFixture("Brown", HomeTeam, "RB", 18, 0.2, 3.6),
				PlayerPPAFixture("Davis", AwayTeam, "QB", 28, 0.3, 8.4),
				PlayerPPAFixture("Lee", AwayTeam, "LB", 2, 0.25, 0.5),
			},
		},
	}

	for _, override := range overrides {
		override(box)
	}

	return box
}

// PlaysFixture is a short game script touching every parser rule
func PlaysFixture() []models.Play {
	return []models.Play{
		PlayFixture(func(p *models.Play) {
			p.EPA = models.Some(2.4)
		}),
		PlayFixture(func(p *models.Play) {
			p.PlayText = "Brown run for 18 yds tackled by Lee"
			p.PlayType = "Rush"
			p.EPA = models.Some(1.3)
			p.YardsGained = 18
		}),
		PlayFixture(func(p *models.Play) {
			p.Period = 2
			p.PlayText = "Smith pass complete to Jones for 32 yds for a TD (Kim KICK)"
			p.PlayType = "Passing Touchdown"
			p.Scoring = true
			p.EPA = models.Some(3.1)
			p.YardsGained = 32
		}),
		AwayPlay(PlayFixture(func(p *models.Play) {
			p.Period = 2
			p.PlayText = "Davis pass incomplete to Walker"
			p.PlayType = "Pass Incompletion"
			p.EPA = models.Some(-0.6)
			p.YardsGained = 0
		})),
		PlayFixture(func(p *models.Play) {
			p.Period = 2
			p.PlayType = "Timeout"
			p.PlayText = "Timeout Michigan"
			p.EPA = models.OptionalFloat{}
		}),
		AwayPlay(PlayFixture(func(p *models.Play) {
			p.Period = 3
			p.PlayText = "Davis sacked by Green for a loss of 8 yards"
			p.PlayType = "Sack"
			p.EPA = models.Some(-1.8)
			p.YardsGained = -8
			p.Down = 3
			p.Distance = 6
		})),
		AwayPlay(PlayFixture(func(p *models.Play) {
			p.Period = 4
			p.PlayText = "Davis pass intercepted Taylor return for 12 yds"
			p.PlayType = "Pass Interception Return"
			p.EPA = models.Some(-3.5)
			p.YardsGained = 0
		})),
		PlayFixture(func(p *models.Play) {
			p.Period = 4
			p.PlayText = "Brown run for 7 yds"
			p.PlayType = "Rush"
			p.EPA = models.Some(0.9)
			p.YardsGained = 7
			p.Down = 3
			p.Distance = 5
		}),
	}
}

// AnalysisInputFixture bundles the box score and play script
func AnalysisInputFixture(overrides ...func(*models.AnalysisInput)) models.AnalysisInput {
	input := models.AnalysisInput{
		PlayByPlay: &models.PlayByPlay{GameID: "401520281", Plays: PlaysFixture()},
		BoxScore:   BoxScoreFixture(),
	}

	for _, override := range overrides {
		override(&input)
	}

	return input
}
