package models

// BoxScore is the advanced box score document
type BoxScore struct {
	GameInfo *GameInfo   `json:"gameInfo"`
	Teams    TeamStats   `json:"teams"`
	Players  PlayerStats `json:"players"`
}

// TeamStats holds the per-team aggregate arrays, one record per team
type TeamStats struct {
	PPA                  []TeamPPA                  `json:"ppa"`
	SuccessRates         []TeamSuccessRate          `json:"successRates"`
	Explosiveness        []TeamExplosiveness        `json:"explosiveness"`
	ScoringOpportunities []TeamScoringOpportunities `json:"scoringOpportunities"`
	FieldPosition        []TeamFieldPosition        `json:"fieldPosition"`
	Quarters             []QuarterScore             `json:"quarters"`
}

// PeriodBreakdown is a total plus per-quarter split of a metric
type PeriodBreakdown struct {
	Total    FlexFloat `json:"total"`
	Quarter1 FlexFloat `json:"quarter1"`
	Quarter2 FlexFloat `json:"quarter2"`
	Quarter3 FlexFloat `json:"quarter3"`
	Quarter4 FlexFloat `json:"quarter4"`
}

// Quarter returns the value for quarter 1-4, 0 otherwise
func (b PeriodBreakdown) Quarter(q int) float64 {
	switch q {
	case 1:
		return b.Quarter1.Float()
	case 2:
		return b.Quarter2.Float()
	case 3:
		return b.Quarter3.Float()
	case 4:
		return b.Quarter4.Float()
	default:
		return 0
	}
}

// TeamPPA is a team's predicted points added, overall and by play family
type TeamPPA struct {
	Team    string          `json:"team"`
	Plays   FlexInt         `json:"plays"`
	Overall PeriodBreakdown `json:"overall"`
	Passing PeriodBreakdown `json:"passing"`
	Rushing PeriodBreakdown `json:"rushing"`
}

// TeamSuccessRate is a team's success rate by down family
type TeamSuccessRate struct {
	Team          string          `json:"team"`
	Overall       PeriodBreakdown `json:"overall"`
	StandardDowns PeriodBreakdown `json:"standardDowns"`
	PassingDowns  PeriodBreakdown `json:"passingDowns"`
}

// TeamExplosiveness is a team's average PPA on successful plays
type TeamExplosiveness struct {
	Team    string          `json:"team"`
	Overall PeriodBreakdown `json:"overall"`
}

// TeamScoringOpportunities counts drives reaching scoring range
type TeamScoringOpportunities struct {
	Team                 string    `json:"team"`
	Opportunities        FlexInt   `json:"opportunities"`
	Points               FlexInt   `json:"points"`
	PointsPerOpportunity FlexFloat `json:"pointsPerOpportunity"`
}

// TeamFieldPosition is a team's average drive start, in yards to goal
type TeamFieldPosition struct {
	Team                           string    `json:"team"`
	AverageStart                   FlexFloat `json:"averageStart"`
	AverageStartingPredictedPoints FlexFloat `json:"averageStartingPredictedPoints"`
}

// QuarterScore is one box-score quarter line
type QuarterScore struct {
	Quarter FlexInt `json:"quarter"`
	Home    FlexInt `json:"home"`
	Away    FlexInt `json:"away"`
}

// PlayerStats holds the player-level arrays
type PlayerStats struct {
	PPA []PlayerPPA `json:"ppa"`
}

// PPASplit is a player PPA split
type PPASplit struct {
	Total   FlexFloat `json:"total"`
	Passing FlexFloat `json:"passing"`
	Rushing FlexFloat `json:"rushing"`
}

// PlayerPPA is a player's PPA summary for the game
type PlayerPPA struct {
	Player     string   `json:"player"`
	Team       string   `json:"team"`
	Position   string   `json:"position"`
	Plays      FlexInt  `json:"plays"`
	Average    PPASplit `json:"average"`
	Cumulative PPASplit `json:"cumulative"`
}

// PlayCount returns the recorded play count. When the feed omits it the count is
// estimated from cumulative / average PPA.
func (p PlayerPPA) PlayCount() int {
	if p.Plays > 0 {
		return p.Plays.Int()
	}
	avg := p.Average.Total.Float()
	if avg == 0 {
		return 0
	}
	n := p.Cumulative.Total.Float() / avg
	if n <= 0 {
		return 0
	}
	return int(n + 0.5)
}

// Scoreboard carries the official line scores
type Scoreboard struct {
	HomeLineScores []FlexInt `json:"homeLineScores"`
	AwayLineScores []FlexInt `json:"awayLineScores"`
}

// HasLineScores reports whether either side has line scores
func (s *Scoreboard) HasLineScores() bool {
	return s != nil && (len(s.HomeLineScores) > 0 || len(s.AwayLineScores) > 0)
}
