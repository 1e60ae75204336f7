package models

// Significance of a quarter's PPA gap
type Significance string

const (
	SignificanceSignificant Significance = "significant"
	SignificanceModerate    Significance = "moderate"
)

// Importance tier of a key play
type Importance string

const (
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceStandard Importance = "standard"
)

// Rank orders importance tiers, higher first
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	case ImportanceStandard:
		return 1
	default:
		return 0
	}
}

// GameAnalysis is the structured narrative produced for one game
type GameAnalysis struct {
	Game                   GameSummary         `json:"game"`
	Outcome                Outcome             `json:"outcome"`
	QuarterAnalysis        []QuarterAnalysis   `json:"quarter_analysis"`
	ScoringSource          string              `json:"scoring_source"`
	TeamStrengths          map[string][]string `json:"team_strengths"`
	KeyPlays               []KeyPlay           `json:"key_plays"`
	TeamEfficiency         TeamEfficiency      `json:"team_efficiency"`
	StarPlayers            []StarPlayer        `json:"star_players"`
	TeamComparisonInsights []string            `json:"team_comparison_insights"`
	Overview               string              `json:"overview"`
	GameStory              string              `json:"game_story"`
	QuarterSummaries       []string            `json:"quarter_summaries"`
	KeysToVictory          []string            `json:"keys_to_victory"`
	TurningPoint           TurningPoint        `json:"turning_point"`
	GameFlow               GameFlow            `json:"game_flow"`
}

// QuarterAnalysis combines reconciled scoring with PPA for one quarter
type QuarterAnalysis struct {
	Quarter       int          `json:"quarter"`
	HomePPA       float64      `json:"home_ppa"`
	AwayPPA       float64      `json:"away_ppa"`
	HomeAdvantage bool         `json:"home_advantage"`
	Significance  Significance `json:"significance"`
	HomeScoring   int          `json:"home_scoring"`
	AwayScoring   int          `json:"away_scoring"`
	ScoringDiff   int          `json:"scoring_diff"`
}

// KeyPlay is a play selected for narrative highlighting
type KeyPlay struct {
	Period      int        `json:"period"`
	Clock       string     `json:"clock"`
	Team        string     `json:"team"`
	PlayType    string     `json:"play_type"`
	PlayText    string     `json:"play_text"`
	YardsGained int        `json:"yards_gained"`
	Down        int        `json:"down"`
	Distance    int        `json:"distance"`
	EPA         float64    `json:"epa"`
	Scoring     bool       `json:"scoring"`
	Importance  Importance `json:"importance"`
	Reasons     []string   `json:"reasons"`
}

// MetricComparison compares one scalar metric between the teams
type MetricComparison struct {
	Home      float64 `json:"home"`
	Away      float64 `json:"away"`
	Advantage string  `json:"advantage"`
}

// OpportunityStats is a team's scoring opportunity line
type OpportunityStats struct {
	Opportunities        int     `json:"opportunities"`
	Points               int     `json:"points"`
	PointsPerOpportunity float64 `json:"points_per_opportunity"`
}

// OpportunityComparison compares scoring opportunity conversion
type OpportunityComparison struct {
	Home      OpportunityStats `json:"home"`
	Away      OpportunityStats `json:"away"`
	Advantage string           `json:"advantage"`
}

// TeamEfficiency is the head-to-head efficiency table
type TeamEfficiency struct {
	Passing              MetricComparison      `json:"passing"`
	Rushing              MetricComparison      `json:"rushing"`
	SuccessRate          MetricComparison      `json:"success_rate"`
	Explosiveness        MetricComparison      `json:"explosiveness"`
	ScoringOpportunities OpportunityComparison `json:"scoring_opportunities"`
	FieldPosition        MetricComparison      `json:"field_position"`
}

// StarPlayer is a standout performer by cumulative PPA
type StarPlayer struct {
	Name          string  `json:"name"`
	Team          string  `json:"team"`
	Position      string  `json:"position"`
	TotalPPA      float64 `json:"total_ppa"`
	AveragePPA    float64 `json:"average_ppa"`
	PassingPPA    float64 `json:"passing_ppa"`
	RushingPPA    float64 `json:"rushing_ppa"`
	Plays         int     `json:"plays"`
	Effectiveness string  `json:"effectiveness"`
	Strength      string  `json:"strength"`
}

// TurningPoint is the play judged to have swung momentum
type TurningPoint struct {
	Exists      bool     `json:"exists"`
	Play        *KeyPlay `json:"play,omitempty"`
	Description string   `json:"description,omitempty"`
	Period      int      `json:"period,omitempty"`
	Team        string   `json:"team,omitempty"`
}

// FlowPattern names the half-by-half scoring shape of a game
type FlowPattern string

const (
	FlowComeback     FlowPattern = "second_half_comeback"
	FlowWireToWire   FlowPattern = "wire_to_wire"
	FlowBackAndForth FlowPattern = "back_and_forth"
	FlowEarlyLead    FlowPattern = "early_lead_holds"
	FlowLateSurge    FlowPattern = "late_surge"
	FlowCompetitive  FlowPattern = "competitive"
)

// GameFlow describes how the scoring unfolded
type GameFlow struct {
	Pattern     FlowPattern `json:"pattern"`
	Description string      `json:"description"`
	LeadChanges int         `json:"lead_changes"`
}
