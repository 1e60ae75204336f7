package models

// GameInfo is the game header as delivered by the feed (box score or games endpoint)
type GameInfo struct {
	ID          FlexString    `json:"id,omitempty"`
	Season      FlexInt       `json:"season,omitempty"`
	Week        FlexInt       `json:"week,omitempty"`
	Venue       string        `json:"venue,omitempty"`
	HomeTeam    string        `json:"homeTeam"`
	AwayTeam    string        `json:"awayTeam"`
	HomePoints  OptionalFloat `json:"homePoints"`
	AwayPoints  OptionalFloat `json:"awayPoints"`
	Excitement  OptionalFloat `json:"excitement"`
	HomeWinProb OptionalFloat `json:"homeWinProb"`
	AwayWinProb OptionalFloat `json:"awayWinProb"`
}

// AnalysisInput bundles the documents both engines consume.
// Only BoxScore.GameInfo is required by the game analysis engine.
type AnalysisInput struct {
	PlayByPlay *PlayByPlay `json:"playByPlay,omitempty"`
	BoxScore   *BoxScore   `json:"boxScore,omitempty"`
	Scoreboard *Scoreboard `json:"scoreboard,omitempty"`
	GameInfo   *GameInfo   `json:"gameInfo,omitempty"`
}

// Plays returns the play list, or nil when no play-by-play was supplied
func (in AnalysisInput) Plays() []Play {
	if in.PlayByPlay == nil {
		return nil
	}
	return in.PlayByPlay.Plays
}

// GameSummary is the normalized game header; every field has a resolved value
type GameSummary struct {
	GameID      string  `json:"game_id,omitempty"`
	Season      int     `json:"season,omitempty"`
	Week        int     `json:"week,omitempty"`
	Venue       string  `json:"venue,omitempty"`
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
	HomePoints  int     `json:"home_points"`
	AwayPoints  int     `json:"away_points"`
	Excitement  float64 `json:"excitement"`
	HomeWinProb float64 `json:"home_win_prob"`
	AwayWinProb float64 `json:"away_win_prob"`
}

// Outcome classifies the final result
type Outcome struct {
	Winner       string `json:"winner"`
	Loser        string `json:"loser"`
	WinnerPoints int    `json:"winner_points"`
	LoserPoints  int    `json:"loser_points"`
	Margin       int    `json:"margin"`
	IsCloseGame  bool   `json:"is_close_game"`
	IsBlowout    bool   `json:"is_blowout"`
	IsTie        bool   `json:"is_tie"`
}
