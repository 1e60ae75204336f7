package models

import "time"

// GameReport is one analysis run for a game: both engine outputs plus run metadata
type GameReport struct {
	RunID        string        `json:"run_id"`
	GameID       string        `json:"game_id"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Analysis     *GameAnalysis `json:"analysis"`
	PlayerGrades []PlayerGrade `json:"player_grades"`
}

// GradeRun is an archived grading run summary
type GradeRun struct {
	RunID       string        `json:"run_id"`
	GameID      string        `json:"game_id"`
	HomeTeam    string        `json:"home_team"`
	AwayTeam    string        `json:"away_team"`
	GeneratedAt time.Time     `json:"generated_at"`
	Grades      []GradeRecord `json:"grades"`
}

// GradeRecord is one archived player grade
type GradeRecord struct {
	PlayerName    string  `json:"player_name"`
	Team          string  `json:"team"`
	Position      string  `json:"position"`
	OverallGrade  float64 `json:"overall_grade"`
	PlayCount     int     `json:"play_count"`
	AveragePPA    float64 `json:"average_ppa"`
	NameCollision bool    `json:"name_collision"`
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
