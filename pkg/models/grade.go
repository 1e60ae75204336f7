package models

// Role a participant plays in a parsed play
type Role string

const (
	RolePasser      Role = "passer"
	RoleReceiver    Role = "receiver"
	RoleTarget      Role = "target"
	RoleRusher      Role = "rusher"
	RoleSacked      Role = "sacked"
	RoleSacker      Role = "sacker"
	RoleIntercepted Role = "intercepted"
	RoleInterceptor Role = "interceptor"
	RoleFumbler     Role = "fumbler"
	RoleTackler     Role = "tackler"
)

// IsDefensive reports whether the role belongs to the defense
func (r Role) IsDefensive() bool {
	switch r {
	case RoleSacker, RoleInterceptor, RoleTackler:
		return true
	default:
		return false
	}
}

// Participant is one player extracted from a play description
type Participant struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Role     Role   `json:"role"`
	Team     string `json:"team"`
}

// PlayDetail records one play a graded player was involved in
type PlayDetail struct {
	Period      int     `json:"period"`
	Clock       string  `json:"clock"`
	PlayType    string  `json:"play_type"`
	PlayText    string  `json:"play_text"`
	Role        Role    `json:"role"`
	EPA         float64 `json:"epa"`
	YardsGained int     `json:"yards_gained"`
	Down        int     `json:"down"`
	Distance    int     `json:"distance"`
	Scoring     bool    `json:"scoring"`
}

// PerformanceMetrics accumulates a player's per-play signals
type PerformanceMetrics struct {
	TotalPlays            int        `json:"total_plays"`
	PositiveContributions int        `json:"positive_contributions"`
	NegativeContributions int        `json:"negative_contributions"`
	EPAContributions      []float64  `json:"epa_contributions"`
	PPAData               *PlayerPPA `json:"ppa_data,omitempty"`
}

// PlayerGrade is a graded player
type PlayerGrade struct {
	Name               string             `json:"name"`
	Team               string             `json:"team"`
	Position           string             `json:"position"`
	OverallGrade       float64            `json:"overall_grade"`
	PlayCount          int                `json:"play_count"`
	AveragePPA         float64            `json:"average_ppa"`
	Insights           []string           `json:"insights"`
	NameCollision      bool               `json:"name_collision,omitempty"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
	PlayDetails        []PlayDetail       `json:"play_details"`
}
