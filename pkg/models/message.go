package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeAnalysisUpdate  = "analysis_update"
	MessageTypeSubscribe       = "subscribe"
	MessageTypeUnsubscribe     = "unsubscribe"
	MessageTypeHeartbeat       = "heartbeat"
	MessageTypeError           = "error"
	MessageTypeConnectionStats = "connection_stats"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// AnalysisUpdate is the compact payload pushed to dashboards after a run
type AnalysisUpdate struct {
	RunID       string      `json:"run_id"`
	GameID      string      `json:"game_id"`
	HomeTeam    string      `json:"home_team"`
	AwayTeam    string      `json:"away_team"`
	HomePoints  int         `json:"home_points"`
	AwayPoints  int         `json:"away_points"`
	Overview    string      `json:"overview"`
	GameFlow    FlowPattern `json:"game_flow"`
	TopPlayers  []TopPlayer `json:"top_players"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// TopPlayer is a graded player line in an update
type TopPlayer struct {
	Name         string  `json:"name"`
	Team         string  `json:"team"`
	Position     string  `json:"position"`
	OverallGrade float64 `json:"overall_grade"`
}

// NewAnalysisUpdate summarizes a report for broadcast, keeping the top n graded players
func NewAnalysisUpdate(report *GameReport, n int) AnalysisUpdate {
	update := AnalysisUpdate{
		RunID:       report.RunID,
		GameID:      report.GameID,
		GeneratedAt: report.GeneratedAt,
		TopPlayers:  []TopPlayer{},
	}

	if a := report.Analysis; a != nil {
		update.HomeTeam = a.Game.HomeTeam
		update.AwayTeam = a.Game.AwayTeam
		update.HomePoints = a.Game.HomePoints
		update.AwayPoints = a.Game.AwayPoints
		update.Overview = a.Overview
		update.GameFlow = a.GameFlow.Pattern
	}

	for i, g := range report.PlayerGrades {
		if i >= n {
			break
		}
		update.TopPlayers = append(update.TopPlayers, TopPlayer{
			Name:         g.Name,
			Team:         g.Team,
			Position:     g.Position,
			OverallGrade: g.OverallGrade,
		})
	}

	return update
}

// SubscriptionFilter represents client subscription preferences
type SubscriptionFilter struct {
	Games []string `json:"games,omitempty"` // Filter by game IDs
	Teams []string `json:"teams,omitempty"` // Filter by team names (either side)
}

// Matches checks if an update passes the filter. An empty filter accepts everything.
func (f SubscriptionFilter) Matches(update AnalysisUpdate) bool {
	if len(f.Games) == 0 && len(f.Teams) == 0 {
		return true
	}

	if len(f.Games) > 0 && !contains(f.Games, update.GameID) {
		return false
	}

	if len(f.Teams) > 0 {
		matched := false
		for _, team := range f.Teams {
			if SameTeam(team, update.HomeTeam) || SameTeam(team, update.AwayTeam) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
