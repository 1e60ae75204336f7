package models

import (
	"fmt"
	"math"
	"strings"
)

// Clock is the game clock at the snap
type Clock struct {
	Minutes FlexInt `json:"minutes"`
	Seconds FlexInt `json:"seconds"`
}

// String formats the clock as M:SS
func (c Clock) String() string {
	return fmt.Sprintf("%d:%02d", c.Minutes.Int(), c.Seconds.Int())
}

// Play is a single play-by-play record from the feed.
// Most fields are frequently absent; accessors resolve defaults.
type Play struct {
	ID          FlexString    `json:"id,omitempty"`
	Period      FlexInt       `json:"period"`
	Clock       Clock         `json:"clock"`
	PlayText    string        `json:"playText"`
	Offense     string        `json:"offense,omitempty"`
	Team        string        `json:"team,omitempty"`
	Defense     string        `json:"defense,omitempty"`
	Home        string        `json:"home,omitempty"`
	Away        string        `json:"away,omitempty"`
	EPA         OptionalFloat `json:"epa"`
	PPA         OptionalFloat `json:"ppa"`
	Scoring     bool          `json:"scoring"`
	PlayType    string        `json:"playType"`
	YardsGained FlexInt       `json:"yardsGained"`
	Down        FlexInt       `json:"down"`
	Distance    FlexInt       `json:"distance"`
}

// PlayByPlay is the play list for one game
type PlayByPlay struct {
	GameID FlexString `json:"gameId,omitempty"`
	Plays  []Play     `json:"plays"`
}

// Impact returns the play's EPA, falling back to PPA, falling back to 0
func (p Play) Impact() float64 {
	if p.EPA.Valid {
		return p.EPA.Value.Float()
	}
	if p.PPA.Valid {
		return p.PPA.Value.Float()
	}
	return 0
}

// AbsImpact returns |Impact()|
func (p Play) AbsImpact() float64 {
	return math.Abs(p.Impact())
}

// OffenseTeam returns the offense, falling back to the generic team field
func (p Play) OffenseTeam() string {
	if p.Offense != "" {
		return p.Offense
	}
	return p.Team
}

// DefenseTeam returns the defense, or the complement of the offense against home/away
func (p Play) DefenseTeam() string {
	if p.Defense != "" {
		return p.Defense
	}
	offense := p.OffenseTeam()
	switch {
	case offense == "":
		return ""
	case SameTeam(offense, p.Home):
		return p.Away
	case SameTeam(offense, p.Away):
		return p.Home
	}
	return ""
}

// TypeLabel returns the play type, or "Unknown" when absent
func (p Play) TypeLabel() string {
	if strings.TrimSpace(p.PlayType) == "" {
		return "Unknown"
	}
	return p.PlayType
}

// Play types that carry no football action
var nonPlayTypes = map[string]bool{
	"timeout":           true,
	"end period":        true,
	"end of half":       true,
	"end of game":       true,
	"end of regulation": true,
	"kickoff":           true,
}

// IsNonPlay reports whether the play is administrative (timeouts, period ends, plain kickoffs)
func (p Play) IsNonPlay() bool {
	return nonPlayTypes[strings.ToLower(strings.TrimSpace(p.PlayType))]
}

// SameTeam compares two team names ignoring case and surrounding space
func SameTeam(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
