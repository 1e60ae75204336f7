package grading

import (
	"github.com/fortuna/services/cfb-analytics-service/pkg/contracts"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

// PlayerKey identifies a player within one game. Same-named players on different
// teams get different keys.
type PlayerKey struct {
	Team string
	Name string
}

func keyFor(team, name string) PlayerKey {
	return PlayerKey{Team: normalizeTeam(team), Name: normalizeName(name)}
}

// playerAccumulator collects one player's plays before grading
type playerAccumulator struct {
	key      PlayerKey
	name     string
	team     string
	position string
	metrics  models.PerformanceMetrics
	details  []models.PlayDetail
}

// roster is an insertion-ordered map of accumulators
type roster struct {
	players map[PlayerKey]*playerAccumulator
	byName  map[string][]*playerAccumulator
	order   []*playerAccumulator
}

func newRoster() *roster {
	return &roster{
		players: make(map[PlayerKey]*playerAccumulator),
		byName:  make(map[string][]*playerAccumulator),
	}
}

func (r *roster) add(acc *playerAccumulator) *playerAccumulator {
	r.players[acc.key] = acc
	r.byName[acc.key.Name] = append(r.byName[acc.key.Name], acc)
	r.order = append(r.order, acc)
	return acc
}

// seed registers a player from the PPA list. Duplicate entries keep the first record.
func (r *roster) seed(ppa models.PlayerPPA, parser contracts.PlayParser, plays []models.Play) {
	name := CleanName(ppa.Player)
	if name == "" {
		return
	}

	key := keyFor(ppa.Team, name)
	if _, exists := r.players[key]; exists {
		return
	}

	position := ppa.Position
	if !isKnownPosition(position) {
		position = parser.InferPosition(name, plays)
	}
	if position == "" {
		position = "Unknown"
	}

	data := ppa
	r.add(&playerAccumulator{
		key:      key,
		name:     name,
		team:     ppa.Team,
		position: position,
		metrics: models.PerformanceMetrics{
			EPAContributions: []float64{},
			PPAData:          &data,
		},
	})
}

// resolve finds the accumulator for a participant, creating one when the name is new.
// A participant without a team is matched by name only when exactly one player carries it.
func (r *roster) resolve(p models.Participant, parser contracts.PlayParser, plays []models.Play) *playerAccumulator {
	key := keyFor(p.Team, p.Name)
	if acc, ok := r.players[key]; ok {
		return acc
	}

	if key.Team == "" {
		if candidates := r.byName[key.Name]; len(candidates) == 1 {
			return candidates[0]
		}
	}

	position := p.Position
	if position == "" {
		position = parser.InferPosition(p.Name, plays)
	}
	if position == "" {
		position = "Unknown"
	}

	return r.add(&playerAccumulator{
		key:      key,
		name:     p.Name,
		team:     p.Team,
		position: position,
		metrics: models.PerformanceMetrics{
			EPAContributions: []float64{},
		},
	})
}

// hasCollision reports whether another team has a player with the same name
func (r *roster) hasCollision(acc *playerAccumulator) bool {
	for _, other := range r.byName[acc.key.Name] {
		if other != acc && other.key.Team != acc.key.Team {
			return true
		}
	}
	return false
}

// record adds one play to the accumulator
func (acc *playerAccumulator) record(play models.Play, p models.Participant) {
	impact := play.Impact()
	contribution := impact
	if p.Role.IsDefensive() && !models.SameTeam(play.OffenseTeam(), acc.team) {
		contribution = -impact
	}

	acc.metrics.TotalPlays++
	acc.metrics.EPAContributions = append(acc.metrics.EPAContributions, contribution)
	switch {
	case contribution > 0:
		acc.metrics.PositiveContributions++
	case contribution < 0:
		acc.metrics.NegativeContributions++
	}

	acc.details = append(acc.details, models.PlayDetail{
		Period:      play.Period.Int(),
		Clock:       play.Clock.String(),
		PlayType:    play.TypeLabel(),
		PlayText:    play.PlayText,
		Role:        p.Role,
		EPA:         contribution,
		YardsGained: play.YardsGained.Int(),
		Down:        play.Down.Int(),
		Distance:    play.Distance.Int(),
		Scoring:     play.Scoring,
	})
}
